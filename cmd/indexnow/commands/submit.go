package commands

import (
	"context"
	"fmt"

	"github.com/OrlandoBitencourt/indexnow"
	"github.com/urfave/cli/v3"
)

func SubmitCommand() *cli.Command {
	return &cli.Command{
		Name:      "submit",
		Usage:     "Submit URLs to IndexNow",
		ArgsUsage: "<url> [url...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "api-key",
				Usage: "IndexNow key (default: $INDEXNOW_API_KEY)",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to submit for (default: host of the first URL)",
			},
			&cli.StringFlag{
				Name:  "endpoint",
				Usage: "IndexNow endpoint",
				Value: indexnow.DefaultEndpoint,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Request timeout",
				Value: indexnow.DefaultTimeout,
			},
			&cli.StringFlag{
				Name:  "filter",
				Usage: `Only submit URLs matching an expression, e.g. 'path startsWith "/blog"'`,
			},
		},
		Action: submitAction,
	}
}

func submitAction(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("at least one URL is required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	opts := []indexnow.Option{
		indexnow.WithEndpoint(c.String("endpoint")),
		indexnow.WithTimeout(c.Duration("timeout")),
	}
	if c.IsSet("filter") {
		opts = append(opts, indexnow.WithURLFilter(c.String("filter")))
	}

	client, err := indexnow.New(cfg, opts...)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	result := client.Submit(ctx, c.Args().Slice()...)

	fmt.Fprintln(c.Root().Writer, formatResult(result))

	if result.Attempted() && !result.Accepted() {
		return fmt.Errorf("submission %s: %w", result.Outcome, result.Err)
	}
	return nil
}

func formatResult(r indexnow.Result) string {
	switch {
	case r.Outcome == indexnow.OutcomeNotAttempted && r.Reason != indexnow.ReasonNone:
		return fmt.Sprintf("%s (%s)", r.Outcome, r.Reason)
	case r.StatusCode != 0:
		return fmt.Sprintf("%s: %d URLs, HTTP %d", r.Outcome, r.URLCount, r.StatusCode)
	default:
		return r.Outcome.String()
	}
}
