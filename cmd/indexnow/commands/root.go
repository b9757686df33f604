package commands

import (
	"fmt"
	"os"

	"github.com/OrlandoBitencourt/indexnow"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// NewApp creates the root CLI application
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "indexnow",
		Usage:   "IndexNow CLI - submit URLs and serve the verification key file",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("INDEXNOW_LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			SubmitCommand(),
			ServeCommand(),
			KeygenCommand(),
		},
	}
}

func newLogger(c *cli.Command) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.String("log-level"))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(level)
	return logger, nil
}

// loadConfig reads INDEXNOW_* variables and applies command flags on top.
func loadConfig(c *cli.Command) (*indexnow.Config, error) {
	logger, err := newLogger(c)
	if err != nil {
		return nil, err
	}

	cfg := indexnow.ConfigFromEnv()
	cfg.Logger = indexnow.NewLogrusLogger(logger)

	if c.IsSet("api-key") {
		cfg.APIKey = c.String("api-key")
		if !c.IsSet("key-file-name") && cfg.KeyFileName == "" {
			cfg.KeyFileName = indexnow.DefaultKeyFileName(cfg.APIKey)
		}
	}
	if c.IsSet("host") {
		cfg.Host = c.String("host")
	}
	if c.IsSet("key-file-name") {
		cfg.KeyFileName = c.String("key-file-name")
	}

	return cfg, nil
}
