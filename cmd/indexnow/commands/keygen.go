package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/OrlandoBitencourt/indexnow"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
)

func KeygenCommand() *cli.Command {
	return &cli.Command{
		Name:   "keygen",
		Usage:  "Generate a new IndexNow key",
		Action: keygenAction,
	}
}

func keygenAction(ctx context.Context, c *cli.Command) error {
	key := newKey()

	w := c.Root().Writer
	fmt.Fprintf(w, "%s=%s\n", indexnow.EnvAPIKey, key)
	fmt.Fprintf(w, "%s=%s\n", indexnow.EnvKeyFileName, indexnow.DefaultKeyFileName(key))
	return nil
}

// newKey returns 32 lowercase hex characters.
func newKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
