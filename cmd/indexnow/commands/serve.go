package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/OrlandoBitencourt/indexnow"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the IndexNow key file for ownership verification",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "Listen address",
				Value:   ":8080",
				Sources: cli.EnvVars("INDEXNOW_ADDR"),
			},
			&cli.StringFlag{
				Name:  "api-key",
				Usage: "IndexNow key (default: $INDEXNOW_API_KEY)",
			},
			&cli.StringFlag{
				Name:  "key-file-name",
				Usage: "Key file name (default: <api-key>.txt)",
			},
		},
		Action: serveAction,
	}
}

func serveAction(ctx context.Context, c *cli.Command) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	if !cfg.EngineValid() {
		cfg.Logger.Error(fmt.Sprintf("[IndexNow] Serving with incomplete configuration, missing %v", cfg.MissingFields()))
	}

	e := newServer(cfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(c.String("addr"))
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// newServer builds the echo server exposing the key file and a health check.
func newServer(cfg *indexnow.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/:key_file_name", echo.WrapHandler(indexnow.NewVerificationHandler(cfg)))

	return e
}
