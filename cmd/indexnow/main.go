package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/OrlandoBitencourt/indexnow/cmd/indexnow/commands"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := commands.NewApp()
	if err := app.Run(ctx, os.Args); err != nil {
		os.Exit(1)
	}
}
