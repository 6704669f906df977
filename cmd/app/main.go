// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/keyvault/cmd/app/commands"
	"github.com/allisson/keyvault/internal/app"
	"github.com/allisson/keyvault/internal/config"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "app",
		Usage:   "Key vault access API",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					defer func() { _ = container.Shutdown(ctx) }()

					return commands.RunMigrations(container.Logger(), cfg.DBConnectionString)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
