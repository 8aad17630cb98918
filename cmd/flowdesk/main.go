// Package main provides the flowdesk admin CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"

	"github.com/dukex/flowdesk/pkg/log"
)

func main() {
	_ = godotenv.Load()

	if err := NewCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// NewCommand builds the root command.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:                  "flowdesk",
		Usage:                 "Inspect and move automation graphs",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Database connection URL for persistence (file, mem, sqlite, redis, postgres)",
				Value:   "file://./data",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, command *cli.Command) (context.Context, error) {
			log.Setup(command.String("log-level"))

			return ctx, nil
		},
		Commands: []*cli.Command{
			NewGraphCommand(),
			NewAutomationCommand(),
		},
	}
}
