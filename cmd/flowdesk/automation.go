package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/dukex/flowdesk/pkg/cmd"
	"github.com/dukex/flowdesk/pkg/codec"
	"github.com/dukex/flowdesk/pkg/log"
	"github.com/dukex/flowdesk/pkg/persistence"
	"github.com/dukex/flowdesk/pkg/services"
)

var errIDRequired = errors.New("an automation id is required")

func NewAutomationCommand() *cli.Command {
	return &cli.Command{
		Name:  "automation",
		Usage: "Export and import automations",
		Commands: []*cli.Command{
			{
				Name:      "export",
				Usage:     "Write an automation as a portable document",
				ArgsUsage: "ID",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (json, yaml)",
						Value:   string(codec.FormatYAML),
					},
				},
				Action: exportAutomation,
			},
			{
				Name:      "import",
				Usage:     "Create an inactive automation from a document",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "owner-id",
						Usage:    "Owner of the imported automation",
						Required: true,
						Sources:  cli.EnvVars("OWNER_ID"),
					},
				},
				Action: importAutomation,
			},
		},
	}
}

func exportAutomation(ctx context.Context, command *cli.Command) error {
	id := command.Args().First()
	if id == "" {
		return errIDRequired
	}

	format, err := codec.ParseFormat(command.String("format"))
	if err != nil {
		return err
	}

	return withPersistence(ctx, command, func(logger *slog.Logger, p persistence.Persistence) error {
		automation, err := services.NewAutomation(p, services.WithLogger(logger)).FetchByID(ctx, id)
		if err != nil {
			return err
		}

		return codec.Encode(command.Root().Writer, codec.FromAutomation(automation), format)
	})
}

func importAutomation(ctx context.Context, command *cli.Command) error {
	path := command.Args().First()
	if path == "" {
		return errFileRequired
	}

	format, err := codec.FormatFromPath(path)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	doc, err := codec.Decode(file, format)
	if err != nil {
		return err
	}

	return withPersistence(ctx, command, func(logger *slog.Logger, p persistence.Persistence) error {
		created, err := services.NewAutomation(p, services.WithLogger(logger)).
			Create(ctx, doc.Automation(command.String("owner-id")))
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintln(command.Root().Writer, created.ID)

		return nil
	})
}

func withPersistence(
	ctx context.Context,
	command *cli.Command,
	fn func(logger *slog.Logger, p persistence.Persistence) error,
) error {
	logger := log.WithModule("cli")

	p, err := cmd.NewPersistence(ctx, logger, command.Root().String("database-url"))
	if err != nil {
		return err
	}

	defer func() {
		if err := p.Close(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
		}
	}()

	return fn(logger, p)
}
