package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"

	"github.com/dukex/flowdesk/pkg/channels/kafka"
	"github.com/dukex/flowdesk/pkg/cmd"
	"github.com/dukex/flowdesk/pkg/log"
	"github.com/dukex/flowdesk/pkg/otelhelper"
	"github.com/dukex/flowdesk/pkg/secrets"
)

const (
	serviceName     = "flowdesk-api"
	defaultPort     = 9091
	defaultSchedule = "* * * * *"
)

func main() {
	_ = godotenv.Load()

	command := &cli.Command{
		Name:                  serviceName,
		Usage:                 "Serve the automation dashboard API",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Database connection URL for persistence (file, mem, sqlite, redis, postgres)",
				Value:   "file://./data",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma separated Kafka brokers",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.StringFlag{
				Name:     "secret-key",
				Usage:    "Secret used to seal integration tokens",
				Required: true,
				Sources:  cli.EnvVars("SECRET_KEY"),
			},
			&cli.StringFlag{
				Name:    "publish-schedule",
				Usage:   "Cron expression for publishing scheduled updates",
				Value:   defaultSchedule,
				Sources: cli.EnvVars("PUBLISH_SCHEDULE"),
			},
			&cli.BoolFlag{
				Name:    "otel-enabled",
				Usage:   "Export traces over OTLP/HTTP",
				Sources: cli.EnvVars("OTEL_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := setupLogger(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing flowdesk API")

			tracer, shutdownTracer, err := otelhelper.NewTracer(ctx, serviceName, command.Bool("otel-enabled"))
			if err != nil {
				return fmt.Errorf("failed to initialize tracer: %w", err)
			}

			defer func() {
				if err := shutdownTracer(context.WithoutCancel(ctx)); err != nil {
					logger.ErrorContext(ctx, "Failed to shutdown tracer", "error", err)
				}
			}()

			sealer, err := secrets.NewSealer(command.String("secret-key"))
			if err != nil {
				return err
			}

			persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := persistence.Close(context.WithoutCancel(ctx)); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus, err := cmd.NewEventBus(
				command.String("event-bus"),
				kafka.ParseBrokers(command.String("kafka-brokers")),
				serviceName,
				logger,
			)
			if err != nil {
				return err
			}

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			api := NewAPI(logger, persistence, eventBus, sealer, tracer)

			return api.Run(ctx, command.Int("port"), command.String("publish-schedule"))
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := command.Run(ctx, os.Args); err != nil {
		slog.Error("flowdesk API stopped", "error", err)
		os.Exit(1)
	}
}

// setupLogger installs the process logger for level and returns the API module logger.
func setupLogger(level string) *slog.Logger {
	log.Setup(level)

	return log.WithModule("api")
}
