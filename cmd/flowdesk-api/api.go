// Package main provides the flowdesk API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/dukex/flowdesk/pkg/eventbus"
	"github.com/dukex/flowdesk/pkg/persistence"
	"github.com/dukex/flowdesk/pkg/secrets"
	"github.com/dukex/flowdesk/pkg/services"
	"github.com/dukex/flowdesk/pkg/web"
)

const shutdownTimeout = 10 * time.Second

type API struct {
	logger     *slog.Logger
	eventBus   eventbus.EventBus
	services   web.Services
	reconciler *services.Reconciler
	validate   *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	sealer *secrets.Sealer,
	tracer trace.Tracer,
) *API {
	validate := validator.New(validator.WithRequiredStructEnabled())

	opts := []services.Option{
		services.WithPublisher(eventBus),
		services.WithLogger(logger),
		services.WithTracer(tracer),
		services.WithValidator(validate),
	}

	return &API{
		logger:   logger,
		eventBus: eventBus,
		services: web.Services{
			Agents:       services.NewAgent(persistence, opts...),
			Automations:  services.NewAutomation(persistence, opts...),
			FAQs:         services.NewFAQ(persistence, opts...),
			Updates:      services.NewUpdate(persistence, opts...),
			Integrations: services.NewIntegration(persistence, sealer, opts...),
		},
		reconciler: services.NewReconciler(persistence, logger),
		validate:   validate,
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.services, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("flowdesk API")
	})

	handlers.Register(app)

	return app
}

// PublishDueUpdates publishes every scheduled update whose time has come.
func (a *API) PublishDueUpdates(ctx context.Context) {
	published, err := a.services.Updates.PublishDue(ctx)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to publish scheduled updates", "error", err)

		return
	}

	if published > 0 {
		a.logger.InfoContext(ctx, "Published scheduled updates", "count", published)
	}
}

// Run serves HTTP on port, consumes events and publishes due updates on schedule until
// ctx is cancelled or one of them fails.
func (a *API) Run(ctx context.Context, port int, schedule string) error {
	err := a.reconciler.Register(a.eventBus)
	if err != nil {
		return fmt.Errorf("failed to register event handlers: %w", err)
	}

	scheduler := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	_, err = scheduler.AddFunc(schedule, func() { a.PublishDueUpdates(ctx) })
	if err != nil {
		return fmt.Errorf("invalid publish schedule %q: %w", schedule, err)
	}

	app := a.App()
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return a.eventBus.Subscribe(groupCtx)
	})

	group.Go(func() error {
		scheduler.Start()
		<-groupCtx.Done()
		<-scheduler.Stop().Done()

		return nil
	})

	group.Go(func() error {
		a.logger.InfoContext(ctx, "Starting HTTP server", "port", port)

		return app.Listen(":"+strconv.Itoa(port), fiber.ListenConfig{DisableStartupMessage: true})
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		return app.ShutdownWithContext(shutdownCtx)
	})

	err = group.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	a.logger.InfoContext(ctx, "flowdesk API stopped")

	return nil
}
