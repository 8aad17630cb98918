package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dukex/flowdesk/pkg/eventbus"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/otelhelper"
	"github.com/dukex/flowdesk/pkg/persistence"
)

const tracerName = "flowdesk/services"

// Option configures the collaborators shared by every service.
type Option func(*base)

// WithPublisher publishes lifecycle events after successful writes.
func WithPublisher(publisher eventbus.EventPublisher) Option {
	return func(b *base) {
		b.publisher = publisher
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(b *base) {
		b.logger = logger
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(b *base) {
		b.tracer = tracer
	}
}

func WithValidator(v *validator.Validate) Option {
	return func(b *base) {
		b.validator = v
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(b *base) {
		b.now = now
	}
}

type base struct {
	persistence persistence.Persistence
	publisher   eventbus.EventPublisher
	validator   *validator.Validate
	tracer      trace.Tracer
	logger      *slog.Logger
	now         func() time.Time
}

func newBase(p persistence.Persistence, opts []Option) base {
	b := base{
		persistence: p,
		validator:   validator.New(validator.WithRequiredStructEnabled()),
		tracer:      otel.Tracer(tracerName),
		logger:      slog.Default(),
		now:         func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(&b)
	}

	return b
}

// HealthCheck checks the health of the persistence layer.
func (b *base) HealthCheck(ctx context.Context) (string, bool) {
	if b.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := b.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

//nolint:spancheck
func (b *base) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otelhelper.StartSpan(ctx, b.tracer, name, attrs...)
}

// finish records err on the span and ends it.
func finish(span trace.Span, err error) {
	if err != nil {
		otelhelper.SetError(span, err)
	}

	span.End()
}

func (b *base) validate(op string, record any) error {
	err := b.validator.Struct(record)
	if err == nil {
		return nil
	}

	return NewValidationError(op, "VALIDATION_FAILED", err.Error(), errors.Join(ErrInvalidRequest, err))
}

// publish sends a lifecycle event. Storage is the source of truth, so a failed publish
// is logged and the operation still succeeds.
func (b *base) publish(ctx context.Context, key string, event eventbus.Event) {
	if b.publisher == nil {
		return
	}

	err := b.publisher.Publish(ctx, key, event)
	if err != nil {
		b.logger.ErrorContext(ctx, "failed to publish event",
			"event_type", event.GetType(),
			"key", key,
			"error", err)
	}
}

// ListRequest contains options for listing records.
type ListRequest struct {
	// Pagination
	Limit  int
	Offset int

	// Filtering
	OwnerID  string
	IsActive *bool
	AgentID  string

	// Sorting
	SortBy    string
	SortOrder string
}

func (r ListRequest) options(op string) (persistence.ListOptions, error) {
	if r.OwnerID != "" {
		r.OwnerID = strings.TrimSpace(r.OwnerID)
		if r.OwnerID == "" {
			return persistence.ListOptions{}, ErrEmptyOwnerID
		}
	}

	opts, err := persistence.ListOptions{
		OwnerID:   r.OwnerID,
		IsActive:  r.IsActive,
		AgentID:   r.AgentID,
		SortBy:    r.SortBy,
		SortOrder: r.SortOrder,
		Limit:     r.Limit,
		Offset:    r.Offset,
	}.Normalize()

	switch {
	case errors.Is(err, persistence.ErrInvalidSortField):
		return opts, NewValidationError(op, "INVALID_SORT_FIELD",
			fmt.Sprintf("invalid sort field '%s', allowed: created_at, updated_at, name", r.SortBy),
			ErrInvalidSortField)
	case errors.Is(err, persistence.ErrInvalidSortOrder):
		return opts, NewValidationError(op, "INVALID_SORT_ORDER",
			fmt.Sprintf("invalid sort order '%s', allowed: asc, desc", r.SortOrder),
			ErrInvalidSortOrder)
	}

	return opts, err
}

func list[T models.Document](
	ctx context.Context,
	repo persistence.Repository[T],
	op string,
	req ListRequest,
) (*persistence.ListResult[T], error) {
	opts, err := req.options(op)
	if err != nil {
		return nil, err
	}

	result, err := repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	return result, nil
}

// save stamps and stores a record. Persistence errors remain as 500s.
func save[T models.Document](ctx context.Context, repo persistence.Repository[T], record T) error {
	err := repo.Save(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}

	return nil
}

// each calls fn for every record matching opts, one page at a time.
func each[T models.Document](
	ctx context.Context,
	repo persistence.Repository[T],
	opts persistence.ListOptions,
	fn func(T) error,
) error {
	opts.Limit = persistence.MaxLimit
	opts.Offset = 0
	opts.SortBy = persistence.SortCreatedAt
	opts.SortOrder = persistence.SortAsc

	for {
		page, err := repo.List(ctx, opts)
		if err != nil {
			return err
		}

		for _, record := range page.Items {
			err = fn(record)
			if err != nil {
				return err
			}
		}

		if !page.HasNextPage {
			return nil
		}

		opts.Offset += len(page.Items)
	}
}
