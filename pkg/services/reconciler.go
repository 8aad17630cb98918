package services

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dukex/flowdesk/pkg/eventbus"
	"github.com/dukex/flowdesk/pkg/events"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/otelhelper"
	"github.com/dukex/flowdesk/pkg/persistence"
)

// Reconciler clears references to deleted agents from automations and FAQs.
type Reconciler struct {
	persistence persistence.Persistence
	logger      *slog.Logger
	tracer      trace.Tracer
}

func NewReconciler(p persistence.Persistence, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		persistence: p,
		logger:      logger,
		tracer:      otel.Tracer(tracerName),
	}
}

// Register subscribes the reconciler to agent deletions.
func (r *Reconciler) Register(subscriber eventbus.EventSubscriber) error {
	return subscriber.Handle(events.AgentDeletedEvent, r.handleAgentDeleted)
}

func (r *Reconciler) handleAgentDeleted(ctx context.Context, event any) error {
	deleted, ok := event.(*events.AgentDeleted)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}

	_, err := r.ClearAgent(ctx, deleted.AgentID)

	return err
}

// ClearAgent removes agentID from every automation and FAQ referencing it and returns
// how many records changed. It is idempotent, so redelivered events are harmless.
func (r *Reconciler) ClearAgent(ctx context.Context, agentID string) (cleared int, err error) {
	ctx, span := otelhelper.StartSpan(ctx, r.tracer, "reconciler.clear_agent",
		attribute.String(otelhelper.AgentIDKey, agentID),
		attribute.String(otelhelper.EventTypeKey, string(events.AgentDeletedEvent)))
	defer func() { finish(span, err) }()

	automations, err := clearAgentRefs[*models.Automation](ctx, r.persistence.Automations(), agentID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear agent from automations: %w", err)
	}

	faqs, err := clearAgentRefs[*models.FAQ](ctx, r.persistence.FAQs(), agentID)
	if err != nil {
		return automations, fmt.Errorf("failed to clear agent from faqs: %w", err)
	}

	r.logger.InfoContext(ctx, "cleared deleted agent references",
		"agent_id", agentID,
		"automations", automations,
		"faqs", faqs)

	return automations + faqs, nil
}

type agentLinkedRepository[T models.AgentLinked] interface {
	persistence.Repository[T]
	ListByAgent(ctx context.Context, agentID string) ([]T, error)
}

func clearAgentRefs[T models.AgentLinked](ctx context.Context, repo agentLinkedRepository[T], agentID string) (int, error) {
	linked, err := repo.ListByAgent(ctx, agentID)
	if err != nil {
		return 0, err
	}

	for _, record := range linked {
		record.SetAgentRef(nil)

		err = repo.Save(ctx, record)
		if err != nil {
			return 0, err
		}
	}

	return len(linked), nil
}
