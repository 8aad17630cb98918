package services

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dukex/flowdesk/pkg/events"
	"github.com/dukex/flowdesk/pkg/graph"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/otelhelper"
	"github.com/dukex/flowdesk/pkg/persistence"
)

type Automation struct {
	base
}

// NewAutomation creates a new automation service.
func NewAutomation(p persistence.Persistence, opts ...Option) *Automation {
	return &Automation{base: newBase(p, opts)}
}

// GraphCommandResponse is the outcome of one authoring command.
type GraphCommandResponse struct {
	Result graph.Result   `json:"result"`
	Graph  graph.Snapshot `json:"graph"`
}

func (s *Automation) List(ctx context.Context, req ListRequest) (*persistence.ListResult[*models.Automation], error) {
	ctx, span := s.startSpan(ctx, "automations.list", attribute.String(otelhelper.OwnerIDKey, req.OwnerID))

	result, err := list[*models.Automation](ctx, s.persistence.Automations(), "ListAutomations", req)
	finish(span, err)

	return result, err
}

// FetchByID retrieves an automation by its ID.
func (s *Automation) FetchByID(ctx context.Context, id string) (*models.Automation, error) {
	return s.persistence.Automations().GetByID(ctx, id)
}

// Create stores a new automation. An automation created active must pass activation.
func (s *Automation) Create(ctx context.Context, automation *models.Automation) (result *models.Automation, err error) {
	ctx, span := s.startSpan(ctx, "automations.create", attribute.String(otelhelper.OwnerIDKey, automation.OwnerID))
	defer func() { finish(span, err) }()

	automation.ID = ""
	automation.FlowData = automation.FlowData.Normalize()

	err = s.check(ctx, "CreateAutomation", automation)
	if err != nil {
		return nil, err
	}

	err = save[*models.Automation](ctx, s.persistence.Automations(), automation)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "automation created", "automation_id", automation.ID, "owner_id", automation.OwnerID)
	s.publishSaved(ctx, automation)

	return automation, nil
}

// Update replaces the descriptive fields and references of an automation. The graph and
// the active flag have their own operations.
func (s *Automation) Update(ctx context.Context, id string, changes *models.Automation) (result *models.Automation, err error) {
	ctx, span := s.startSpan(ctx, "automations.update", attribute.String(otelhelper.AutomationIDKey, id))
	defer func() { finish(span, err) }()

	existing, err := s.persistence.Automations().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = changes.Name
	existing.Description = changes.Description
	existing.AgentID = changes.AgentID
	existing.IntegrationID = changes.IntegrationID
	existing.Schedule = changes.Schedule
	existing.Metadata = changes.Metadata

	err = s.check(ctx, "UpdateAutomation", existing)
	if err != nil {
		return nil, err
	}

	err = save[*models.Automation](ctx, s.persistence.Automations(), existing)
	if err != nil {
		return nil, err
	}

	return existing, nil
}

func (s *Automation) Delete(ctx context.Context, id string) (err error) {
	ctx, span := s.startSpan(ctx, "automations.delete", attribute.String(otelhelper.AutomationIDKey, id))
	defer func() { finish(span, err) }()

	existing, err := s.persistence.Automations().GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.persistence.Automations().Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete automation: %w", err)
	}

	s.publish(ctx, id, events.NewAutomationStateChanged(events.AutomationDeletedEvent, id, existing.OwnerID))

	return nil
}

// Toggle flips the active flag, applying the activation checks when turning it on.
func (s *Automation) Toggle(ctx context.Context, id string) (*models.Automation, error) {
	automation, err := s.persistence.Automations().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.SetActive(ctx, id, !automation.IsActive)
}

// SetActive activates or deactivates an automation. Activation is rejected with a
// conflict when the graph or schedule is not ready.
func (s *Automation) SetActive(ctx context.Context, id string, active bool) (result *models.Automation, err error) {
	ctx, span := s.startSpan(ctx, "automations.set_active",
		attribute.String(otelhelper.AutomationIDKey, id),
		attribute.Bool("flowdesk.automation.active", active))
	defer func() { finish(span, err) }()

	automation, err := s.persistence.Automations().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if automation.IsActive == active {
		return automation, nil
	}

	if active {
		err = automation.CheckActivation()
		if err != nil {
			return nil, NewConflictError("ActivateAutomation", "ACTIVATION_REJECTED", ErrActivationRejected, err)
		}
	}

	automation.IsActive = active

	err = save[*models.Automation](ctx, s.persistence.Automations(), automation)
	if err != nil {
		return nil, err
	}

	eventType := events.AutomationDeactivatedEvent
	if active {
		eventType = events.AutomationActivatedEvent
	}

	s.publish(ctx, id, events.NewAutomationStateChanged(eventType, id, automation.OwnerID))

	return automation, nil
}

// Duplicate stores an inactive copy named "<name> (Copy)" with its own graph.
func (s *Automation) Duplicate(ctx context.Context, id string) (result *models.Automation, err error) {
	ctx, span := s.startSpan(ctx, "automations.duplicate", attribute.String(otelhelper.AutomationIDKey, id))
	defer func() { finish(span, err) }()

	automation, err := s.persistence.Automations().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dup := automation.Duplicate()

	err = save[*models.Automation](ctx, s.persistence.Automations(), dup)
	if err != nil {
		return nil, err
	}

	s.publishSaved(ctx, dup)

	return dup, nil
}

// Graph returns the stored snapshot of an automation.
func (s *Automation) Graph(ctx context.Context, id string) (graph.Snapshot, error) {
	automation, err := s.persistence.Automations().GetByID(ctx, id)
	if err != nil {
		return graph.Snapshot{}, err
	}

	return automation.FlowData.Normalize(), nil
}

// SaveGraph replaces the whole graph of an automation. The snapshot must be well formed;
// an active automation also needs it to stay activatable.
func (s *Automation) SaveGraph(ctx context.Context, id string, snapshot graph.Snapshot) (result *models.Automation, err error) {
	ctx, span := s.startSpan(ctx, "automations.save_graph",
		attribute.String(otelhelper.AutomationIDKey, id),
		attribute.Int("flowdesk.graph.nodes", len(snapshot.Nodes)),
		attribute.Int("flowdesk.graph.edges", len(snapshot.Edges)))
	defer func() { finish(span, err) }()

	automation, err := s.persistence.Automations().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	g, err := graph.Deserialize(snapshot)
	if err != nil {
		return nil, err
	}

	err = s.storeGraph(ctx, automation, g)
	if err != nil {
		return nil, err
	}

	return automation, nil
}

// ApplyGraphCommand loads the stored graph, applies one command and persists the result.
// Storage stays the source of truth: a rejected command writes nothing.
func (s *Automation) ApplyGraphCommand(ctx context.Context, id string, cmd graph.Command) (response *GraphCommandResponse, err error) {
	ctx, span := s.startSpan(ctx, "automations.apply_graph_command",
		attribute.String(otelhelper.AutomationIDKey, id),
		attribute.String(otelhelper.GraphCommandKey, cmd.Name()))
	defer func() { finish(span, err) }()

	automation, err := s.persistence.Automations().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	g, err := automation.Graph()
	if err != nil {
		return nil, err
	}

	result, err := g.Apply(cmd)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String(otelhelper.NodeIDKey, result.NodeID),
		attribute.String(otelhelper.EdgeIDKey, result.EdgeID))

	if result.Changed {
		err = s.storeGraph(ctx, automation, g)
		if err != nil {
			return nil, err
		}
	}

	return &GraphCommandResponse{Result: result, Graph: automation.FlowData.Normalize()}, nil
}

func (s *Automation) storeGraph(ctx context.Context, automation *models.Automation, g *graph.Graph) error {
	if automation.IsActive {
		err := g.Validate()
		if err != nil {
			return NewConflictError("SaveGraph", "ACTIVATION_REJECTED", ErrActivationRejected, err)
		}
	}

	automation.FlowData = g.Serialize()

	err := save[*models.Automation](ctx, s.persistence.Automations(), automation)
	if err != nil {
		return err
	}

	s.publishSaved(ctx, automation)

	return nil
}

// check validates the record, its agent reference and, for active automations, the
// activation rules.
func (s *Automation) check(ctx context.Context, op string, automation *models.Automation) error {
	err := s.validate(op, automation)
	if err != nil {
		return err
	}

	err = requireAgent(ctx, s.persistence, op, automation.AgentID)
	if err != nil {
		return err
	}

	if automation.Schedule != "" {
		_, err = models.ParseSchedule(automation.Schedule)
		if err != nil {
			return NewValidationError(op, "INVALID_SCHEDULE", err.Error(), errors.Join(ErrInvalidRequest, err))
		}
	}

	_, err = automation.Graph()
	if err != nil {
		return err
	}

	if automation.IsActive {
		err = automation.CheckActivation()
		if err != nil {
			return NewConflictError(op, "ACTIVATION_REJECTED", ErrActivationRejected, err)
		}
	}

	return nil
}

func (s *Automation) publishSaved(ctx context.Context, automation *models.Automation) {
	s.publish(ctx, automation.ID, events.NewAutomationSaved(
		automation.ID,
		automation.OwnerID,
		len(automation.FlowData.Nodes),
		len(automation.FlowData.Edges),
	))
}
