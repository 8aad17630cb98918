package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dukex/flowdesk/pkg/events"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/otelhelper"
	"github.com/dukex/flowdesk/pkg/persistence"
)

type Agent struct {
	base
}

// NewAgent creates a new agent service.
func NewAgent(p persistence.Persistence, opts ...Option) *Agent {
	return &Agent{base: newBase(p, opts)}
}

// Models returns the catalogue of selectable language models.
func (s *Agent) Models() []models.AgentModel {
	return models.AgentModels()
}

func (s *Agent) List(ctx context.Context, req ListRequest) (*persistence.ListResult[*models.Agent], error) {
	ctx, span := s.startSpan(ctx, "agents.list", attribute.String(otelhelper.OwnerIDKey, req.OwnerID))

	result, err := list[*models.Agent](ctx, s.persistence.Agents(), "ListAgents", req)
	finish(span, err)

	return result, err
}

// FetchByID retrieves an agent by its ID.
func (s *Agent) FetchByID(ctx context.Context, id string) (*models.Agent, error) {
	return s.persistence.Agents().GetByID(ctx, id)
}

// Create stores a new agent. New agents start active with zeroed stats and the default
// model when none is given.
func (s *Agent) Create(ctx context.Context, agent *models.Agent) (result *models.Agent, err error) {
	ctx, span := s.startSpan(ctx, "agents.create", attribute.String(otelhelper.OwnerIDKey, agent.OwnerID))
	defer func() { finish(span, err) }()

	agent.ID = ""
	agent.IsActive = true
	agent.Stats = models.AgentStats{}

	if agent.Model == "" {
		agent.Model = models.DefaultAgentModel
	}

	err = s.validate("CreateAgent", agent)
	if err != nil {
		return nil, err
	}

	err = save[*models.Agent](ctx, s.persistence.Agents(), agent)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "agent created", "agent_id", agent.ID, "owner_id", agent.OwnerID)

	return agent, nil
}

// Update replaces the editable fields of an agent. Owner, stats and state are kept.
func (s *Agent) Update(ctx context.Context, id string, changes *models.Agent) (result *models.Agent, err error) {
	ctx, span := s.startSpan(ctx, "agents.update", attribute.String(otelhelper.AgentIDKey, id))
	defer func() { finish(span, err) }()

	existing, err := s.persistence.Agents().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = changes.Name
	existing.Description = changes.Description
	existing.Instructions = changes.Instructions
	existing.Model = changes.Model
	existing.Temperature = changes.Temperature
	existing.Metadata = changes.Metadata

	if existing.Model == "" {
		existing.Model = models.DefaultAgentModel
	}

	err = s.validate("UpdateAgent", existing)
	if err != nil {
		return nil, err
	}

	err = save[*models.Agent](ctx, s.persistence.Agents(), existing)
	if err != nil {
		return nil, err
	}

	return existing, nil
}

// Delete removes an agent and announces it so references to it get cleared.
func (s *Agent) Delete(ctx context.Context, id string) (err error) {
	ctx, span := s.startSpan(ctx, "agents.delete", attribute.String(otelhelper.AgentIDKey, id))
	defer func() { finish(span, err) }()

	existing, err := s.persistence.Agents().GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.persistence.Agents().Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete agent: %w", err)
	}

	s.publish(ctx, id, events.NewAgentDeleted(id, existing.OwnerID))

	return nil
}

// Toggle flips the active flag of an agent.
func (s *Agent) Toggle(ctx context.Context, id string) (result *models.Agent, err error) {
	ctx, span := s.startSpan(ctx, "agents.toggle", attribute.String(otelhelper.AgentIDKey, id))
	defer func() { finish(span, err) }()

	agent, err := s.persistence.Agents().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	agent.IsActive = !agent.IsActive

	err = save[*models.Agent](ctx, s.persistence.Agents(), agent)
	if err != nil {
		return nil, err
	}

	return agent, nil
}

// Duplicate stores an inactive copy of an agent named "<name> (Copy)".
func (s *Agent) Duplicate(ctx context.Context, id string) (result *models.Agent, err error) {
	ctx, span := s.startSpan(ctx, "agents.duplicate", attribute.String(otelhelper.AgentIDKey, id))
	defer func() { finish(span, err) }()

	agent, err := s.persistence.Agents().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dup := agent.Duplicate()

	err = save[*models.Agent](ctx, s.persistence.Agents(), dup)
	if err != nil {
		return nil, err
	}

	return dup, nil
}

// requireAgent checks that an optional agent reference points at a stored agent.
func requireAgent(ctx context.Context, p persistence.Persistence, op string, agentID *string) error {
	if agentID == nil {
		return nil
	}

	_, err := p.Agents().GetByID(ctx, *agentID)
	if persistence.IsNotFound(err) {
		return NewValidationError(op, "UNKNOWN_AGENT",
			fmt.Sprintf("agent '%s' does not exist", *agentID), ErrUnknownAgent)
	}

	return err
}
