package postgresql

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence"
)

// AgentRepository handles agent-related database operations.
type AgentRepository struct {
	table *table[*models.Agent]
}

// NewAgentRepository creates a new agent repository.
func NewAgentRepository(db *sql.DB, logger *slog.Logger) *AgentRepository {
	return &AgentRepository{table: &table[*models.Agent]{
		db:     db,
		logger: logger,
		name:   persistence.CollectionAgents,
		columns: []string{
			"id", "owner_id", "name", "description", "instructions", "model", "temperature",
			"messages_handled", "avg_response_time", "positive_rating", "metadata",
			"is_active", "created_at", "updated_at",
		},
		nameColumn: "name",
		scan:       scanAgent,
		values:     agentValues,
	}}
}

func scanAgent(row scanner) (*models.Agent, error) {
	var (
		agent    models.Agent
		metadata []byte
	)

	err := row.Scan(
		&agent.ID,
		&agent.OwnerID,
		&agent.Name,
		&agent.Description,
		&agent.Instructions,
		&agent.Model,
		&agent.Temperature,
		&agent.Stats.MessagesHandled,
		&agent.Stats.AvgResponseTime,
		&agent.Stats.PositiveRating,
		&metadata,
		&agent.IsActive,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	agent.CreatedAt = agent.CreatedAt.UTC()
	agent.UpdatedAt = agent.UpdatedAt.UTC()

	err = unmarshalJSON(metadata, &agent.Metadata)
	if err != nil {
		return nil, err
	}

	return &agent, nil
}

func agentValues(agent *models.Agent) ([]any, error) {
	metadata, err := marshalJSON(agent.Metadata)
	if err != nil {
		return nil, err
	}

	return []any{
		agent.ID,
		agent.OwnerID,
		agent.Name,
		agent.Description,
		agent.Instructions,
		agent.Model,
		agent.Temperature,
		agent.Stats.MessagesHandled,
		agent.Stats.AvgResponseTime,
		agent.Stats.PositiveRating,
		metadata,
		agent.IsActive,
		agent.CreatedAt,
		agent.UpdatedAt,
	}, nil
}

func (r *AgentRepository) List(ctx context.Context, opts persistence.ListOptions) (*persistence.ListResult[*models.Agent], error) {
	return r.table.list(ctx, opts)
}

func (r *AgentRepository) GetByID(ctx context.Context, id string) (*models.Agent, error) {
	return r.table.getByID(ctx, id)
}

// Save upserts an agent.
func (r *AgentRepository) Save(ctx context.Context, agent *models.Agent) error {
	err := r.table.prepare(agent)
	if err != nil {
		return err
	}

	return r.table.save(ctx, r.table.db, agent)
}

func (r *AgentRepository) Delete(ctx context.Context, id string) error {
	return r.table.delete(ctx, id)
}
