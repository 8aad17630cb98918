package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/dukex/flowdesk/pkg/graph"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence"
)

// AutomationRepository handles automation database operations. The flow graph lives in
// automation_nodes and automation_edges and is rewritten whole on every save.
type AutomationRepository struct {
	table *table[*models.Automation]
}

func NewAutomationRepository(db *sql.DB, logger *slog.Logger) *AutomationRepository {
	return &AutomationRepository{table: &table[*models.Automation]{
		db:     db,
		logger: logger,
		name:   persistence.CollectionAutomations,
		columns: []string{
			"id", "owner_id", "name", "description", "agent_id", "integration_id", "schedule",
			"metadata", "is_active", "created_at", "updated_at",
		},
		nameColumn: "name",
		hasAgent:   true,
		scan:       scanAutomation,
		values:     automationValues,
	}}
}

func scanAutomation(row scanner) (*models.Automation, error) {
	var (
		automation    models.Automation
		agentID       sql.NullString
		integrationID sql.NullString
		metadata      []byte
	)

	err := row.Scan(
		&automation.ID,
		&automation.OwnerID,
		&automation.Name,
		&automation.Description,
		&agentID,
		&integrationID,
		&automation.Schedule,
		&metadata,
		&automation.IsActive,
		&automation.CreatedAt,
		&automation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	automation.AgentID = stringPtr(agentID)
	automation.IntegrationID = stringPtr(integrationID)
	automation.CreatedAt = automation.CreatedAt.UTC()
	automation.UpdatedAt = automation.UpdatedAt.UTC()

	err = unmarshalJSON(metadata, &automation.Metadata)
	if err != nil {
		return nil, err
	}

	return &automation, nil
}

func automationValues(automation *models.Automation) ([]any, error) {
	metadata, err := marshalJSON(automation.Metadata)
	if err != nil {
		return nil, err
	}

	return []any{
		automation.ID,
		automation.OwnerID,
		automation.Name,
		automation.Description,
		nullString(automation.AgentID),
		nullString(automation.IntegrationID),
		automation.Schedule,
		metadata,
		automation.IsActive,
		automation.CreatedAt,
		automation.UpdatedAt,
	}, nil
}

func (r *AutomationRepository) List(ctx context.Context, opts persistence.ListOptions) (*persistence.ListResult[*models.Automation], error) {
	result, err := r.table.list(ctx, opts)
	if err != nil {
		return nil, err
	}

	err = r.loadFlows(ctx, result.Items)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *AutomationRepository) ListByAgent(ctx context.Context, agentID string) ([]*models.Automation, error) {
	automations, err := r.table.listByAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}

	err = r.loadFlows(ctx, automations)
	if err != nil {
		return nil, err
	}

	return automations, nil
}

func (r *AutomationRepository) GetByID(ctx context.Context, id string) (*models.Automation, error) {
	automation, err := r.table.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = r.loadFlow(ctx, automation)
	if err != nil {
		return nil, persistence.NewRecordError("GetByID", r.table.name, id, err)
	}

	return automation, nil
}

// Save upserts the automation and replaces its graph in one transaction.
func (r *AutomationRepository) Save(ctx context.Context, automation *models.Automation) error {
	err := r.table.prepare(automation)
	if err != nil {
		return err
	}

	tx, err := r.table.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = r.table.save(ctx, tx, automation)
	if err != nil {
		return err
	}

	// Delete existing edges and nodes (for updates)
	_, err = tx.ExecContext(ctx, "DELETE FROM automation_edges WHERE automation_id = $1", automation.ID)
	if err != nil {
		return fmt.Errorf("failed to delete existing edges: %w", err)
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM automation_nodes WHERE automation_id = $1", automation.ID)
	if err != nil {
		return fmt.Errorf("failed to delete existing nodes: %w", err)
	}

	err = saveFlow(ctx, tx, automation.ID, automation.FlowData)
	if err != nil {
		return err
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *AutomationRepository) Delete(ctx context.Context, id string) error {
	return r.table.delete(ctx, id)
}

func saveFlow(ctx context.Context, tx *sql.Tx, automationID string, flow graph.Snapshot) error {
	nodeQuery := `
		INSERT INTO automation_nodes (automation_id, id, kind, label, description, position_x, position_y, ordinal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for i, node := range flow.Nodes {
		_, err := tx.ExecContext(ctx, nodeQuery,
			automationID,
			node.ID,
			node.Kind,
			node.Label,
			node.Description,
			node.Position.X,
			node.Position.Y,
			i,
		)
		if err != nil {
			return fmt.Errorf("failed to save node %s: %w", node.ID, err)
		}
	}

	edgeQuery := `
		INSERT INTO automation_edges (automation_id, id, source_node_id, target_node_id, ordinal)
		VALUES ($1, $2, $3, $4, $5)
	`

	for i, edge := range flow.Edges {
		_, err := tx.ExecContext(ctx, edgeQuery, automationID, edge.ID, edge.Source, edge.Target, i)
		if err != nil {
			return fmt.Errorf("failed to save edge %s: %w", edge.ID, err)
		}
	}

	return nil
}

func (r *AutomationRepository) loadFlows(ctx context.Context, automations []*models.Automation) error {
	for _, automation := range automations {
		err := r.loadFlow(ctx, automation)
		if err != nil {
			return persistence.NewRecordError("List", r.table.name, automation.ID, err)
		}
	}

	return nil
}

func (r *AutomationRepository) loadFlow(ctx context.Context, automation *models.Automation) error {
	flow := graph.Snapshot{}.Normalize()

	nodeRows, err := r.table.db.QueryContext(ctx, `
		SELECT id, kind, label, description, position_x, position_y
		FROM automation_nodes
		WHERE automation_id = $1
		ORDER BY ordinal
	`, automation.ID)
	if err != nil {
		return fmt.Errorf("failed to query automation nodes: %w", err)
	}

	defer func() { _ = nodeRows.Close() }()

	for nodeRows.Next() {
		var node graph.Node

		err := nodeRows.Scan(&node.ID, &node.Kind, &node.Label, &node.Description, &node.Position.X, &node.Position.Y)
		if err != nil {
			return fmt.Errorf("failed to scan node: %w", err)
		}

		flow.Nodes = append(flow.Nodes, node)
	}

	err = nodeRows.Err()
	if err != nil {
		return fmt.Errorf("error iterating nodes: %w", err)
	}

	edgeRows, err := r.table.db.QueryContext(ctx, `
		SELECT id, source_node_id, target_node_id
		FROM automation_edges
		WHERE automation_id = $1
		ORDER BY ordinal
	`, automation.ID)
	if err != nil {
		return fmt.Errorf("failed to query automation edges: %w", err)
	}

	defer func() { _ = edgeRows.Close() }()

	for edgeRows.Next() {
		var edge graph.Edge

		err := edgeRows.Scan(&edge.ID, &edge.Source, &edge.Target)
		if err != nil {
			return fmt.Errorf("failed to scan edge: %w", err)
		}

		flow.Edges = append(flow.Edges, edge)
	}

	err = edgeRows.Err()
	if err != nil {
		return fmt.Errorf("error iterating edges: %w", err)
	}

	automation.FlowData = flow

	return nil
}
