// Package postgresql provides PostgreSQL persistence with relational tables per record
// type; automation graphs are normalized into node and edge tables.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"github.com/dukex/flowdesk/pkg/persistence"
	"github.com/dukex/flowdesk/pkg/persistence/sqlbase"
)

// Persistence implements the persistence layer for PostgreSQL.
type Persistence struct {
	db              *sql.DB
	logger          *slog.Logger
	agentRepo       *AgentRepository
	automationRepo  *AutomationRepository
	faqRepo         *FAQRepository
	updateRepo      *UpdateRepository
	integrationRepo *IntegrationRepository
}

// NewPersistence creates a new PostgreSQL persistence layer.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Run migrations on initialization
	migrationManager := sqlbase.NewMigrationManager(logger, database, sqlbase.Postgres, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Persistence{
		db:              database,
		logger:          logger,
		agentRepo:       NewAgentRepository(database, logger),
		automationRepo:  NewAutomationRepository(database, logger),
		faqRepo:         NewFAQRepository(database, logger),
		updateRepo:      NewUpdateRepository(database, logger),
		integrationRepo: NewIntegrationRepository(database, logger),
	}, nil
}

func (p *Persistence) Agents() persistence.AgentRepository {
	return p.agentRepo
}

func (p *Persistence) Automations() persistence.AutomationRepository {
	return p.automationRepo
}

func (p *Persistence) FAQs() persistence.FAQRepository {
	return p.faqRepo
}

func (p *Persistence) Updates() persistence.UpdateRepository {
	return p.updateRepo
}

func (p *Persistence) Integrations() persistence.IntegrationRepository {
	return p.integrationRepo
}

// Close closes the database connection.
func (p *Persistence) Close(ctx context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}
