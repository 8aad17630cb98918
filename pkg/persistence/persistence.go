// Package persistence provides the storage abstraction for dashboard records.
package persistence

import (
	"context"

	"github.com/dukex/flowdesk/pkg/models"
)

// Repository is the storage contract shared by every record collection.
type Repository[T models.Document] interface {
	// List returns a filtered, sorted page of records. The returned slice is never shared
	// with the repository.
	List(ctx context.Context, opts ListOptions) (*ListResult[T], error)
	// GetByID returns the record or an error matching ErrNotFound.
	GetByID(ctx context.Context, id string) (T, error)
	// Save upserts the whole record, stamping CreatedAt and UpdatedAt.
	Save(ctx context.Context, record T) error
	// Delete removes the record. Deleting an absent record is not an error.
	Delete(ctx context.Context, id string) error
}

type AgentRepository interface {
	Repository[*models.Agent]
}

type AutomationRepository interface {
	Repository[*models.Automation]
	// ListByAgent returns every automation referencing the agent, regardless of owner.
	ListByAgent(ctx context.Context, agentID string) ([]*models.Automation, error)
}

type FAQRepository interface {
	Repository[*models.FAQ]
	ListByAgent(ctx context.Context, agentID string) ([]*models.FAQ, error)
}

type UpdateRepository interface {
	Repository[*models.Update]
}

type IntegrationRepository interface {
	Repository[*models.Integration]
}

// Persistence aggregates the repositories of one storage backend.
type Persistence interface {
	Agents() AgentRepository
	Automations() AutomationRepository
	FAQs() FAQRepository
	Updates() UpdateRepository
	Integrations() IntegrationRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// Collection names shared by the document stores.
const (
	CollectionAgents       = "agents"
	CollectionAutomations  = "automations"
	CollectionFAQs         = "faqs"
	CollectionUpdates      = "updates"
	CollectionIntegrations = "integrations"
)
