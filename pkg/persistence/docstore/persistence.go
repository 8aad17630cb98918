package docstore

import (
	"context"

	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence"
)

// Persistence implements persistence.Persistence on top of a Store.
type Persistence struct {
	store        Store
	agents       *Collection[*models.Agent]
	automations  *Collection[*models.Automation]
	faqs         *Collection[*models.FAQ]
	updates      *Collection[*models.Update]
	integrations *Collection[*models.Integration]
}

// New wires every collection to the store.
func New(store Store) *Persistence {
	return &Persistence{
		store:        store,
		agents:       NewCollection(store, persistence.CollectionAgents, func() *models.Agent { return &models.Agent{} }),
		automations:  NewCollection(store, persistence.CollectionAutomations, func() *models.Automation { return &models.Automation{} }),
		faqs:         NewCollection(store, persistence.CollectionFAQs, func() *models.FAQ { return &models.FAQ{} }),
		updates:      NewCollection(store, persistence.CollectionUpdates, func() *models.Update { return &models.Update{} }),
		integrations: NewCollection(store, persistence.CollectionIntegrations, func() *models.Integration { return &models.Integration{} }),
	}
}

func (p *Persistence) Agents() persistence.AgentRepository {
	return p.agents
}

func (p *Persistence) Automations() persistence.AutomationRepository {
	return p.automations
}

func (p *Persistence) FAQs() persistence.FAQRepository {
	return p.faqs
}

func (p *Persistence) Updates() persistence.UpdateRepository {
	return p.updates
}

func (p *Persistence) Integrations() persistence.IntegrationRepository {
	return p.integrations
}

func (p *Persistence) HealthCheck(ctx context.Context) error {
	return p.store.HealthCheck(ctx)
}

func (p *Persistence) Close(ctx context.Context) error {
	return p.store.Close(ctx)
}
