// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"time"

	"github.com/dukex/flowdesk/pkg/graph"
	"github.com/dukex/flowdesk/pkg/models"
)

// DefaultOwnerID owns every record built here unless overridden.
const DefaultOwnerID = "owner-1"

// CreateTestAgent creates an active Agent with default values that can be overridden.
func CreateTestAgent(overrides ...func(*models.Agent)) *models.Agent {
	agent := &models.Agent{
		Record:       models.Record{OwnerID: DefaultOwnerID, IsActive: true},
		Name:         "Support Agent",
		Description:  "Answers customer questions",
		Instructions: "Be helpful and concise.",
		Model:        models.DefaultAgentModel,
		Temperature:  models.DefaultTemperature,
	}

	for _, override := range overrides {
		override(agent)
	}

	return agent
}

// CreateTestGraph builds the trigger -> action graph used across tests: node "1"
// "New Message" feeding node "2" "Send Reply".
func CreateTestGraph() graph.Snapshot {
	g := graph.New()

	trigger, _ := g.AddNode(graph.KindTrigger, "New Message", "", graph.Position{X: 0, Y: 0})
	action, _ := g.AddNode(graph.KindAction, "Send Reply", "", graph.Position{X: 200, Y: 0})
	_, _ = g.Connect(trigger, action)

	return g.Serialize()
}

// CreateTestAutomation creates an inactive Automation holding CreateTestGraph.
func CreateTestAutomation(overrides ...func(*models.Automation)) *models.Automation {
	automation := &models.Automation{
		Record:      models.Record{OwnerID: DefaultOwnerID},
		Name:        "Auto Reply",
		Description: "Replies to new messages",
		FlowData:    CreateTestGraph(),
	}

	for _, override := range overrides {
		override(automation)
	}

	return automation
}

// WithAgent links an automation to an agent.
func WithAgent(agentID string) func(*models.Automation) {
	return func(a *models.Automation) {
		a.AgentID = &agentID
	}
}

// WithFlow replaces the automation graph.
func WithFlow(snapshot graph.Snapshot) func(*models.Automation) {
	return func(a *models.Automation) {
		a.FlowData = snapshot
	}
}

// CreateTestFAQ creates an active FAQ with default values that can be overridden.
func CreateTestFAQ(overrides ...func(*models.FAQ)) *models.FAQ {
	faq := &models.FAQ{
		Record:   models.Record{OwnerID: DefaultOwnerID, IsActive: true},
		Question: "What are your opening hours?",
		Answer:   "Monday to Friday, 9am to 6pm.",
		Keywords: []string{"hours", "open"},
		Category: "general",
	}

	for _, override := range overrides {
		override(faq)
	}

	return faq
}

// CreateTestUpdate creates an active draft Update with default values that can be overridden.
func CreateTestUpdate(overrides ...func(*models.Update)) *models.Update {
	update := &models.Update{
		Record:   models.Record{OwnerID: DefaultOwnerID, IsActive: true},
		Title:    "New feature",
		Content:  "Automations can now run on a schedule.",
		Category: "product",
	}

	for _, override := range overrides {
		override(update)
	}

	return update
}

// ScheduledAt schedules an update.
func ScheduledAt(at time.Time) func(*models.Update) {
	return func(u *models.Update) {
		u.ScheduledAt = &at
	}
}

// CreateTestIntegration creates an active Integration with plaintext tokens.
func CreateTestIntegration(overrides ...func(*models.Integration)) *models.Integration {
	integration := &models.Integration{
		Record:       models.Record{OwnerID: DefaultOwnerID, IsActive: true},
		PlatformID:   "twitter",
		PlatformName: "Twitter",
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
	}

	for _, override := range overrides {
		override(integration)
	}

	return integration
}
