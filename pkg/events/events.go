// Package events defines the lifecycle notifications published after successful
// dashboard operations.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Topic all dashboard events are published to.
const Topic = "flowdesk.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	AgentDeletedEvent EventType = "agent.deleted"

	AutomationSavedEvent       EventType = "automation.saved"
	AutomationActivatedEvent   EventType = "automation.activated"
	AutomationDeactivatedEvent EventType = "automation.deactivated"
	AutomationDeletedEvent     EventType = "automation.deleted"

	UpdatePublishedEvent EventType = "update.published"

	IntegrationConnectedEvent    EventType = "integration.connected"
	IntegrationDisconnectedEvent EventType = "integration.disconnected"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	OwnerID   string    `json:"owner_id,omitempty"`
}

func newBaseEvent(eventType EventType, ownerID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		OwnerID:   ownerID,
	}
}

// AgentDeleted announces that an agent is gone; references to it must be cleared.
type AgentDeleted struct {
	BaseEvent

	AgentID string `json:"agent_id"`
}

func NewAgentDeleted(agentID, ownerID string) *AgentDeleted {
	return &AgentDeleted{BaseEvent: newBaseEvent(AgentDeletedEvent, ownerID), AgentID: agentID}
}

func (e AgentDeleted) GetType() EventType {
	return AgentDeletedEvent
}

// AutomationSaved is published whenever an automation or its graph is stored.
type AutomationSaved struct {
	BaseEvent

	AutomationID string `json:"automation_id"`
	NodeCount    int    `json:"node_count"`
	EdgeCount    int    `json:"edge_count"`
}

func NewAutomationSaved(automationID, ownerID string, nodeCount, edgeCount int) *AutomationSaved {
	return &AutomationSaved{
		BaseEvent:    newBaseEvent(AutomationSavedEvent, ownerID),
		AutomationID: automationID,
		NodeCount:    nodeCount,
		EdgeCount:    edgeCount,
	}
}

func (e AutomationSaved) GetType() EventType {
	return AutomationSavedEvent
}

// AutomationStateChanged covers activation, deactivation and deletion.
type AutomationStateChanged struct {
	BaseEvent

	AutomationID string `json:"automation_id"`
}

func NewAutomationStateChanged(eventType EventType, automationID, ownerID string) *AutomationStateChanged {
	return &AutomationStateChanged{BaseEvent: newBaseEvent(eventType, ownerID), AutomationID: automationID}
}

func (e AutomationStateChanged) GetType() EventType {
	return e.Type
}

type UpdatePublished struct {
	BaseEvent

	UpdateID    string    `json:"update_id"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
}

func NewUpdatePublished(updateID, ownerID, title string, publishedAt time.Time) *UpdatePublished {
	return &UpdatePublished{
		BaseEvent:   newBaseEvent(UpdatePublishedEvent, ownerID),
		UpdateID:    updateID,
		Title:       title,
		PublishedAt: publishedAt,
	}
}

func (e UpdatePublished) GetType() EventType {
	return UpdatePublishedEvent
}

// IntegrationChanged covers platform connect and disconnect.
type IntegrationChanged struct {
	BaseEvent

	IntegrationID string `json:"integration_id"`
	PlatformID    string `json:"platform_id"`
}

func NewIntegrationChanged(eventType EventType, integrationID, ownerID, platformID string) *IntegrationChanged {
	return &IntegrationChanged{
		BaseEvent:     newBaseEvent(eventType, ownerID),
		IntegrationID: integrationID,
		PlatformID:    platformID,
	}
}

func (e IntegrationChanged) GetType() EventType {
	return e.Type
}

// New returns an empty event value to decode a payload of the given type into.
func New(eventType EventType) (any, bool) {
	switch eventType {
	case AgentDeletedEvent:
		return &AgentDeleted{}, true
	case AutomationSavedEvent:
		return &AutomationSaved{}, true
	case AutomationActivatedEvent, AutomationDeactivatedEvent, AutomationDeletedEvent:
		return &AutomationStateChanged{}, true
	case UpdatePublishedEvent:
		return &UpdatePublished{}, true
	case IntegrationConnectedEvent, IntegrationDisconnectedEvent:
		return &IntegrationChanged{}, true
	default:
		return nil, false
	}
}
