// Package web provides HTTP request and response types for the dashboard API.
package web

import (
	"time"

	"github.com/dukex/flowdesk/pkg/graph"
	"github.com/dukex/flowdesk/pkg/models"
)

// ErrorResponse represents a standardized API error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// CreateAgentRequest represents the request body for creating a new agent.
type CreateAgentRequest struct {
	Name         string         `json:"name"                  validate:"required"`
	Description  string         `json:"description"`
	Instructions string         `json:"instructions"`
	Model        string         `json:"model"                 validate:"omitempty,oneof=gpt-3.5-turbo gpt-4o claude-3-opus claude-3-sonnet claude-3-haiku"`
	Temperature  *float64       `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=1"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	Owner        string         `json:"owner_id"              validate:"required"`
}

// UpdateAgentRequest represents the request body for updating an agent. Omitted fields
// keep their stored value.
type UpdateAgentRequest struct {
	Name         *string        `json:"name,omitempty"         validate:"omitempty,min=1"`
	Description  *string        `json:"description,omitempty"`
	Instructions *string        `json:"instructions,omitempty"`
	Model        *string        `json:"model,omitempty"        validate:"omitempty,oneof=gpt-3.5-turbo gpt-4o claude-3-opus claude-3-sonnet claude-3-haiku"`
	Temperature  *float64       `json:"temperature,omitempty"  validate:"omitempty,gte=0,lte=1"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// CreateAutomationRequest represents the request body for creating an automation. The
// graph is optional; new automations may start empty.
type CreateAutomationRequest struct {
	Name          string          `json:"name"                     validate:"required,min=3"`
	Description   string          `json:"description"`
	AgentID       *string         `json:"agent_id,omitempty"`
	IntegrationID *string         `json:"integration_id,omitempty"`
	FlowData      *graph.Snapshot `json:"flow_data,omitempty"`
	Schedule      string          `json:"schedule,omitempty"`
	Metadata      map[string]any  `json:"metadata,omitempty"`
	Owner         string          `json:"owner_id"                 validate:"required"`
}

// UpdateAutomationRequest represents the request body for updating an automation.
// All fields are optional to support partial updates.
type UpdateAutomationRequest struct {
	Name          *string        `json:"name,omitempty"           validate:"omitempty,min=3"`
	Description   *string        `json:"description,omitempty"`
	AgentID       *string        `json:"agent_id,omitempty"`
	IntegrationID *string        `json:"integration_id,omitempty"`
	Schedule      *string        `json:"schedule,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// AddNodeRequest represents the request body for adding a graph node.
type AddNodeRequest struct {
	Kind        string         `json:"kind"        validate:"required,oneof=trigger action condition output"`
	Label       string         `json:"label"       validate:"required"`
	Description string         `json:"description"`
	Position    graph.Position `json:"position"`
}

// UpdateNodeRequest edits and/or moves a node.
type UpdateNodeRequest struct {
	Label       *string         `json:"label,omitempty"       validate:"omitempty,min=1"`
	Description *string         `json:"description,omitempty"`
	Position    *graph.Position `json:"position,omitempty"`
}

// ConnectRequest represents the request body for adding a graph edge.
type ConnectRequest struct {
	Source string `json:"source_node_id" validate:"required"`
	Target string `json:"target_node_id" validate:"required"`
}

// FAQRequest is used to create and replace FAQ entries. Keywords arrive as the
// comma-separated string typed into the form.
type FAQRequest struct {
	Question string  `json:"question"           validate:"required"`
	Answer   string  `json:"answer"             validate:"required"`
	Keywords string  `json:"keywords"`
	AgentID  *string `json:"agent_id,omitempty"`
	Category string  `json:"category,omitempty"`
	Owner    string  `json:"owner_id"`
}

// UpdateRequest is used to create and replace updates.
type UpdateRequest struct {
	Title       string     `json:"title"                  validate:"required"`
	Content     string     `json:"content"                validate:"required"`
	Category    string     `json:"category,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Owner       string     `json:"owner_id"`
}

// ConnectIntegrationRequest carries the tokens obtained from the platform.
type ConnectIntegrationRequest struct {
	PlatformID   string     `json:"platform_id"             validate:"required"`
	AccessToken  string     `json:"access_token"            validate:"required"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	TokenExpiry  *time.Time `json:"token_expiry,omitempty"`
	ProfileName  string     `json:"profile_name,omitempty"`
	Owner        string     `json:"owner_id"                validate:"required"`
}

// RefreshIntegrationRequest carries rotated tokens; an empty body only records a sync.
type RefreshIntegrationRequest struct {
	AccessToken  string     `json:"access_token,omitempty"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	TokenExpiry  *time.Time `json:"token_expiry,omitempty"`
}

// AutomationResponse adds the next scheduled run to an automation.
type AutomationResponse struct {
	*models.Automation

	NextRunAt *time.Time `json:"next_run_at,omitempty"`
}

// TransformAutomationResponse transforms an Automation into an AutomationResponse.
func TransformAutomationResponse(automation *models.Automation, now time.Time) AutomationResponse {
	automation.FlowData = automation.FlowData.Normalize()

	// Schedules are validated on write, so an error here only hides the next run.
	next, _ := automation.NextRunAt(now)

	return AutomationResponse{Automation: automation, NextRunAt: next}
}

// UpdateResponse adds the derived publication status to an update.
type UpdateResponse struct {
	*models.Update

	Status models.UpdateStatus `json:"status"`
}

func TransformUpdateResponse(update *models.Update, now time.Time) UpdateResponse {
	return UpdateResponse{Update: update, Status: update.Status(now)}
}

// IntegrationResponse represents the filtered response for an integration. Tokens are
// never included.
type IntegrationResponse struct {
	ID           string         `json:"id"`
	OwnerID      string         `json:"owner_id"`
	PlatformID   string         `json:"platform_id"`
	PlatformName string         `json:"platform_name"`
	TokenExpiry  *time.Time     `json:"token_expiry,omitempty"`
	TokenExpired bool           `json:"token_expired"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	IsActive     bool           `json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// TransformIntegrationResponse transforms an Integration into an IntegrationResponse.
func TransformIntegrationResponse(integration *models.Integration, now time.Time) IntegrationResponse {
	return IntegrationResponse{
		ID:           integration.ID,
		OwnerID:      integration.OwnerID,
		PlatformID:   integration.PlatformID,
		PlatformName: integration.PlatformName,
		TokenExpiry:  integration.TokenExpiry,
		TokenExpired: integration.TokenExpired(now),
		Metadata:     integration.Metadata,
		IsActive:     integration.IsActive,
		CreatedAt:    integration.CreatedAt,
		UpdatedAt:    integration.UpdatedAt,
	}
}

func transformAll[T, R any](items []T, now time.Time, transform func(T, time.Time) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, transform(item, now))
	}

	return out
}
