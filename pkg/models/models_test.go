package models

import (
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/flowdesk/pkg/graph"
)

func failedTags(t *testing.T, err error) map[string]string {
	t.Helper()

	var validationErrors validator.ValidationErrors

	require.True(t, errors.As(err, &validationErrors), "expected validator.ValidationErrors, got %v", err)

	tags := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		tags[fieldErr.Field()] = fieldErr.Tag()
	}

	return tags
}

func newAgent() *Agent {
	return &Agent{
		Record:      Record{ID: "agent-1", OwnerID: "user-1", IsActive: true},
		Name:        "Support Bot",
		Model:       DefaultAgentModel,
		Temperature: DefaultTemperature,
		Stats:       AgentStats{MessagesHandled: 12, PositiveRating: 90},
		Metadata:    map[string]any{"tone": "friendly"},
	}
}

func TestAgent_Validation(t *testing.T) {
	t.Parallel()

	validate := validator.New(validator.WithRequiredStructEnabled())

	tests := []struct {
		name    string
		mutate  func(a *Agent)
		field   string
		tag     string
		isValid bool
	}{
		{name: "valid", mutate: func(*Agent) {}, isValid: true},
		{name: "temperature lower bound", mutate: func(a *Agent) { a.Temperature = 0 }, isValid: true},
		{name: "temperature upper bound", mutate: func(a *Agent) { a.Temperature = 1 }, isValid: true},
		{name: "missing name", mutate: func(a *Agent) { a.Name = "" }, field: "Name", tag: "required"},
		{name: "missing owner", mutate: func(a *Agent) { a.OwnerID = "" }, field: "OwnerID", tag: "required"},
		{name: "unknown model", mutate: func(a *Agent) { a.Model = "gpt-2" }, field: "Model", tag: "oneof"},
		{name: "temperature too high", mutate: func(a *Agent) { a.Temperature = 1.2 }, field: "Temperature", tag: "lte"},
		{name: "temperature negative", mutate: func(a *Agent) { a.Temperature = -0.1 }, field: "Temperature", tag: "gte"},
		{name: "rating over 100", mutate: func(a *Agent) { a.Stats.PositiveRating = 101 }, field: "PositiveRating", tag: "lte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			agent := newAgent()
			tt.mutate(agent)

			err := validate.Struct(agent)
			if tt.isValid {
				assert.NoError(t, err)

				return
			}

			assert.Equal(t, tt.tag, failedTags(t, err)[tt.field])
		})
	}
}

func TestAgentModels_MatchValidation(t *testing.T) {
	t.Parallel()

	validate := validator.New()

	for _, m := range AgentModels() {
		agent := newAgent()
		agent.Model = m.ID
		assert.NoError(t, validate.Struct(agent), m.ID)
	}
}

func TestAgent_Duplicate(t *testing.T) {
	t.Parallel()

	agent := newAgent()
	agent.CreatedAt = time.Now()

	dup := agent.Duplicate()

	assert.Equal(t, "Support Bot (Copy)", dup.Name)
	assert.False(t, dup.IsActive)
	assert.Empty(t, dup.ID)
	assert.True(t, dup.CreatedAt.IsZero())
	assert.Equal(t, "user-1", dup.OwnerID)
	assert.Equal(t, agent.Stats, dup.Stats)

	dup.Metadata["tone"] = "formal"
	assert.Equal(t, "friendly", agent.Metadata["tone"])
	assert.True(t, agent.IsActive)
}

func TestRecord_Touch(t *testing.T) {
	t.Parallel()

	first := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	var r Record

	r.Touch(first)
	r.Touch(second)

	assert.Equal(t, first, r.CreatedAt)
	assert.Equal(t, second, r.UpdatedAt)
}

func activatableFlow() graph.Snapshot {
	return graph.Snapshot{
		Nodes: []graph.Node{
			{ID: "1", Kind: graph.KindTrigger, Label: "New Message", Description: "Incoming DM"},
			{ID: "2", Kind: graph.KindAction, Label: "Send Reply", Description: graph.DefaultDescription},
		},
		Edges: []graph.Edge{{ID: "e1-2", Source: "1", Target: "2"}},
	}
}

func TestAutomation_CheckActivation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		flow     graph.Snapshot
		schedule string
		wantErr  error
	}{
		{name: "activatable", flow: activatableFlow()},
		{name: "with schedule", flow: activatableFlow(), schedule: "0 9 * * 1-5"},
		{name: "empty graph", flow: graph.Snapshot{}, wantErr: graph.ErrEmptyGraph},
		{
			name: "no trigger",
			flow: graph.Snapshot{Nodes: []graph.Node{{ID: "1", Kind: graph.KindAction, Label: "Reply"}}},
			wantErr: graph.ErrTriggerRequired,
		},
		{
			name: "unlabeled node",
			flow: graph.Snapshot{Nodes: []graph.Node{
				{ID: "1", Kind: graph.KindTrigger, Label: "Start"},
				{ID: "2", Kind: graph.KindOutput},
			}},
			wantErr: graph.ErrLabelRequired,
		},
		{
			name: "dangling edge",
			flow: graph.Snapshot{
				Nodes: []graph.Node{{ID: "1", Kind: graph.KindTrigger, Label: "Start"}},
				Edges: []graph.Edge{{ID: "e1-99", Source: "1", Target: "99"}},
			},
			wantErr: graph.ErrMalformedGraph,
		},
		{name: "bad schedule", flow: activatableFlow(), schedule: "every day", wantErr: ErrInvalidSchedule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			automation := &Automation{Name: "Auto reply", FlowData: tt.flow, Schedule: tt.schedule}

			err := automation.CheckActivation()
			if tt.wantErr == nil {
				assert.NoError(t, err)

				return
			}

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAutomation_NextRunAt(t *testing.T) {
	t.Parallel()

	from := time.Date(2024, 3, 4, 8, 30, 0, 0, time.UTC) // Monday

	automation := &Automation{Schedule: "0 9 * * *"}
	next, err := automation.NextRunAt(from)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC), *next)

	automation.Schedule = ""
	next, err = automation.NextRunAt(from)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestAutomation_Duplicate(t *testing.T) {
	t.Parallel()

	agentID := "agent-1"
	automation := &Automation{
		Record:   Record{ID: "auto-1", OwnerID: "user-1", IsActive: true},
		Name:     "Welcome flow",
		AgentID:  &agentID,
		FlowData: activatableFlow(),
	}

	dup := automation.Duplicate()

	assert.Equal(t, "Welcome flow (Copy)", dup.Name)
	assert.False(t, dup.IsActive)
	assert.Empty(t, dup.ID)
	assert.Equal(t, automation.FlowData, dup.FlowData)

	dup.FlowData.Nodes[0].Label = "Changed"
	assert.Equal(t, "New Message", automation.FlowData.Nodes[0].Label)
}

func TestAutomation_Validation(t *testing.T) {
	t.Parallel()

	validate := validator.New(validator.WithRequiredStructEnabled())

	err := validate.Struct(&Automation{Record: Record{OwnerID: "user-1"}, Name: "ab"})
	assert.Equal(t, "min", failedTags(t, err)["Name"])

	err = validate.Struct(&Automation{Record: Record{OwnerID: "user-1"}, Name: "abc"})
	assert.NoError(t, err)
}

func TestParseKeywords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want []string
	}{
		{raw: "price, shipping ,returns", want: []string{"price", "shipping", "returns"}},
		{raw: "single", want: []string{"single"}},
		{raw: " , ,", want: []string{}},
		{raw: "", want: []string{}},
		{raw: "a,,b", want: []string{"a", "b"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseKeywords(tt.raw), tt.raw)
	}
}

func TestUpdate_Status(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name   string
		update Update
		status UpdateStatus
		due    bool
	}{
		{name: "draft", update: Update{Record: Record{IsActive: true}}, status: UpdateStatusDraft},
		{name: "scheduled", update: Update{Record: Record{IsActive: true}, ScheduledAt: &future}, status: UpdateStatusScheduled},
		{name: "overdue", update: Update{Record: Record{IsActive: true}, ScheduledAt: &past}, status: UpdateStatusDraft, due: true},
		{name: "overdue but inactive", update: Update{ScheduledAt: &past}, status: UpdateStatusDraft},
		{name: "published", update: Update{Record: Record{IsActive: true}, ScheduledAt: &past, PublishedAt: &past}, status: UpdateStatusPublished},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.status, tt.update.Status(now))
			assert.Equal(t, tt.due, tt.update.IsDue(now))
		})
	}
}

func TestUpdate_Publish(t *testing.T) {
	t.Parallel()

	now := time.Now()
	update := &Update{}
	update.Publish(now)

	require.NotNil(t, update.PublishedAt)
	assert.Equal(t, UpdateStatusPublished, update.Status(now))
}

func TestIntegration_Validation(t *testing.T) {
	t.Parallel()

	validate := validator.New(validator.WithRequiredStructEnabled())

	for _, p := range Platforms() {
		integration := &Integration{Record: Record{OwnerID: "user-1"}, PlatformID: p.ID, AccessToken: "sealed"}
		assert.NoError(t, validate.Struct(integration), p.ID)
	}

	err := validate.Struct(&Integration{Record: Record{OwnerID: "user-1"}, PlatformID: "myspace", AccessToken: "sealed"})
	assert.Equal(t, "oneof", failedTags(t, err)["PlatformID"])
}

func TestPlatformByID(t *testing.T) {
	t.Parallel()

	p, ok := PlatformByID("linkedin")
	require.True(t, ok)
	assert.Equal(t, "LinkedIn", p.Name)

	_, ok = PlatformByID("myspace")
	assert.False(t, ok)
}

func TestIntegration_TokenExpired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	past := now.Add(-time.Minute)

	assert.False(t, (&Integration{}).TokenExpired(now))
	assert.True(t, (&Integration{TokenExpiry: &past}).TokenExpired(now))
}
