package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/dukex/flowdesk/pkg/graph"
	"github.com/dukex/flowdesk/pkg/mocks"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence"
	"github.com/dukex/flowdesk/pkg/services"
	"github.com/dukex/flowdesk/pkg/testutil"
)

func TestAutomation_Create(t *testing.T) {
	t.Parallel()

	p := newPersistence(t)
	service := services.NewAutomation(p)

	created, err := service.Create(t.Context(), testutil.CreateTestAutomation())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.IsActive)

	stored, err := p.Automations().GetByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, testutil.CreateTestGraph(), stored.FlowData)
}

func TestAutomation_Create_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		override   func(*models.Automation)
		validation bool
		conflict   bool
		malformed  bool
	}{
		{
			name:       "short name",
			override:   func(a *models.Automation) { a.Name = "ab" },
			validation: true,
		},
		{
			name:       "bad schedule",
			override:   func(a *models.Automation) { a.Schedule = "every day" },
			validation: true,
		},
		{
			name:       "unknown agent",
			override:   testutil.WithAgent("ghost"),
			validation: true,
		},
		{
			name: "active with empty graph",
			override: func(a *models.Automation) {
				a.IsActive = true
				a.FlowData = graph.Snapshot{}
			},
			conflict: true,
		},
		{
			name: "dangling edge",
			override: testutil.WithFlow(graph.Snapshot{
				Nodes: []graph.Node{{ID: "1", Kind: graph.KindTrigger, Label: "Start"}},
				Edges: []graph.Edge{{ID: "e1-99", Source: "1", Target: "99"}},
			}),
			malformed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			service := services.NewAutomation(newPersistence(t))

			_, err := service.Create(t.Context(), testutil.CreateTestAutomation(tt.override))
			require.Error(t, err)
			assert.Equal(t, tt.validation, services.IsValidationError(err), err)
			assert.Equal(t, tt.conflict, services.IsConflictError(err), err)
			assert.Equal(t, tt.malformed, graph.IsMalformedGraph(err), err)
		})
	}
}

func TestAutomation_Create_WithAgent(t *testing.T) {
	t.Parallel()

	p := newPersistence(t)

	agent, err := services.NewAgent(p).Create(t.Context(), testutil.CreateTestAgent())
	require.NoError(t, err)

	created, err := services.NewAutomation(p).Create(t.Context(), testutil.CreateTestAutomation(testutil.WithAgent(agent.ID)))
	require.NoError(t, err)
	require.NotNil(t, created.AgentID)
	assert.Equal(t, agent.ID, *created.AgentID)
}

func TestAutomation_Update_KeepsGraphAndState(t *testing.T) {
	t.Parallel()

	service := services.NewAutomation(newPersistence(t))

	created, err := service.Create(t.Context(), testutil.CreateTestAutomation())
	require.NoError(t, err)

	updated, err := service.Update(t.Context(), created.ID, &models.Automation{
		Name:     "Renamed",
		Schedule: "0 9 * * 1-5",
		FlowData: graph.Snapshot{},
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "0 9 * * 1-5", updated.Schedule)
	assert.Len(t, updated.FlowData.Nodes, 2)
}

func TestAutomation_Activation(t *testing.T) {
	t.Parallel()

	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	service := services.NewAutomation(newPersistence(t), services.WithPublisher(bus))

	empty, err := service.Create(t.Context(), testutil.CreateTestAutomation(testutil.WithFlow(graph.Snapshot{})))
	require.NoError(t, err)

	_, err = service.Toggle(t.Context(), empty.ID)
	assert.True(t, services.IsConflictError(err))
	assert.ErrorIs(t, err, graph.ErrEmptyGraph)

	ready, err := service.Create(t.Context(), testutil.CreateTestAutomation())
	require.NoError(t, err)

	activated, err := service.Toggle(t.Context(), ready.ID)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)

	deactivated, err := service.SetActive(t.Context(), ready.ID, false)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	bus.AssertCalled(t, "Publish", mock.Anything, ready.ID, mock.AnythingOfType("*events.AutomationStateChanged"))
}

func TestAutomation_Duplicate(t *testing.T) {
	t.Parallel()

	service := services.NewAutomation(newPersistence(t))

	created, err := service.Create(t.Context(), testutil.CreateTestAutomation())
	require.NoError(t, err)

	_, err = service.SetActive(t.Context(), created.ID, true)
	require.NoError(t, err)

	dup, err := service.Duplicate(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Auto Reply (Copy)", dup.Name)
	assert.False(t, dup.IsActive)
	assert.Equal(t, created.FlowData, dup.FlowData)

	_, err = service.ApplyGraphCommand(t.Context(), dup.ID, graph.RemoveNode{NodeID: "2"})
	require.NoError(t, err)

	original, err := service.Graph(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Len(t, original.Nodes, 2)
}

// The authoring scenario: node "1" New Message, add "Send Reply", connect, remove "1".
func TestAutomation_ApplyGraphCommand_Scenario(t *testing.T) {
	t.Parallel()

	p := newPersistence(t)
	service := services.NewAutomation(p)

	g := graph.New()
	_, err := g.AddNode(graph.KindTrigger, "New Message", "", graph.Position{})
	require.NoError(t, err)

	created, err := service.Create(t.Context(), testutil.CreateTestAutomation(testutil.WithFlow(g.Serialize())))
	require.NoError(t, err)

	added, err := service.ApplyGraphCommand(t.Context(), created.ID, graph.AddNode{
		Kind:  graph.KindAction,
		Label: "Send Reply",
	})
	require.NoError(t, err)
	assert.Equal(t, "2", added.Result.NodeID)
	assert.Equal(t, graph.DefaultDescription, added.Graph.Nodes[1].Description)

	connected, err := service.ApplyGraphCommand(t.Context(), created.ID, graph.Connect{Source: "1", Target: "2"})
	require.NoError(t, err)
	assert.Len(t, connected.Graph.Edges, 1)

	removed, err := service.ApplyGraphCommand(t.Context(), created.ID, graph.RemoveNode{NodeID: "1"})
	require.NoError(t, err)
	assert.Equal(t, []string{connected.Result.EdgeID}, removed.Result.RemovedEdges)

	stored, err := p.Automations().GetByID(t.Context(), created.ID)
	require.NoError(t, err)
	require.Len(t, stored.FlowData.Nodes, 1)
	assert.Equal(t, "2", stored.FlowData.Nodes[0].ID)
	assert.Empty(t, stored.FlowData.Edges)
}

func TestAutomation_ApplyGraphCommand_Rejected(t *testing.T) {
	t.Parallel()

	p := newPersistence(t)
	service := services.NewAutomation(p)

	created, err := service.Create(t.Context(), testutil.CreateTestAutomation())
	require.NoError(t, err)

	tests := []struct {
		name  string
		cmd   graph.Command
		check func(error) bool
	}{
		{"missing target", graph.Connect{Source: "1", Target: "missing"}, graph.IsReferenceError},
		{"duplicate edge", graph.Connect{Source: "1", Target: "2"}, graph.IsDuplicateEdge},
		{"empty label", graph.AddNode{Kind: graph.KindAction}, func(err error) bool {
			return assert.ErrorIs(t, err, graph.ErrLabelRequired)
		}},
	}

	for _, tt := range tests {
		_, err := service.ApplyGraphCommand(t.Context(), created.ID, tt.cmd)
		assert.True(t, tt.check(err), tt.name)
	}

	stored, err := p.Automations().GetByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, testutil.CreateTestGraph(), stored.FlowData)

	_, err = service.ApplyGraphCommand(t.Context(), "missing", graph.RemoveEdge{EdgeID: "x"})
	assert.ErrorIs(t, err, persistence.ErrAutomationNotFound)
}

func TestAutomation_ActiveGraphMustStayActivatable(t *testing.T) {
	t.Parallel()

	service := services.NewAutomation(newPersistence(t))

	created, err := service.Create(t.Context(), testutil.CreateTestAutomation())
	require.NoError(t, err)

	_, err = service.SetActive(t.Context(), created.ID, true)
	require.NoError(t, err)

	_, err = service.ApplyGraphCommand(t.Context(), created.ID, graph.RemoveNode{NodeID: "1"})
	assert.True(t, services.IsConflictError(err))
	assert.ErrorIs(t, err, graph.ErrTriggerRequired)

	_, err = service.SaveGraph(t.Context(), created.ID, graph.Snapshot{})
	assert.ErrorIs(t, err, graph.ErrEmptyGraph)

	current, err := service.Graph(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Len(t, current.Nodes, 2)
}

func TestAutomation_SaveGraph(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tracer := trace.NewTracerProvider(trace.WithSpanProcessor(recorder)).Tracer("test")

	service := services.NewAutomation(newPersistence(t), services.WithTracer(tracer))

	created, err := service.Create(t.Context(), testutil.CreateTestAutomation(testutil.WithFlow(graph.Snapshot{})))
	require.NoError(t, err)

	saved, err := service.SaveGraph(t.Context(), created.ID, testutil.CreateTestGraph())
	require.NoError(t, err)
	assert.Len(t, saved.FlowData.Edges, 1)

	_, err = service.SaveGraph(t.Context(), created.ID, graph.Snapshot{
		Nodes: []graph.Node{{ID: "1", Kind: graph.KindTrigger, Label: "Start"}},
		Edges: []graph.Edge{{ID: "e1-99", Source: "1", Target: "99"}},
	})
	assert.True(t, graph.IsMalformedGraph(err))

	var names []string
	for _, span := range recorder.Ended() {
		names = append(names, span.Name())
	}

	assert.Contains(t, names, "automations.save_graph")
}
