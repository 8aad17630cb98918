package graph_test

import (
	"testing"

	"github.com/dukex/flowdesk/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_Apply(t *testing.T) {
	t.Parallel()

	g := newMessageGraph(t)

	result, err := g.Apply(graph.AddNode{Kind: graph.KindAction, Label: "Send Reply"})
	require.NoError(t, err)
	assert.Equal(t, graph.Result{Command: "add_node", NodeID: "2", Changed: true}, result)

	result, err = g.Apply(graph.Connect{Source: "1", Target: "2"})
	require.NoError(t, err)
	assert.Equal(t, "connect", result.Command)
	assert.NotEmpty(t, result.EdgeID)

	edgeID := result.EdgeID

	result, err = g.Apply(graph.MoveNode{NodeID: "2", Position: graph.Position{X: 5, Y: 6}})
	require.NoError(t, err)
	assert.True(t, result.Changed)

	result, err = g.Apply(graph.MoveNode{NodeID: "ghost"})
	require.NoError(t, err)
	assert.False(t, result.Changed)

	result, err = g.Apply(graph.EditNode{NodeID: "2", Label: "Reply with FAQ", Description: "Uses the FAQ list"})
	require.NoError(t, err)
	assert.True(t, result.Changed)

	result, err = g.Apply(graph.RemoveNode{NodeID: "1"})
	require.NoError(t, err)
	assert.Equal(t, []string{edgeID}, result.RemovedEdges)
	assert.True(t, result.Changed)

	result, err = g.Apply(graph.RemoveEdge{EdgeID: edgeID})
	require.NoError(t, err)
	assert.False(t, result.Changed)

	node, ok := g.Node("2")
	require.True(t, ok)
	assert.Equal(t, "Reply with FAQ", node.Label)
	assert.Equal(t, graph.Position{X: 5, Y: 6}, node.Position)
}

func TestGraph_Apply_FailureLeavesGraphUnchanged(t *testing.T) {
	t.Parallel()

	empty := ""

	commands := []graph.Command{
		graph.AddNode{Kind: graph.KindAction},
		graph.AddNode{Kind: "bogus", Label: "x"},
		graph.Connect{Source: "1", Target: "missing"},
		graph.Connect{Source: "1", Target: "1"},
		graph.EditNode{NodeID: "missing", Label: "x"},
		graph.EditNode{NodeID: "1"},
		graph.PatchNode{NodeID: "missing", Position: &graph.Position{X: 1, Y: 1}},
		graph.PatchNode{NodeID: "1", Label: &empty, Position: &graph.Position{X: 9, Y: 9}},
	}

	for _, cmd := range commands {
		t.Run(cmd.Name(), func(t *testing.T) {
			t.Parallel()

			g := newMessageGraph(t)
			before := g.Serialize()

			result, err := g.Apply(cmd)

			require.Error(t, err)
			assert.Equal(t, graph.Result{}, result)
			assert.Equal(t, before, g.Serialize())

			// The id counter did not move either.
			id, err := g.AddNode(graph.KindAction, "next", "", graph.Position{})
			require.NoError(t, err)
			assert.Equal(t, "2", id)
		})
	}
}

func TestGraph_Apply_PatchNode(t *testing.T) {
	t.Parallel()

	g := newMessageGraph(t)
	before, ok := g.Node("1")
	require.True(t, ok)

	label := "Incoming DM"

	result, err := g.Apply(graph.PatchNode{NodeID: "1", Label: &label, Position: &graph.Position{X: 3, Y: 4}})
	require.NoError(t, err)
	assert.Equal(t, graph.Result{Command: "patch_node", NodeID: "1", Changed: true}, result)

	node, ok := g.Node("1")
	require.True(t, ok)
	assert.Equal(t, "Incoming DM", node.Label)
	assert.Equal(t, before.Description, node.Description)
	assert.Equal(t, graph.Position{X: 3, Y: 4}, node.Position)

	description := "Direct messages only"

	_, err = g.Apply(graph.PatchNode{NodeID: "1", Description: &description})
	require.NoError(t, err)

	node, _ = g.Node("1")
	assert.Equal(t, "Incoming DM", node.Label)
	assert.Equal(t, "Direct messages only", node.Description)
	assert.Equal(t, graph.Position{X: 3, Y: 4}, node.Position)

	_, err = g.Apply(graph.PatchNode{NodeID: "ghost"})
	assert.True(t, graph.IsReferenceError(err))
}

func TestRender(t *testing.T) {
	t.Parallel()

	specs := graph.RenderAll()
	require.Len(t, specs, 4)

	colors := map[graph.Kind]string{}
	for _, spec := range specs {
		colors[spec.Kind] = spec.Color
		assert.NotEmpty(t, spec.Title)
	}

	assert.Equal(t, map[graph.Kind]string{
		graph.KindTrigger:   "blue",
		graph.KindAction:    "green",
		graph.KindCondition: "yellow",
		graph.KindOutput:    "purple",
	}, colors)

	_, err := graph.Render("webhook")
	assert.ErrorIs(t, err, graph.ErrUnknownKind)
}
