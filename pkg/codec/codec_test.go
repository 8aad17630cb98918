package codec_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/flowdesk/pkg/codec"
	"github.com/dukex/flowdesk/pkg/graph"
	"github.com/dukex/flowdesk/pkg/models"
)

func sampleAutomation(t *testing.T) *models.Automation {
	t.Helper()

	g := graph.New()
	trigger, err := g.AddNode(graph.KindTrigger, "New Message", "", graph.Position{X: 0, Y: 0})
	require.NoError(t, err)
	output, err := g.AddNode(graph.KindOutput, "Log", "Write to log", graph.Position{X: 150.25, Y: 0})
	require.NoError(t, err)
	_, err = g.Connect(trigger, output)
	require.NoError(t, err)

	return &models.Automation{
		Record:   models.Record{ID: "auto-1", OwnerID: "user-1", IsActive: true},
		Name:     "Logger",
		Schedule: "*/5 * * * *",
		FlowData: g.Serialize(),
	}
}

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	for _, format := range []codec.Format{codec.FormatJSON, codec.FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()

			automation := sampleAutomation(t)

			var buf bytes.Buffer
			require.NoError(t, codec.Encode(&buf, codec.FromAutomation(automation), format))

			doc, err := codec.Decode(&buf, format)
			require.NoError(t, err)
			assert.Equal(t, automation.FlowData, doc.Flow)

			imported := doc.Automation("user-2")
			assert.Equal(t, "Logger", imported.Name)
			assert.Equal(t, "user-2", imported.OwnerID)
			assert.Empty(t, imported.ID)
			assert.False(t, imported.IsActive)
			assert.Equal(t, "*/5 * * * *", imported.Schedule)
		})
	}
}

func TestDecode_RejectsMalformedFlow(t *testing.T) {
	t.Parallel()

	input := `
version: 1
name: Broken
flow:
  nodes:
    - {id: "1", kind: trigger, label: Start, description: x, position: {x: 0, y: 0}}
  edges:
    - {id: e1-99, source_node_id: "1", target_node_id: "99"}
`

	_, err := codec.Decode(strings.NewReader(input), codec.FormatYAML)
	assert.True(t, graph.IsMalformedGraph(err))
}

func TestDecode_RejectsUnknownVersion(t *testing.T) {
	t.Parallel()

	_, err := codec.Decode(strings.NewReader(`{"version": 9, "name": "x", "flow": {}}`), codec.FormatJSON)
	assert.ErrorIs(t, err, codec.ErrUnsupportedVersion)
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	tests := map[string]codec.Format{
		"flow.json":    codec.FormatJSON,
		"flow.yaml":    codec.FormatYAML,
		"dir/flow.YML": codec.FormatYAML,
	}

	for path, want := range tests {
		got, err := codec.FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got)
	}

	_, err := codec.FormatFromPath("flow.toml")
	assert.ErrorIs(t, err, codec.ErrUnknownFormat)
}
