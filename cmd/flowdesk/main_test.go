package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/flowdesk/pkg/codec"
	"github.com/dukex/flowdesk/pkg/graph"
	"github.com/dukex/flowdesk/pkg/testutil"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	command := NewCommand()
	command.Writer = &out
	command.ErrWriter = &out

	err := command.Run(context.Background(), append([]string{"flowdesk"}, args...))

	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestGraphValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		file     string
		content  string
		contains string
		wantErr  bool
	}{
		{
			name:     "ready json",
			file:     "flow.json",
			content:  `{"nodes":[{"id":"1","kind":"trigger","label":"New Message","description":"","position":{"x":0,"y":0}}],"edges":[]}`,
			contains: "ready for activation",
		},
		{
			name:     "missing trigger yaml",
			file:     "flow.yaml",
			content:  "nodes:\n  - id: \"1\"\n    kind: action\n    label: Send Reply\n    position: {x: 0, y: 0}\nedges: []\n",
			contains: "not ready for activation",
		},
		{
			name:    "dangling edge",
			file:    "flow.json",
			content: `{"nodes":[{"id":"1","kind":"trigger","label":"New Message","position":{"x":0,"y":0}}],"edges":[{"id":"e1-99","source_node_id":"1","target_node_id":"99"}]}`,
			wantErr: true,
		},
		{
			name:    "unknown extension",
			file:    "flow.txt",
			content: "{}",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := run(t, "graph", "validate", writeFile(t, tt.file, tt.content))
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Contains(t, out, "well formed")
			assert.Contains(t, out, tt.contains)
		})
	}
}

func TestGraphValidate_DanglingEdgeIsMalformed(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "flow.json", `{"nodes":[],"edges":[{"id":"e","source_node_id":"1","target_node_id":"2"}]}`)

	_, err := run(t, "graph", "validate", path)
	assert.True(t, graph.IsMalformedGraph(err))
}

func TestGraphRenderKinds(t *testing.T) {
	t.Parallel()

	out, err := run(t, "graph", "render-kinds")
	require.NoError(t, err)

	for _, kind := range graph.Kinds() {
		assert.Contains(t, out, `"kind": "`+string(kind)+`"`)
	}
}

func TestAutomationImportExport(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()

	var doc bytes.Buffer

	require.NoError(t, codec.Encode(&doc, codec.FromAutomation(testutil.CreateTestAutomation()), codec.FormatYAML))

	path := writeFile(t, "auto-reply.yaml", doc.String())

	out, err := run(t, "--database-url", dataDir, "automation", "import", "--owner-id", "owner-9", path)
	require.NoError(t, err)

	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	out, err = run(t, "--database-url", dataDir, "automation", "export", "--format", "json", id)
	require.NoError(t, err)

	exported, err := codec.Decode(strings.NewReader(out), codec.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "Auto Reply", exported.Name)
	assert.Equal(t, testutil.CreateTestGraph(), exported.Flow)
}

func TestAutomationExport_Errors(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()

	_, err := run(t, "--database-url", dataDir, "automation", "export")
	require.ErrorIs(t, err, errIDRequired)

	_, err = run(t, "--database-url", dataDir, "automation", "export", "missing")
	require.Error(t, err)

	_, err = run(t, "--database-url", dataDir, "automation", "export", "--format", "xml", "missing")
	assert.ErrorIs(t, err, codec.ErrUnknownFormat)
}
