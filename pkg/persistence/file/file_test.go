package file

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence/docstore"
	"github.com/dukex/flowdesk/pkg/persistence/docstore/storetest"
)

func TestNewStore(t *testing.T) {
	assert.Equal(t, "/tmp/test", NewStore("/tmp/test").Root())
	assert.Equal(t, "/tmp/test", NewStore("file:///tmp/test").Root())
}

func TestStore_Conformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) docstore.Store {
		return NewStore(t.TempDir())
	})
}

func TestStore_WritesOneFilePerRecord(t *testing.T) {
	testDir := t.TempDir()
	p := NewPersistence(testDir)

	agent := &models.Agent{
		Record: models.Record{ID: "test-agent", OwnerID: "user-1"},
		Name:   "Support Bot",
		Model:  models.DefaultAgentModel,
	}

	err := p.Agents().Save(t.Context(), agent)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(testDir, "agents", "test-agent.json"))
	assert.NoFileExists(t, filepath.Join(testDir, "agents", "test-agent.json.tmp"))
}

func TestStore_RejectsPathTraversal(t *testing.T) {
	store := NewStore(t.TempDir())

	for _, id := range []string{"../escape", "a/b", ".hidden", ""} {
		_, err := store.Get(t.Context(), "agents", id)
		assert.Error(t, err, id)

		assert.Error(t, store.Put(t.Context(), "agents", id, []byte("{}")), id)
	}
}

func TestStore_HealthCheck(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nested", "data"))

	require.NoError(t, store.HealthCheck(t.Context()))
	assert.DirExists(t, store.Root())
	assert.NoError(t, store.Close(t.Context()))
}
