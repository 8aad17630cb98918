package services_test

import (
	"testing"

	"github.com/dukex/flowdesk/pkg/persistence/docstore"
)

func newPersistence(t *testing.T) *docstore.Persistence {
	t.Helper()

	return docstore.New(docstore.NewMemoryStore())
}

func ptr[T any](v T) *T {
	return &v
}
