package docstore

import (
	"context"
	"slices"
	"sync"

	"github.com/dukex/flowdesk/pkg/persistence"
)

// MemoryStore keeps documents in process memory. It backs tests and the mem:// provider.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, collection, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	body, ok := m.docs[collection][id]
	if !ok {
		return nil, persistence.ErrNotFound
	}

	return slices.Clone(body), nil
}

func (m *MemoryStore) Put(_ context.Context, collection, id string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.docs[collection] == nil {
		m.docs[collection] = make(map[string][]byte)
	}

	m.docs[collection][id] = slices.Clone(data)

	return nil
}

func (m *MemoryStore) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.docs[collection], id)

	return nil
}

func (m *MemoryStore) List(_ context.Context, collection string) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bodies := make([][]byte, 0, len(m.docs[collection]))
	for _, body := range m.docs[collection] {
		bodies = append(bodies, slices.Clone(body))
	}

	return bodies, nil
}

func (m *MemoryStore) HealthCheck(_ context.Context) error {
	return nil
}

func (m *MemoryStore) Close(_ context.Context) error {
	return nil
}
