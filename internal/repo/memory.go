package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkordes/rv-planner/internal/domain"
)

// MemoryDocumentStore keeps documents in process memory. It is used by
// tests and as the local store when no SQLite path is configured.
type MemoryDocumentStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryDocumentStore returns an empty in-memory store.
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{docs: map[string][]byte{}}
}

// Get returns a copy of the stored document.
func (m *MemoryDocumentStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.docs[key]
	if !ok {
		return nil, fmt.Errorf("repo.MemoryDocumentStore.Get: %w", domain.ErrNotFound)
	}
	return append([]byte(nil), v...), nil
}

// Put stores a copy of value.
func (m *MemoryDocumentStore) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = append([]byte(nil), value...)
	return nil
}
