// internal/domain/identity/memory.go
package identity

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps session records in process memory
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Load returns the record of sessionID or ErrNoRecord
func (m *MemoryStore) Load(ctx context.Context, sessionID string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[sessionID]
	if !ok {
		return nil, ErrNoRecord
	}
	return &record, nil
}

// Save stores record; ttl is ignored
func (m *MemoryStore) Save(ctx context.Context, sessionID string, record *Record, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[sessionID] = *record
	return nil
}

// Delete removes the record of sessionID
func (m *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, sessionID)
	return nil
}
