package attendance

import (
	"context"
	"sync"

	id "livegate/pkg/domain"
)

// Store is the persistence interface for attendance records. Append-only by
// contract: there is no update or delete.
type Store interface {
	Append(ctx context.Context, record Record) error
	ListBySession(ctx context.Context, sessionID id.SessionID) ([]Record, error)
}

// MemoryStore keeps attendance in memory for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[id.SessionID][]Record
}

func NewMemory() *MemoryStore {
	return &MemoryStore{records: make(map[id.SessionID][]Record)}
}

func (s *MemoryStore) Append(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.SessionID] = append(s.records[record.SessionID], record)
	return nil
}

func (s *MemoryStore) ListBySession(_ context.Context, sessionID id.SessionID) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Record{}, s.records[sessionID]...), nil
}
