package store

import (
	"context"
	"sync"
	"time"

	"livegate/internal/session/models"
	id "livegate/pkg/domain"
	"livegate/pkg/platform/sentinel"
)

// MemoryStore keeps sessions in a map for development and tests. It
// intentionally favors clarity over performance; the compare-and-set
// semantics match the Postgres implementation exactly.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]models.LiveSession
}

func NewMemory() *MemoryStore {
	return &MemoryStore{sessions: make(map[id.SessionID]models.LiveSession)}
}

func (s *MemoryStore) Create(_ context.Context, session models.LiveSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[session.ID]; exists {
		return sentinel.ErrConflict
	}
	s.sessions[session.ID] = session
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, sessionID id.SessionID) (models.LiveSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if session, ok := s.sessions[sessionID]; ok {
		return session, nil
	}
	return models.LiveSession{}, sentinel.ErrNotFound
}

// TransitionStatus performs the conditional status flip under the store lock,
// so concurrent callers with the same guard race exactly like they would on a
// conditional UPDATE.
func (s *MemoryStore) TransitionStatus(_ context.Context, sessionID id.SessionID, from, to models.Status, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if session.Status != from {
		return sentinel.ErrConflict
	}

	session.Status = to
	switch to {
	case models.StatusLive:
		session.StartedAt = &at
	case models.StatusEnded:
		session.EndedAt = &at
	}
	s.sessions[sessionID] = session
	return nil
}

func (s *MemoryStore) SetGuestLink(_ context.Context, sessionID id.SessionID, secretHash []byte, expiry time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return sentinel.ErrNotFound
	}
	session.GuestSecretHash = append([]byte(nil), secretHash...)
	session.GuestSecretExpiry = expiry
	s.sessions[sessionID] = session
	return nil
}
