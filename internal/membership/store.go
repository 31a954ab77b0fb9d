package membership

import (
	"context"
	"sync"
	"time"

	id "livegate/pkg/domain"
	"livegate/pkg/platform/sentinel"
)

// Store provides read and write access to subscriptions.
type Store interface {
	Upsert(ctx context.Context, sub Subscription) error
	FindByUser(ctx context.Context, userID id.UserID) (Subscription, error)
}

// MemoryStore keeps subscriptions in a map. Used in tests and single-node
// development runs.
type MemoryStore struct {
	mu   sync.RWMutex
	subs map[id.UserID]Subscription
}

func NewMemory() *MemoryStore {
	return &MemoryStore{subs: make(map[id.UserID]Subscription)}
}

func (s *MemoryStore) Upsert(_ context.Context, sub Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[sub.UserID] = sub
	return nil
}

func (s *MemoryStore) FindByUser(_ context.Context, userID id.UserID) (Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subs[userID]
	if !ok {
		return Subscription{}, sentinel.ErrNotFound
	}
	return sub, nil
}

var _ Store = (*MemoryStore)(nil)

// ActiveWindow is a convenience for tests: a subscription centered on now.
func ActiveWindow(userID id.UserID, now time.Time) Subscription {
	return Subscription{
		UserID:    userID,
		Plan:      "monthly",
		StartsAt:  now.Add(-time.Hour),
		ExpiresAt: now.Add(30 * 24 * time.Hour),
	}
}
