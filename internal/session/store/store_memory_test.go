package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livegate/internal/session/models"
	id "livegate/pkg/domain"
	"livegate/pkg/platform/sentinel"
)

func newStoredSession(t *testing.T, s *MemoryStore, status models.Status) models.LiveSession {
	t.Helper()
	sess := models.LiveSession{
		ID:             id.NewSessionID(),
		Title:          "Morning breathwork",
		HostID:         id.NewUserID(),
		Status:         status,
		Access:         models.AccessPublic,
		RoomRef:        "room-1",
		ScheduledStart: time.Now(),
		CreatedAt:      time.Now(),
	}
	require.NoError(t, s.Create(context.Background(), sess))
	return sess
}

func TestMemoryStore_CreateAndFind(t *testing.T) {
	s := NewMemory()
	sess := newStoredSession(t, s, models.StatusScheduled)

	found, err := s.FindByID(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, found.ID)
	assert.Equal(t, models.StatusScheduled, found.Status)

	assert.ErrorIs(t, s.Create(context.Background(), sess), sentinel.ErrConflict)

	_, err = s.FindByID(context.Background(), id.NewSessionID())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestMemoryStore_TransitionStatus(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)

	t.Run("guard match flips the status and stamps the time", func(t *testing.T) {
		s := NewMemory()
		sess := newStoredSession(t, s, models.StatusScheduled)

		require.NoError(t, s.TransitionStatus(ctx, sess.ID, models.StatusScheduled, models.StatusLive, at))

		found, err := s.FindByID(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusLive, found.Status)
		require.NotNil(t, found.StartedAt)
		assert.Equal(t, at, *found.StartedAt)
		assert.Nil(t, found.EndedAt)
	})

	t.Run("guard mismatch is a conflict", func(t *testing.T) {
		s := NewMemory()
		sess := newStoredSession(t, s, models.StatusLive)

		err := s.TransitionStatus(ctx, sess.ID, models.StatusScheduled, models.StatusLive, at)
		assert.ErrorIs(t, err, sentinel.ErrConflict)
	})

	t.Run("unknown session is not found", func(t *testing.T) {
		s := NewMemory()
		err := s.TransitionStatus(ctx, id.NewSessionID(), models.StatusScheduled, models.StatusLive, at)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("ending stamps ended_at", func(t *testing.T) {
		s := NewMemory()
		sess := newStoredSession(t, s, models.StatusLive)

		require.NoError(t, s.TransitionStatus(ctx, sess.ID, models.StatusLive, models.StatusEnded, at))
		found, err := s.FindByID(ctx, sess.ID)
		require.NoError(t, err)
		require.NotNil(t, found.EndedAt)
		assert.Equal(t, at, *found.EndedAt)
	})
}

func TestMemoryStore_ConcurrentTransitions(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	sess := newStoredSession(t, s, models.StatusScheduled)

	const workers = 32
	results := make(chan error, workers)
	for range workers {
		go func() {
			results <- s.TransitionStatus(ctx, sess.ID, models.StatusScheduled, models.StatusLive, time.Now())
		}()
	}

	var applied, conflicted int
	for range workers {
		if err := <-results; err == nil {
			applied++
		} else {
			require.ErrorIs(t, err, sentinel.ErrConflict)
			conflicted++
		}
	}
	assert.Equal(t, 1, applied, "exactly one transition wins")
	assert.Equal(t, workers-1, conflicted)

	found, err := s.FindByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusLive, found.Status)
}

func TestMemoryStore_SetGuestLink(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	sess := newStoredSession(t, s, models.StatusScheduled)
	expiry := time.Now().Add(24 * time.Hour)

	require.NoError(t, s.SetGuestLink(ctx, sess.ID, []byte("hash-bytes"), expiry))

	found, err := s.FindByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("hash-bytes"), found.GuestSecretHash)
	assert.Equal(t, expiry, found.GuestSecretExpiry)

	err = s.SetGuestLink(ctx, id.NewSessionID(), []byte("x"), expiry)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
