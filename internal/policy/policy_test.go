package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livegate/internal/session/models"
	id "livegate/pkg/domain"
	"livegate/pkg/platform/sentinel"
)

type mapReader map[id.SessionID]models.LiveSession

func (m mapReader) FindByID(_ context.Context, sessionID id.SessionID) (models.LiveSession, error) {
	if sess, ok := m[sessionID]; ok {
		return sess, nil
	}
	return models.LiveSession{}, sentinel.ErrNotFound
}

func TestIsSessionController(t *testing.T) {
	host := id.NewUserID()
	operator := id.NewUserID()
	sess := models.LiveSession{ID: id.NewSessionID(), HostID: host}
	reader := mapReader{sess.ID: sess}
	p := NewHostPolicy(reader, operator)

	t.Run("host controls their own session", func(t *testing.T) {
		ok, err := p.IsSessionController(context.Background(), host, sess.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("operator controls any session", func(t *testing.T) {
		ok, err := p.IsSessionController(context.Background(), operator, sess.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("stranger controls nothing", func(t *testing.T) {
		ok, err := p.IsSessionController(context.Background(), id.NewUserID(), sess.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("anonymous actor is never a controller", func(t *testing.T) {
		ok, err := p.IsSessionController(context.Background(), id.UserID{}, sess.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown session grants no authority", func(t *testing.T) {
		ok, err := p.IsSessionController(context.Background(), host, id.NewSessionID())
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
