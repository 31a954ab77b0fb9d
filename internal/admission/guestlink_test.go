package admission

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"livegate/internal/session/models"
)

func sessionWithGuestLink(t *testing.T, secret string, expiry time.Time) models.LiveSession {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	require.NoError(t, err)
	sess := provisionedSession(models.StatusLive, models.AccessPublic)
	sess.GuestSecretHash = hash
	sess.GuestSecretExpiry = expiry
	return sess
}

func TestValidateGuestLink(t *testing.T) {
	now := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	const secret = "c0ffee00c0ffee00c0ffee00c0ffee00"

	t.Run("matching unexpired secret is valid", func(t *testing.T) {
		sess := sessionWithGuestLink(t, secret, now.Add(time.Hour))
		assert.True(t, ValidateGuestLink(sess, secret, now))
	})

	t.Run("wrong secret is invalid", func(t *testing.T) {
		sess := sessionWithGuestLink(t, secret, now.Add(time.Hour))
		assert.False(t, ValidateGuestLink(sess, "deadbeef", now))
	})

	t.Run("expired link rejects the correct secret", func(t *testing.T) {
		sess := sessionWithGuestLink(t, secret, now.Add(-time.Second))
		assert.False(t, ValidateGuestLink(sess, secret, now))
	})

	t.Run("expiry boundary is exclusive", func(t *testing.T) {
		sess := sessionWithGuestLink(t, secret, now)
		assert.False(t, ValidateGuestLink(sess, secret, now))
	})

	t.Run("no link issued means nothing validates", func(t *testing.T) {
		sess := provisionedSession(models.StatusLive, models.AccessPublic)
		assert.False(t, ValidateGuestLink(sess, secret, now))
	})

	t.Run("empty secret never validates", func(t *testing.T) {
		sess := sessionWithGuestLink(t, secret, now.Add(time.Hour))
		assert.False(t, ValidateGuestLink(sess, "", now))
	})
}
