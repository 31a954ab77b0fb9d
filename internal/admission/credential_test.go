package admission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "livegate/pkg/domain-errors"
)

func TestDeriveCapabilities(t *testing.T) {
	t.Run("host gets full control", func(t *testing.T) {
		caps, err := DeriveCapabilities(RoleHost)
		require.NoError(t, err)
		assert.True(t, caps.IsOwner)
		assert.True(t, caps.CanBroadcastVideo)
		assert.True(t, caps.CanBroadcastAudio)
		assert.True(t, caps.CanScreenShare)
		assert.True(t, caps.CanSeeRoster)
	})

	t.Run("guest presents but never sees the roster", func(t *testing.T) {
		caps, err := DeriveCapabilities(RoleGuest)
		require.NoError(t, err)
		assert.False(t, caps.IsOwner)
		assert.True(t, caps.CanBroadcastVideo)
		assert.True(t, caps.CanBroadcastAudio)
		assert.True(t, caps.CanScreenShare)
		assert.False(t, caps.CanSeeRoster)
	})

	t.Run("audience is receive-only", func(t *testing.T) {
		caps, err := DeriveCapabilities(RoleAudience)
		require.NoError(t, err)
		assert.Equal(t, Capabilities{}, caps)
	})

	t.Run("roster visibility is exclusive to the host", func(t *testing.T) {
		for _, role := range []Role{RoleGuest, RoleAudience} {
			caps, err := DeriveCapabilities(role)
			require.NoError(t, err)
			assert.False(t, caps.CanSeeRoster, "role=%s", role)
		}
	})

	t.Run("unknown role is an internal error", func(t *testing.T) {
		_, err := DeriveCapabilities(Role("moderator"))
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeInternal, dErrors.CodeOf(err))
	})
}
