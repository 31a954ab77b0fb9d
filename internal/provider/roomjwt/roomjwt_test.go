package roomjwt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livegate/internal/admission/ports"
)

var provider = New("test-room-key", "livegate-test")

func mintRequest() ports.MintJoinRequest {
	return ports.MintJoinRequest{
		RoomRef:           "room-abc",
		Role:              "guest",
		Subject:           "",
		ExpiresAt:         time.Now().Add(time.Hour).Truncate(time.Second),
		CanBroadcastVideo: true,
		CanBroadcastAudio: true,
		CanScreenShare:    true,
	}
}

func TestMintJoinToken_RoundTrip(t *testing.T) {
	req := mintRequest()
	token, err := provider.MintJoinToken(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := provider.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "room-abc", claims.Room)
	assert.Equal(t, "guest", claims.Role)
	assert.Empty(t, claims.Subject)
	assert.True(t, claims.CanBroadcastVideo)
	assert.True(t, claims.CanBroadcastAudio)
	assert.True(t, claims.CanScreenShare)
	assert.False(t, claims.IsOwner)
	assert.False(t, claims.CanSeeRoster)
	assert.Equal(t, req.ExpiresAt.Unix(), claims.ExpiresAt.Unix())
	assert.Equal(t, []string{"room-abc"}, []string(claims.Audience))
}

func TestMintJoinToken_HostGrant(t *testing.T) {
	req := mintRequest()
	req.Role = "host"
	req.Subject = "user-1"
	req.IsOwner = true
	req.CanSeeRoster = true

	token, err := provider.MintJoinToken(context.Background(), req)
	require.NoError(t, err)

	claims, err := provider.Decode(token)
	require.NoError(t, err)
	assert.True(t, claims.IsOwner)
	assert.True(t, claims.CanSeeRoster)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestDecode_RejectsForeignSignature(t *testing.T) {
	other := New("different-key", "livegate-test")
	token, err := other.MintJoinToken(context.Background(), mintRequest())
	require.NoError(t, err)

	_, err = provider.Decode(token)
	assert.Error(t, err)
}

func TestDecode_RejectsExpiredToken(t *testing.T) {
	req := mintRequest()
	req.ExpiresAt = time.Now().Add(-time.Minute)
	token, err := provider.MintJoinToken(context.Background(), req)
	require.NoError(t, err)

	_, err = provider.Decode(token)
	assert.Error(t, err)
}

func TestMintJoinToken_HonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.MintJoinToken(ctx, mintRequest())
	assert.Error(t, err)
}
