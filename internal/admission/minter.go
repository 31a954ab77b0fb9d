package admission

import (
	"context"
	"errors"
	"time"

	"livegate/internal/admission/ports"
	"livegate/internal/session/models"
	id "livegate/pkg/domain"
	dErrors "livegate/pkg/domain-errors"
	"livegate/pkg/platform/circuit"
)

// Minter builds capability-scoped join credentials via the media provider.
// Capabilities come from the role alone; expiry is bounded by the session's
// scheduled end plus a grace window when known, and by a hard ceiling always.
// Repeated provider failures open a circuit that fails fast until a cooldown
// lets calls reach the provider again.
type Minter struct {
	provider ports.RoomProvider
	breaker  *circuit.Breaker
	grace    time.Duration
	ceiling  time.Duration
	timeout  time.Duration
}

// NewMinter constructs a Minter. grace pads the scheduled end so a session
// running slightly over doesn't cut credentials mid-broadcast; ceiling caps
// every credential regardless.
func NewMinter(provider ports.RoomProvider, grace, ceiling, timeout time.Duration) *Minter {
	return &Minter{
		provider: provider,
		breaker:  circuit.New("room-provider"),
		grace:    grace,
		ceiling:  ceiling,
		timeout:  timeout,
	}
}

// Mint requests a join token from the provider. On provider failure it
// returns a retryable provider_unavailable error and persists nothing.
func (m *Minter) Mint(ctx context.Context, sess models.LiveSession, role Role, identity id.UserID, now time.Time) (Credential, error) {
	caps, err := DeriveCapabilities(role)
	if err != nil {
		return Credential{}, err
	}

	expiry := m.credentialExpiry(sess, now)

	req := ports.MintJoinRequest{
		RoomRef:           sess.RoomRef,
		Role:              string(role),
		ExpiresAt:         expiry,
		IsOwner:           caps.IsOwner,
		CanBroadcastVideo: caps.CanBroadcastVideo,
		CanBroadcastAudio: caps.CanBroadcastAudio,
		CanScreenShare:    caps.CanScreenShare,
		CanSeeRoster:      caps.CanSeeRoster,
	}
	if !identity.IsNil() {
		req.Subject = identity.String()
	}

	if !m.breaker.Allow(now) {
		return Credential{}, dErrors.New(dErrors.CodeProviderUnavailable, "media provider circuit open")
	}

	mintCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	token, err := m.provider.MintJoinToken(mintCtx, req)
	if err != nil {
		// A cancelled caller says nothing about provider health.
		if !errors.Is(err, context.Canceled) {
			m.breaker.RecordFailure(now)
		}
		return Credential{}, dErrors.Wrap(err, dErrors.CodeProviderUnavailable, "media provider rejected the mint")
	}
	m.breaker.RecordSuccess()

	return Credential{
		RoomRef:      sess.RoomRef,
		Role:         role,
		Token:        token,
		Capabilities: caps,
		ExpiresAt:    expiry,
	}, nil
}

// credentialExpiry bounds the token lifetime: scheduled end + grace when the
// end is known, never past now + ceiling, never shorter than the grace
// window (a session running over its slot still gets usable tokens). Never
// unbounded.
func (m *Minter) credentialExpiry(sess models.LiveSession, now time.Time) time.Time {
	expiry := now.Add(m.ceiling)
	if sess.ScheduledEnd != nil {
		if bounded := sess.ScheduledEnd.Add(m.grace); bounded.Before(expiry) {
			expiry = bounded
		}
	}
	if floor := now.Add(m.grace); expiry.Before(floor) {
		expiry = floor
	}
	return expiry
}
