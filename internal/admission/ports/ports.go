// Package ports defines the interfaces the admission service consumes. The
// decision logic depends on these, never on concrete providers, so identity,
// membership, and media-provider implementations stay swappable.
package ports

import (
	"context"
	"time"

	"livegate/internal/attendance"
	id "livegate/pkg/domain"
)

// MembershipGate answers whether an audience member holds a qualifying
// subscription. Backed by the subscription store; admission only ever asks
// this one question of it.
type MembershipGate interface {
	HasActiveSubscription(ctx context.Context, user id.UserID) (bool, error)
}

// AuthorizationPolicy answers whether an actor holds controller authority
// over a session.
type AuthorizationPolicy interface {
	IsSessionController(ctx context.Context, actor id.UserID, sessionID id.SessionID) (bool, error)
}

// MintJoinRequest is the outbound credential request to the media provider.
type MintJoinRequest struct {
	RoomRef   string
	Role      string
	Subject   string // empty for guests
	ExpiresAt time.Time

	IsOwner           bool
	CanBroadcastVideo bool
	CanBroadcastAudio bool
	CanScreenShare    bool
	CanSeeRoster      bool
}

// RoomProvider mints join tokens for the external media room. Failures are
// retryable from the caller's perspective; the admission service surfaces
// them as provider_unavailable and persists nothing.
type RoomProvider interface {
	MintJoinToken(ctx context.Context, req MintJoinRequest) (string, error)
}

// AttendanceRecorder appends the join log entry for a successful admission.
type AttendanceRecorder interface {
	RecordJoin(ctx context.Context, record attendance.Record) error
}
