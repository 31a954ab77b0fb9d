package models

import (
	"time"

	id "livegate/pkg/domain"
)

// Status is the lifecycle state of a live session. Transitions are monotonic:
// scheduled -> live -> ended. There is no path out of ended.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusLive      Status = "live"
	StatusEnded     Status = "ended"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusLive, StatusEnded:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle permits moving from s to next.
// Ending a session that never went live is allowed (the host cancels it);
// nothing leaves ended.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusScheduled:
		return next == StatusLive || next == StatusEnded
	case StatusLive:
		return next == StatusEnded
	}
	return false
}

// AccessLevel controls who may join as audience.
type AccessLevel string

const (
	AccessPublic  AccessLevel = "public"
	AccessMembers AccessLevel = "members"
)

// Valid reports whether a is a known access level.
func (a AccessLevel) Valid() bool {
	return a == AccessPublic || a == AccessMembers
}

// LiveSession is the persisted record describing a scheduled broadcast and
// its lifecycle state. The record survives past ended for attendance auditing
// and is never deleted by this service.
type LiveSession struct {
	ID     id.SessionID
	Title  string
	HostID id.UserID
	Status Status
	Access AccessLevel

	// RoomRef points at the externally provisioned media room. Empty means
	// the room was never provisioned; admission fails operator-fixably.
	RoomRef string

	// GuestSecretHash is the bcrypt hash of the guest-link secret. nil means
	// no guest is invited. The plaintext is returned once at issuance and
	// never stored.
	GuestSecretHash   []byte
	GuestSecretExpiry time.Time

	ScheduledStart time.Time
	ScheduledEnd   *time.Time

	StartedAt *time.Time
	EndedAt   *time.Time
	CreatedAt time.Time
}

// RoomProvisioned reports whether the media room exists for this session.
func (s LiveSession) RoomProvisioned() bool {
	return s.RoomRef != ""
}

// HasGuestLink reports whether a guest presenter has been invited.
func (s LiveSession) HasGuestLink() bool {
	return len(s.GuestSecretHash) > 0
}
