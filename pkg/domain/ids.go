// Package domain defines typed identifiers shared across modules. Wrapping
// uuid.UUID in distinct types keeps session and user IDs from being mixed up
// at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "livegate/pkg/domain-errors"
)

// SessionID identifies a live session record.
type SessionID uuid.UUID

// UserID identifies an authenticated user (host or audience member).
type UserID uuid.UUID

// NewSessionID generates a random session ID.
func NewSessionID() SessionID {
	return SessionID(uuid.New())
}

// NewUserID generates a random user ID.
func NewUserID() UserID {
	return UserID(uuid.New())
}

// ParseSessionID parses a session ID from its string form.
func ParseSessionID(s string) (SessionID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return SessionID{}, dErrors.New(dErrors.CodeValidation, "invalid session id")
	}
	return SessionID(u), nil
}

// ParseUserID parses a user ID from its string form.
func ParseUserID(s string) (UserID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, dErrors.New(dErrors.CodeValidation, "invalid user id")
	}
	return UserID(u), nil
}

func (id SessionID) String() string { return uuid.UUID(id).String() }
func (id UserID) String() string    { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero value.
func (id SessionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
