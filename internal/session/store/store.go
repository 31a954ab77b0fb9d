// Package store persists live session records. Implementations must make
// TransitionStatus an atomic compare-and-set: of N concurrent transitions with
// the same guard, exactly one may win.
package store

import (
	"context"
	"time"

	"livegate/internal/session/models"
	id "livegate/pkg/domain"
)

// Store is the persistence interface for live sessions.
type Store interface {
	Create(ctx context.Context, session models.LiveSession) error
	FindByID(ctx context.Context, sessionID id.SessionID) (models.LiveSession, error)

	// TransitionStatus flips the status from `from` to `to`, recording `at`
	// as the transition timestamp. Returns sentinel.ErrConflict when the
	// session is no longer in `from`, and sentinel.ErrNotFound for unknown
	// sessions. This is the only mutation path for the status field.
	TransitionStatus(ctx context.Context, sessionID id.SessionID, from, to models.Status, at time.Time) error

	// SetGuestLink stores the bcrypt hash and expiry for the session's guest
	// link, replacing any previous one.
	SetGuestLink(ctx context.Context, sessionID id.SessionID, secretHash []byte, expiry time.Time) error
}
