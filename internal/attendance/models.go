// Package attendance keeps the append-only log of successful admissions.
// Records are written once and never mutated; they outlive the session for
// auditing.
package attendance

import (
	"time"

	id "livegate/pkg/domain"
)

// Record is one successful admission. UserID is nil for guest presenters:
// guests hold no persistent identity, only their link, but the join itself
// is still counted.
type Record struct {
	SessionID id.SessionID `json:"session_id"`
	UserID    *id.UserID   `json:"user_id,omitempty"`
	Role      string       `json:"role"`
	JoinedAt  time.Time    `json:"joined_at"`
}
