// Package membership answers one question for the admission flow: does this
// user hold an active subscription right now. Plan management, billing and
// renewal live elsewhere; this package only reads the result.
package membership

import (
	"time"

	id "livegate/pkg/domain"
)

// Subscription is a user's paid membership window.
type Subscription struct {
	UserID    id.UserID
	Plan      string
	StartsAt  time.Time
	ExpiresAt time.Time
}

// ActiveAt reports whether the subscription covers the given instant.
func (s Subscription) ActiveAt(t time.Time) bool {
	return !t.Before(s.StartsAt) && t.Before(s.ExpiresAt)
}
