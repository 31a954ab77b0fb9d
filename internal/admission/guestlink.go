package admission

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"livegate/internal/session/models"
)

// ValidateGuestLink checks a provided guest secret against the session's
// stored link. Valid requires: a link exists, the expiry has not passed, and
// the secret matches the stored bcrypt hash. bcrypt's comparison is
// constant-time with respect to the secret, so a mismatch leaks no timing
// signal about how close the guess was.
//
// Expiry is absolute: a previously valid secret is rejected the moment now
// reaches the expiry, even while the session is live. Failure is terminal
// for the request; an invalid secret never escalates to any other role.
func ValidateGuestLink(sess models.LiveSession, providedSecret string, now time.Time) bool {
	if !sess.HasGuestLink() || providedSecret == "" {
		return false
	}
	if !now.Before(sess.GuestSecretExpiry) {
		return false
	}
	return bcrypt.CompareHashAndPassword(sess.GuestSecretHash, []byte(providedSecret)) == nil
}
