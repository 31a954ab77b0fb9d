package admission

import (
	"livegate/internal/session/models"
	dErrors "livegate/pkg/domain-errors"
)

// Outcome classifies an admission decision. Wait is an expected, recoverable
// state (the session simply hasn't started) and must never be conflated
// with Deny: a waiting caller polls for the transition, a denied caller needs
// new credentials. Collapsing the two would let a caller retry forever
// against a real authorization failure.
type Outcome string

const (
	OutcomeAdmit Outcome = "admit"
	OutcomeWait  Outcome = "wait"
	OutcomeDeny  Outcome = "deny"
)

// Checks carries the role-specific facts the decision table consumes. The
// service gathers them; Decide stays pure.
type Checks struct {
	// IsController: the actor holds host/admin authority over the session.
	IsController bool
	// GuestLinkValid: the provided secret matched and has not expired.
	GuestLinkValid bool
	// HasMembership: the audience member holds an active subscription.
	HasMembership bool
	// IdentityKnown: the caller authenticated as a persistent identity.
	IdentityKnown bool
}

// Decision is the outcome plus, for denials, the specific coded error the
// caller must see.
type Decision struct {
	Outcome Outcome
	Deny    *dErrors.Error
}

func admit() Decision { return Decision{Outcome: OutcomeAdmit} }
func wait() Decision  { return Decision{Outcome: OutcomeWait} }

func deny(code dErrors.Code, msg string) Decision {
	return Decision{Outcome: OutcomeDeny, Deny: dErrors.New(code, msg)}
}

// Decide maps (role, session state, checks) to an admission outcome. Pure
// domain logic: no I/O, no side effects.
//
// Rule priority:
//  1. Unprovisioned room denies everyone: there is nothing to join, and
//     only an operator can fix it.
//  2. An authorized host is admitted in any state; hosts may privately test
//     the room before going live.
//  3. Guests and audience wait while the session is not live, regardless of
//     what their other checks would say. The guest secret authenticates
//     identity; it does not override timing.
//  4. Only once live do identity checks produce denials: an invalid or
//     expired guest link, a missing membership.
func Decide(sess models.LiveSession, role Role, checks Checks) Decision {
	if !sess.RoomProvisioned() {
		return deny(dErrors.CodeRoomUnavailable, "media room not provisioned")
	}

	switch role {
	case RoleHost:
		if !checks.IsController {
			return deny(dErrors.CodeForbidden, "actor is not a session controller")
		}
		return admit()

	case RoleGuest:
		if sess.Status != models.StatusLive {
			return wait()
		}
		if !checks.GuestLinkValid {
			return deny(dErrors.CodeGuestLinkInvalid, "guest link is invalid or expired")
		}
		return admit()

	case RoleAudience:
		if sess.Status != models.StatusLive {
			return wait()
		}
		if !checks.IdentityKnown {
			return deny(dErrors.CodeUnauthorized, "audience admission requires authentication")
		}
		if sess.Access == models.AccessMembers && !checks.HasMembership {
			return deny(dErrors.CodeMembershipRequired, "an active membership is required for this session")
		}
		return admit()
	}

	return deny(dErrors.CodeValidation, "unknown role")
}
