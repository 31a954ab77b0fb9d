package admission

import dErrors "livegate/pkg/domain-errors"

// Role is the closed set of admission roles. Capability derivation switches
// exhaustively over these values; an unknown role never reaches the minter
// because ParseRole is the only way in from the outside.
type Role string

const (
	RoleHost     Role = "host"
	RoleGuest    Role = "guest"
	RoleAudience Role = "audience"
)

// ParseRole validates an externally supplied role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleHost, RoleGuest, RoleAudience:
		return Role(s), nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "unknown role: "+s)
}

// Identified reports whether the role joins with a persistent identity.
// Guests hold only their link; hosts and audience authenticate.
func (r Role) Identified() bool {
	return r == RoleHost || r == RoleAudience
}
