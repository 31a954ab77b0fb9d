package admission

import (
	"time"

	dErrors "livegate/pkg/domain-errors"
)

// Capabilities is the scope of a join credential. Built strictly from the
// role, never from caller-supplied flags.
type Capabilities struct {
	IsOwner           bool `json:"is_owner"`
	CanBroadcastVideo bool `json:"can_broadcast_video"`
	CanBroadcastAudio bool `json:"can_broadcast_audio"`
	CanScreenShare    bool `json:"can_screen_share"`

	// CanSeeRoster is true only for the host: a guest presenter is seen and
	// heard by the audience but must never learn how many people are
	// watching.
	CanSeeRoster bool `json:"can_see_roster"`
}

// Credential is a short-lived, capability-scoped join token for the media
// room. It is returned to the caller and never persisted.
type Credential struct {
	RoomRef      string       `json:"room_ref"`
	Role         Role         `json:"role"`
	Token        string       `json:"token"`
	Capabilities Capabilities `json:"capabilities"`
	ExpiresAt    time.Time    `json:"expires_at"`
}

// DeriveCapabilities maps a role to its capability set. The switch is
// exhaustive over the closed role set; anything else is a programming error
// surfaced as internal.
func DeriveCapabilities(role Role) (Capabilities, error) {
	switch role {
	case RoleHost:
		return Capabilities{
			IsOwner:           true,
			CanBroadcastVideo: true,
			CanBroadcastAudio: true,
			CanScreenShare:    true,
			CanSeeRoster:      true,
		}, nil
	case RoleGuest:
		return Capabilities{
			CanBroadcastVideo: true,
			CanBroadcastAudio: true,
			CanScreenShare:    true,
		}, nil
	case RoleAudience:
		// Receive-only: camera and mic stay off.
		return Capabilities{}, nil
	}
	return Capabilities{}, dErrors.New(dErrors.CodeInternal, "capability derivation for unknown role")
}
