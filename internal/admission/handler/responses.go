package handler

import (
	"time"

	"livegate/internal/admission"
)

// CredentialResponse is the HTTP response for an admitted request.
type CredentialResponse struct {
	Outcome    string                 `json:"outcome"`
	RoomRef    string                 `json:"room_ref"`
	Role       string                 `json:"role"`
	Token      string                 `json:"token"`
	Caps       admission.Capabilities `json:"capabilities"`
	ExpiresAt  time.Time              `json:"expires_at"`
	SessionSts string                 `json:"session_status"`
}

// WaitResponse is the HTTP response for a request told to wait.
type WaitResponse struct {
	Outcome        string `json:"outcome"`
	SessionSts     string `json:"session_status"`
	RetryAfterSecs int    `json:"retry_after_seconds"`
}

// FromResult converts an admission result to its HTTP representation.
// The caller picks the status code; this picks the body shape.
func FromResult(result *admission.Result) any {
	if result.Outcome == admission.OutcomeWait {
		return &WaitResponse{
			Outcome:        string(result.Outcome),
			SessionSts:     string(result.Status),
			RetryAfterSecs: int(result.RetryAfter.Seconds()),
		}
	}
	cred := result.Credential
	return &CredentialResponse{
		Outcome:    string(result.Outcome),
		RoomRef:    cred.RoomRef,
		Role:       string(cred.Role),
		Token:      cred.Token,
		Caps:       cred.Capabilities,
		ExpiresAt:  cred.ExpiresAt,
		SessionSts: string(result.Status),
	}
}
