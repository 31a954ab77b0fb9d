package handler

import (
	"strings"

	"livegate/internal/admission"
	dErrors "livegate/pkg/domain-errors"
)

// AdmissionRequest is the HTTP request body for POST /sessions/{id}/admission.
type AdmissionRequest struct {
	Role        string `json:"role"`
	GuestSecret string `json:"guest_secret,omitempty"`

	// Parsed values (populated by Validate)
	parsedRole admission.Role
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *AdmissionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.Role = strings.TrimSpace(r.Role)
	if r.Role == "" {
		return dErrors.New(dErrors.CodeValidation, "role is required")
	}
	role, err := admission.ParseRole(r.Role)
	if err != nil {
		return err
	}
	r.parsedRole = role

	// A guest secret is meaningful only for guests; requiring the pairing
	// both ways keeps a mistyped role from silently skipping the link check.
	r.GuestSecret = strings.TrimSpace(r.GuestSecret)
	switch role {
	case admission.RoleGuest:
		if r.GuestSecret == "" {
			return dErrors.New(dErrors.CodeValidation, "guest_secret is required for guest admission")
		}
	default:
		if r.GuestSecret != "" {
			return dErrors.New(dErrors.CodeValidation, "guest_secret is only accepted for the guest role")
		}
	}

	return nil
}

// ParsedRole returns the validated role.
func (r *AdmissionRequest) ParsedRole() admission.Role {
	return r.parsedRole
}
