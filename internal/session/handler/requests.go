package handler

import (
	"strings"
	"time"

	"livegate/internal/session/models"
	dErrors "livegate/pkg/domain-errors"
)

const maxTitleLength = 200

// ScheduleRequest is the HTTP request body for POST /sessions.
type ScheduleRequest struct {
	Title          string     `json:"title"`
	Access         string     `json:"access"`
	RoomRef        string     `json:"room_ref,omitempty"`
	ScheduledStart time.Time  `json:"scheduled_start"`
	ScheduledEnd   *time.Time `json:"scheduled_end,omitempty"`

	// Parsed values (populated by Validate)
	parsedAccess models.AccessLevel
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *ScheduleRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if len(r.Title) > maxTitleLength {
		return dErrors.New(dErrors.CodeValidation, "title must be at most 200 characters")
	}

	access := models.AccessLevel(strings.TrimSpace(r.Access))
	if access == "" {
		access = models.AccessPublic
	}
	if !access.Valid() {
		return dErrors.New(dErrors.CodeValidation, "access must be public or members")
	}
	r.parsedAccess = access

	if r.ScheduledStart.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "scheduled_start is required")
	}
	if r.ScheduledEnd != nil && !r.ScheduledEnd.After(r.ScheduledStart) {
		return dErrors.New(dErrors.CodeValidation, "scheduled_end must be after scheduled_start")
	}

	r.RoomRef = strings.TrimSpace(r.RoomRef)
	return nil
}

// ParsedAccess returns the validated access level.
func (r *ScheduleRequest) ParsedAccess() models.AccessLevel {
	return r.parsedAccess
}
