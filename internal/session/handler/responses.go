package handler

import (
	"time"

	"livegate/internal/attendance"
	"livegate/internal/session"
	"livegate/internal/session/models"
)

// SessionResponse is the HTTP representation of a session record. The guest
// secret hash never appears here; only issuance returns link material, and
// only once.
type SessionResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	HostID         string     `json:"host_id"`
	Status         string     `json:"status"`
	Access         string     `json:"access"`
	RoomRef        string     `json:"room_ref,omitempty"`
	ScheduledStart time.Time  `json:"scheduled_start"`
	ScheduledEnd   *time.Time `json:"scheduled_end,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// FromSession converts a session record to its HTTP representation.
func FromSession(sess models.LiveSession) *SessionResponse {
	return &SessionResponse{
		ID:             sess.ID.String(),
		Title:          sess.Title,
		HostID:         sess.HostID.String(),
		Status:         string(sess.Status),
		Access:         string(sess.Access),
		RoomRef:        sess.RoomRef,
		ScheduledStart: sess.ScheduledStart,
		ScheduledEnd:   sess.ScheduledEnd,
		StartedAt:      sess.StartedAt,
		EndedAt:        sess.EndedAt,
		CreatedAt:      sess.CreatedAt,
	}
}

// GuestLinkResponse is the HTTP response for guest link issuance. The secret
// is returned exactly once and never retrievable afterwards.
type GuestLinkResponse struct {
	GuestSecret string    `json:"guest_secret"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// FromGuestLink converts an issued guest link to its HTTP representation.
func FromGuestLink(link session.GuestLink) *GuestLinkResponse {
	return &GuestLinkResponse{
		GuestSecret: link.Secret,
		ExpiresAt:   link.ExpiresAt,
	}
}

// AttendanceEntry is one join record in the attendance listing.
type AttendanceEntry struct {
	UserID   *string   `json:"user_id,omitempty"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// AttendanceResponse is the HTTP response for the attendance listing.
type AttendanceResponse struct {
	SessionID string            `json:"session_id"`
	Records   []AttendanceEntry `json:"records"`
}

// FromAttendance converts attendance records to their HTTP representation.
func FromAttendance(sessionID string, records []attendance.Record) *AttendanceResponse {
	resp := &AttendanceResponse{
		SessionID: sessionID,
		Records:   make([]AttendanceEntry, 0, len(records)),
	}
	for _, rec := range records {
		entry := AttendanceEntry{
			Role:     rec.Role,
			JoinedAt: rec.JoinedAt,
		}
		if rec.UserID != nil {
			raw := rec.UserID.String()
			entry.UserID = &raw
		}
		resp.Records = append(resp.Records, entry)
	}
	return resp
}
