package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"livegate/internal/attendance"
	"livegate/internal/session"
	"livegate/internal/session/models"
	id "livegate/pkg/domain"
	dErrors "livegate/pkg/domain-errors"
	"livegate/pkg/platform/httputil"
	"livegate/pkg/requestcontext"
)

// Service defines the interface for session lifecycle operations.
type Service interface {
	Schedule(ctx context.Context, req session.ScheduleRequest) (models.LiveSession, error)
	Get(ctx context.Context, sessionID id.SessionID) (models.LiveSession, error)
	Start(ctx context.Context, sessionID id.SessionID, actor id.UserID) error
	End(ctx context.Context, sessionID id.SessionID, actor id.UserID) error
	IssueGuestLink(ctx context.Context, sessionID id.SessionID, actor id.UserID) (session.GuestLink, error)
}

// AttendanceLister reads the join log for a session.
type AttendanceLister interface {
	ListBySession(ctx context.Context, sessionID id.SessionID) ([]attendance.Record, error)
}

// AuthorizationPolicy gates controller-only reads like the attendance log.
type AuthorizationPolicy interface {
	IsSessionController(ctx context.Context, actor id.UserID, sessionID id.SessionID) (bool, error)
}

// Handler wires session lifecycle endpoints to the session service. All
// routes here require an authenticated caller; guests have no business on
// the lifecycle API.
type Handler struct {
	service    Service
	attendance AttendanceLister
	policy     AuthorizationPolicy
	logger     *slog.Logger
}

// New constructs a session handler with its dependencies.
func New(service Service, lister AttendanceLister, policy AuthorizationPolicy, logger *slog.Logger) *Handler {
	return &Handler{
		service:    service,
		attendance: lister,
		policy:     policy,
		logger:     logger,
	}
}

// Register mounts session endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/sessions", h.HandleSchedule)
	r.Get("/sessions/{sessionID}", h.HandleGet)
	r.Post("/sessions/{sessionID}/start", h.HandleStart)
	r.Post("/sessions/{sessionID}/end", h.HandleEnd)
	r.Post("/sessions/{sessionID}/guest-link", h.HandleIssueGuestLink)
	r.Get("/sessions/{sessionID}/attendance", h.HandleListAttendance)
}

// HandleSchedule handles POST /sessions requests. The caller becomes the
// session's host.
func (h *Handler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[ScheduleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sess, err := h.service.Schedule(ctx, session.ScheduleRequest{
		Title:          req.Title,
		HostID:         userID,
		Access:         req.ParsedAccess(),
		RoomRef:        req.RoomRef,
		ScheduledStart: req.ScheduledStart,
		ScheduledEnd:   req.ScheduledEnd,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "session scheduling failed",
			"request_id", requestID,
			"host_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromSession(sess))
}

// HandleGet handles GET /sessions/{sessionID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, ok := h.sessionIDParam(w, r)
	if !ok {
		return
	}
	sess, err := h.service.Get(ctx, sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSession(sess))
}

// HandleStart handles POST /sessions/{sessionID}/start requests.
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, "start", h.service.Start)
}

// HandleEnd handles POST /sessions/{sessionID}/end requests.
func (h *Handler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, "end", h.service.End)
}

func (h *Handler) handleTransition(
	w http.ResponseWriter,
	r *http.Request,
	op string,
	apply func(ctx context.Context, sessionID id.SessionID, actor id.UserID) error,
) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}
	sessionID, ok := h.sessionIDParam(w, r)
	if !ok {
		return
	}

	if err := apply(ctx, sessionID, userID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	sess, err := h.service.Get(ctx, sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "session transition applied",
		"request_id", requestID,
		"session_id", sessionID,
		"operation", op,
		"status", sess.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromSession(sess))
}

// HandleIssueGuestLink handles POST /sessions/{sessionID}/guest-link requests.
func (h *Handler) HandleIssueGuestLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}
	sessionID, ok := h.sessionIDParam(w, r)
	if !ok {
		return
	}

	link, err := h.service.IssueGuestLink(ctx, sessionID, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "guest link issuance refused",
			"request_id", requestID,
			"session_id", sessionID,
			"actor", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromGuestLink(link))
}

// HandleListAttendance handles GET /sessions/{sessionID}/attendance requests.
// Controller only: the join log is host-facing data.
func (h *Handler) HandleListAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}
	sessionID, ok := h.sessionIDParam(w, r)
	if !ok {
		return
	}

	// A 404 for unknown sessions before the authority check keeps the two
	// failure modes distinguishable.
	if _, err := h.service.Get(ctx, sessionID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	allowed, err := h.policy.IsSessionController(ctx, userID, sessionID)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "controller check failed"))
		return
	}
	if !allowed {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "actor is not a session controller"))
		return
	}

	records, err := h.attendance.ListBySession(ctx, sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromAttendance(sessionID.String(), records))
}

func (h *Handler) requireUser(w http.ResponseWriter, ctx context.Context) (id.UserID, bool) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.UserID{}, false
	}
	return userID, true
}

func (h *Handler) sessionIDParam(w http.ResponseWriter, r *http.Request) (id.SessionID, bool) {
	sessionID, err := id.ParseSessionID(chi.URLParam(r, "sessionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.SessionID{}, false
	}
	return sessionID, true
}
