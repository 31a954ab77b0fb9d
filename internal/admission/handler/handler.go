package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"livegate/internal/admission"
	id "livegate/pkg/domain"
	dErrors "livegate/pkg/domain-errors"
	"livegate/pkg/platform/httputil"
	"livegate/pkg/requestcontext"
)

// Service defines the interface for admission operations.
type Service interface {
	RequestAdmission(ctx context.Context, req admission.Request) (*admission.Result, error)
}

// Handler wires the admission endpoint to the admission service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an admission handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the admission endpoint on the router. The route must run
// behind optional authentication: hosts and audience members arrive with a
// bearer token, guests arrive with nothing but their secret.
func (h *Handler) Register(r chi.Router) {
	r.Post("/sessions/{sessionID}/admission", h.HandleRequestAdmission)
}

// HandleRequestAdmission handles POST /sessions/{sessionID}/admission.
func (h *Handler) HandleRequestAdmission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	sessionID, err := id.ParseSessionID(chi.URLParam(r, "sessionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[AdmissionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	role := req.ParsedRole()
	identity := requestcontext.UserID(ctx)
	if role.Identified() && identity.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	result, err := h.service.RequestAdmission(ctx, admission.Request{
		SessionID:   sessionID,
		Role:        role,
		Identity:    identity,
		GuestSecret: req.GuestSecret,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "admission evaluated",
		"request_id", requestID,
		"session_id", sessionID,
		"role", role,
		"outcome", result.Outcome,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	status := http.StatusOK
	if result.Outcome == admission.OutcomeWait {
		status = http.StatusAccepted
		w.Header().Set("Retry-After", retryAfterSeconds(result.RetryAfter))
	}
	httputil.WriteJSON(w, status, FromResult(result))
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(d.Seconds())
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
