// Package session owns the live-session record and its lifecycle. The
// Service here is the only mutation path for the status field; everything
// else reads.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"livegate/internal/session/metrics"
	"livegate/internal/session/models"
	"livegate/internal/session/store"
	id "livegate/pkg/domain"
	dErrors "livegate/pkg/domain-errors"
	"livegate/pkg/platform/sentinel"
	"livegate/pkg/requestcontext"
)

// AuthorizationPolicy answers whether an actor may control a session. Kept as
// an injected capability check so the lifecycle rules carry no hidden
// dependency on a specific identity provider.
type AuthorizationPolicy interface {
	IsSessionController(ctx context.Context, actor id.UserID, sessionID id.SessionID) (bool, error)
}

// StatusNotifier publishes session status changes so waiting rooms can wake
// up instead of polling blind. Best-effort: a failed publish never fails the
// transition, pollers still converge on the next interval.
type StatusNotifier interface {
	PublishStatus(ctx context.Context, sessionID id.SessionID, status models.Status) error
}

// ScheduleRequest carries the fields a host supplies when scheduling a
// broadcast.
type ScheduleRequest struct {
	Title          string
	HostID         id.UserID
	Access         models.AccessLevel
	RoomRef        string
	ScheduledStart time.Time
	ScheduledEnd   *time.Time
}

// Service drives the session state machine. Transitions are atomic and
// idempotent under race: concurrent Start calls all succeed, exactly one
// flips the status.
type Service struct {
	store    store.Store
	policy   AuthorizationPolicy
	notifier StatusNotifier
	logger   *slog.Logger
	metrics  *metrics.Metrics

	guestLinkTTL time.Duration
}

// Option configures the Service.
type Option func(*Service)

// WithNotifier attaches a status change notifier.
func WithNotifier(n StatusNotifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithMetrics attaches the session metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithGuestLinkTTL overrides the default guest link validity window.
func WithGuestLinkTTL(ttl time.Duration) Option {
	return func(s *Service) { s.guestLinkTTL = ttl }
}

// NewService constructs the session lifecycle service.
func NewService(st store.Store, policy AuthorizationPolicy, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:        st,
		policy:       policy,
		logger:       logger,
		guestLinkTTL: 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule creates a new session record in the scheduled state.
func (s *Service) Schedule(ctx context.Context, req ScheduleRequest) (models.LiveSession, error) {
	if !req.Access.Valid() {
		return models.LiveSession{}, dErrors.New(dErrors.CodeValidation, "invalid access level")
	}
	if req.HostID.IsNil() {
		return models.LiveSession{}, dErrors.New(dErrors.CodeValidation, "host is required")
	}

	now := requestcontext.Now(ctx)
	session := models.LiveSession{
		ID:             id.NewSessionID(),
		Title:          req.Title,
		HostID:         req.HostID,
		Status:         models.StatusScheduled,
		Access:         req.Access,
		RoomRef:        req.RoomRef,
		ScheduledStart: req.ScheduledStart,
		ScheduledEnd:   req.ScheduledEnd,
		CreatedAt:      now,
	}
	if err := s.store.Create(ctx, session); err != nil {
		return models.LiveSession{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create session")
	}

	s.metrics.IncScheduled()
	s.logger.InfoContext(ctx, "session scheduled",
		"session_id", session.ID,
		"host_id", session.HostID,
		"access", session.Access,
	)
	return session, nil
}

// Get fetches a session record.
func (s *Service) Get(ctx context.Context, sessionID id.SessionID) (models.LiveSession, error) {
	session, err := s.store.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.LiveSession{}, dErrors.New(dErrors.CodeNotFound, "session not found")
		}
		return models.LiveSession{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
	}
	return session, nil
}

// Start transitions scheduled -> live. Idempotent under race: if a concurrent
// Start already flipped the status, this call observes live and succeeds.
func (s *Service) Start(ctx context.Context, sessionID id.SessionID, actor id.UserID) error {
	return s.transition(ctx, sessionID, actor, models.StatusScheduled, models.StatusLive)
}

// End transitions the session to ended. Ending an already-ended session is a
// no-op success; ending a scheduled session cancels it without ever going
// live. Existing credentials stay valid until their own expiry; ending only
// refuses new admissions.
func (s *Service) End(ctx context.Context, sessionID id.SessionID, actor id.UserID) error {
	return s.transition(ctx, sessionID, actor, "", models.StatusEnded)
}

// transition runs the authority check, then applies the compare-and-set. An
// empty `from` means "from the current non-terminal state".
func (s *Service) transition(ctx context.Context, sessionID id.SessionID, actor id.UserID, from, to models.Status) error {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	allowed, err := s.policy.IsSessionController(ctx, actor, sessionID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "controller check failed")
	}
	if !allowed {
		s.metrics.IncTransition(string(to), "denied")
		return dErrors.New(dErrors.CodeForbidden, "actor is not a session controller")
	}

	guard := from
	if guard == "" {
		guard = session.Status
	}

	now := requestcontext.Now(ctx)
	for {
		switch {
		case session.Status == to:
			// Lost the race or repeated call; treat as success.
			s.metrics.IncTransition(string(to), "idempotent")
			return nil
		case !session.Status.CanTransitionTo(to):
			s.metrics.IncTransition(string(to), "terminal")
			return dErrors.New(dErrors.CodeTerminalState, "no transition out of "+string(session.Status))
		}

		err := s.store.TransitionStatus(ctx, sessionID, guard, to, now)
		if err == nil {
			s.metrics.IncTransition(string(to), "applied")
			s.logger.InfoContext(ctx, "session status changed",
				"session_id", sessionID,
				"from", guard,
				"to", to,
				"actor", actor,
			)
			s.notifyStatus(ctx, sessionID, to)
			return nil
		}
		if !errors.Is(err, sentinel.ErrConflict) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to transition session")
		}

		// Guard lost to a concurrent writer. Reload and re-evaluate: the
		// session may now already be in the target state (success) or in a
		// terminal state (error).
		if session, err = s.Get(ctx, sessionID); err != nil {
			return err
		}
		guard = session.Status
	}
}

func (s *Service) notifyStatus(ctx context.Context, sessionID id.SessionID, status models.Status) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishStatus(ctx, sessionID, status); err != nil {
		s.logger.WarnContext(ctx, "status notify failed",
			"session_id", sessionID,
			"status", status,
			"error", err,
		)
	}
}

// GuestLink is the one-time issuance result. Secret is shown to the host
// once; only its hash is stored.
type GuestLink struct {
	Secret    string
	ExpiresAt time.Time
}

// IssueGuestLink generates a fresh guest secret for the session, replacing
// any previous link. Controller authority required.
func (s *Service) IssueGuestLink(ctx context.Context, sessionID id.SessionID, actor id.UserID) (GuestLink, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return GuestLink{}, err
	}
	if session.Status == models.StatusEnded {
		return GuestLink{}, dErrors.New(dErrors.CodeTerminalState, "cannot invite a guest to an ended session")
	}

	allowed, err := s.policy.IsSessionController(ctx, actor, sessionID)
	if err != nil {
		return GuestLink{}, dErrors.Wrap(err, dErrors.CodeInternal, "controller check failed")
	}
	if !allowed {
		return GuestLink{}, dErrors.New(dErrors.CodeForbidden, "actor is not a session controller")
	}

	secret, err := newGuestSecret()
	if err != nil {
		return GuestLink{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate guest secret")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return GuestLink{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash guest secret")
	}

	expiry := requestcontext.Now(ctx).Add(s.guestLinkTTL)
	if err := s.store.SetGuestLink(ctx, sessionID, hash, expiry); err != nil {
		return GuestLink{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store guest link")
	}

	s.metrics.IncGuestLink()
	s.logger.InfoContext(ctx, "guest link issued",
		"session_id", sessionID,
		"expires_at", expiry,
	)
	return GuestLink{Secret: secret, ExpiresAt: expiry}, nil
}

// newGuestSecret returns an opaque 256-bit secret in hex. Hex keeps the link
// copy-pasteable in any URL without escaping.
func newGuestSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
