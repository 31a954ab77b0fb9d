// Package admission decides who may enter a live session, when, and with
// what capabilities, and issues the join credential when the answer is yes.
// The decision table itself lives in Decide; this service gathers the facts
// it needs and acts on the outcome.
package admission

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"livegate/internal/admission/metrics"
	"livegate/internal/admission/ports"
	"livegate/internal/attendance"
	"livegate/internal/session/models"
	id "livegate/pkg/domain"
	dErrors "livegate/pkg/domain-errors"
	"livegate/pkg/platform/sentinel"
	"livegate/pkg/requestcontext"
)

// checksTimeout bounds the parallel fact gathering; membership and policy
// lookups hitting slow stores must not hold an admission request hostage.
const checksTimeout = 3 * time.Second

// SessionReader is the slice of the session store the admission service
// reads. It never writes sessions; the status field belongs to the session
// controller alone.
type SessionReader interface {
	FindByID(ctx context.Context, sessionID id.SessionID) (models.LiveSession, error)
}

// Request is one admission attempt. Ephemeral: never persisted.
type Request struct {
	SessionID   id.SessionID
	Role        Role
	Identity    id.UserID // zero for guests
	GuestSecret string    // set only when Role == RoleGuest
}

// Result is a non-error admission outcome: either a credential or an
// instruction to wait. Denials are returned as coded errors.
type Result struct {
	Outcome    Outcome
	Status     models.Status
	Credential *Credential
	RetryAfter time.Duration
}

// Service evaluates admission requests. Stateless and safe for unlimited
// parallel invocation: the only shared mutable state it touches is the
// append-only attendance log.
type Service struct {
	sessions   SessionReader
	policy     ports.AuthorizationPolicy
	membership ports.MembershipGate
	minter     *Minter
	attendance ports.AttendanceRecorder
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	pollHint   time.Duration
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics attaches the admission metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithPollHint overrides the retry interval suggested to waiting callers.
func WithPollHint(d time.Duration) Option {
	return func(s *Service) { s.pollHint = d }
}

// NewService constructs the admission service.
func NewService(
	sessions SessionReader,
	policy ports.AuthorizationPolicy,
	membership ports.MembershipGate,
	minter *Minter,
	recorder ports.AttendanceRecorder,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		sessions:   sessions,
		policy:     policy,
		membership: membership,
		minter:     minter,
		attendance: recorder,
		logger:     logger,
		tracer:     otel.Tracer("livegate/admission"),
		pollHint:   5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestAdmission runs the decision table for one request and, on Admit,
// mints the credential and records attendance. Wait is returned in the
// Result, not as an error; denials and operational failures are coded
// errors.
func (s *Service) RequestAdmission(ctx context.Context, req Request) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "admission.RequestAdmission",
		trace.WithAttributes(
			attribute.String("session.id", req.SessionID.String()),
			attribute.String("admission.role", string(req.Role)),
		),
	)
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.ObserveEvaluateLatency(time.Since(start)) }()

	sess, checks, err := s.gatherChecks(ctx, req)
	if err != nil {
		return nil, err
	}

	decision := Decide(sess, req.Role, checks)
	span.SetAttributes(attribute.String("admission.outcome", string(decision.Outcome)))
	s.metrics.IncOutcome(string(req.Role), string(decision.Outcome))

	switch decision.Outcome {
	case OutcomeWait:
		// Expected, recoverable: the caller polls or subscribes for the
		// transition. No side effects on repeated polls.
		return &Result{
			Outcome:    OutcomeWait,
			Status:     sess.Status,
			RetryAfter: s.pollHint,
		}, nil

	case OutcomeDeny:
		s.metrics.IncDenial(string(decision.Deny.Code))
		s.logger.InfoContext(ctx, "admission denied",
			"request_id", requestcontext.RequestID(ctx),
			"session_id", req.SessionID,
			"role", req.Role,
			"code", decision.Deny.Code,
		)
		return nil, decision.Deny
	}

	cred, err := s.admit(ctx, sess, req)
	if err != nil {
		return nil, err
	}
	return &Result{
		Outcome:    OutcomeAdmit,
		Status:     sess.Status,
		Credential: cred,
	}, nil
}

// gatherChecks loads the session and the role-specific facts in parallel,
// with shared cancellation on first failure. The guest link check is pure
// CPU and runs after the session arrives.
func (s *Service) gatherChecks(ctx context.Context, req Request) (models.LiveSession, Checks, error) {
	gctx, cancel := context.WithTimeout(ctx, checksTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(gctx)

	var (
		sess   models.LiveSession
		checks Checks
	)
	checks.IdentityKnown = !req.Identity.IsNil()

	g.Go(func() error {
		found, err := s.sessions.FindByID(gctx, req.SessionID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "session not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
		}
		sess = found
		return nil
	})

	if req.Role == RoleHost {
		g.Go(func() error {
			ok, err := s.policy.IsSessionController(gctx, req.Identity, req.SessionID)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "controller check failed")
			}
			checks.IsController = ok
			return nil
		})
	}

	if req.Role == RoleAudience && checks.IdentityKnown {
		g.Go(func() error {
			ok, err := s.membership.HasActiveSubscription(gctx, req.Identity)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "membership check failed")
			}
			checks.HasMembership = ok
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return models.LiveSession{}, Checks{}, err
	}

	if req.Role == RoleGuest {
		checks.GuestLinkValid = ValidateGuestLink(sess, req.GuestSecret, requestcontext.Now(ctx))
	}
	return sess, checks, nil
}

// admit mints the credential and, only after the mint succeeds, appends the
// attendance record. A provider failure leaves no partial state behind.
func (s *Service) admit(ctx context.Context, sess models.LiveSession, req Request) (*Credential, error) {
	mintCtx, span := s.tracer.Start(ctx, "admission.mint")
	mintStart := time.Now()
	cred, err := s.minter.Mint(mintCtx, sess, req.Role, req.Identity, requestcontext.Now(ctx))
	s.metrics.ObserveMintLatency(time.Since(mintStart))
	span.End()
	if err != nil {
		s.logger.ErrorContext(ctx, "credential mint failed",
			"request_id", requestcontext.RequestID(ctx),
			"session_id", req.SessionID,
			"role", req.Role,
			"error", err,
		)
		return nil, err
	}

	record := attendance.Record{
		SessionID: req.SessionID,
		Role:      string(req.Role),
		JoinedAt:  requestcontext.Now(ctx),
	}
	if req.Role.Identified() {
		identity := req.Identity
		record.UserID = &identity
	}
	if err := s.attendance.RecordJoin(ctx, record); err != nil {
		// The credential is already minted and valid; losing the log entry
		// is an auditing gap, not a reason to refuse entry.
		s.logger.ErrorContext(ctx, "attendance record failed",
			"request_id", requestcontext.RequestID(ctx),
			"session_id", req.SessionID,
			"role", req.Role,
			"error", err,
		)
	}

	s.logger.InfoContext(ctx, "admission granted",
		"request_id", requestcontext.RequestID(ctx),
		"session_id", req.SessionID,
		"role", req.Role,
		"expires_at", cred.ExpiresAt,
	)
	return &cred, nil
}
