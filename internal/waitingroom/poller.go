// Package waitingroom re-issues an admission request until the outcome
// leaves Wait. It is the client-side half of the waiting room: the server
// answers 202 with a retry hint, this poller turns that into a single
// blocking call that resolves to a credential or a denial.
package waitingroom

import (
	"context"
	"log/slog"
	"time"

	"livegate/internal/admission"
	"livegate/internal/session/models"
	id "livegate/pkg/domain"
	dErrors "livegate/pkg/domain-errors"
)

// AdmissionService evaluates one admission request. Repeated Wait outcomes
// have no side effects, which is what makes re-requesting safe.
type AdmissionService interface {
	RequestAdmission(ctx context.Context, req admission.Request) (*admission.Result, error)
}

// Waker delivers pushed status changes so waiters re-request immediately
// instead of sleeping out the interval. The subscription is advisory:
// delivery may lag or drop, so the poller always keeps its ticker.
type Waker interface {
	SubscribeStatus(ctx context.Context, sessionID id.SessionID) (<-chan models.Status, func(), error)
}

// Poller drives a waiting admission request to completion.
type Poller struct {
	admissions AdmissionService
	waker      Waker
	interval   time.Duration
	logger     *slog.Logger
}

// Option configures the Poller.
type Option func(*Poller)

// WithWaker enables push notifications alongside the ticker.
func WithWaker(w Waker) Option {
	return func(p *Poller) { p.waker = w }
}

// WithInterval overrides the default polling interval. The server's
// RetryAfter hint, when present, takes precedence.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) { p.interval = d }
}

// New constructs a poller over the given admission service.
func New(admissions AdmissionService, logger *slog.Logger, opts ...Option) *Poller {
	p := &Poller{
		admissions: admissions,
		interval:   5 * time.Second,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Wait re-issues req until the outcome is no longer Wait, then returns that
// final result exactly once. The request that observes the live session is
// the one that mints the credential; there is no separate confirmation call.
// Denials and operational failures stop the poll and surface as errors
// (retryable provider errors included; retrying them is the caller's call,
// not a reason to keep waiting). Context cancellation stops the timer and
// all further requests, returning a coded timeout.
func (p *Poller) Wait(ctx context.Context, req admission.Request) (*admission.Result, error) {
	var wake <-chan models.Status
	if p.waker != nil {
		ch, cancel, err := p.waker.SubscribeStatus(ctx, req.SessionID)
		if err != nil {
			p.logger.WarnContext(ctx, "status subscription unavailable, falling back to polling",
				"session_id", req.SessionID,
				"error", err,
			)
		} else {
			wake = ch
			defer cancel()
		}
	}

	result, err := p.admissions.RequestAdmission(ctx, req)
	if err != nil || result.Outcome != admission.OutcomeWait {
		return result, err
	}

	interval := p.interval
	if result.RetryAfter > 0 {
		interval = result.RetryAfter
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "admission wait interrupted")

		case pushed, ok := <-wake:
			if !ok {
				wake = nil
				continue
			}
			// A pushed scheduled status cannot end the wait; anything else
			// is worth confirming with a real request.
			if pushed == models.StatusScheduled {
				continue
			}

		case <-ticker.C:
		}

		result, err = p.admissions.RequestAdmission(ctx, req)
		if err != nil || result.Outcome != admission.OutcomeWait {
			return result, err
		}
	}
}
