package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the session lifecycle module.
type Metrics struct {
	// Status transitions by target state and result
	Transitions *prometheus.CounterVec

	// Sessions scheduled
	Scheduled prometheus.Counter

	// Guest links issued
	GuestLinks prometheus.Counter
}

// New creates a Metrics instance with all session module metrics registered.
func New() *Metrics {
	return &Metrics{
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "livegate_session_transitions_total",
			Help: "Total session status transitions by target state and result",
		}, []string{"to", "result"}), // result: "applied", "idempotent", "terminal", "denied"

		Scheduled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "livegate_sessions_scheduled_total",
			Help: "Total live sessions scheduled",
		}),

		GuestLinks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "livegate_guest_links_issued_total",
			Help: "Total guest links issued",
		}),
	}
}

// IncTransition records a transition attempt outcome.
func (m *Metrics) IncTransition(to, result string) {
	if m != nil {
		m.Transitions.WithLabelValues(to, result).Inc()
	}
}

// IncScheduled records a newly scheduled session.
func (m *Metrics) IncScheduled() {
	if m != nil {
		m.Scheduled.Inc()
	}
}

// IncGuestLink records a guest link issuance.
func (m *Metrics) IncGuestLink() {
	if m != nil {
		m.GuestLinks.Inc()
	}
}
