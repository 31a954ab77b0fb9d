package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the admission module.
type Metrics struct {
	// Admission outcomes by role and outcome
	Outcomes *prometheus.CounterVec

	// Denials by error code
	Denials *prometheus.CounterVec

	// Credential mint latency against the media provider
	MintLatency prometheus.Histogram

	// Overall admission evaluation latency
	EvaluateLatency prometheus.Histogram
}

// New creates a Metrics instance with all admission module metrics registered.
func New() *Metrics {
	return &Metrics{
		Outcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "livegate_admission_outcomes_total",
			Help: "Total admission outcomes by role and outcome",
		}, []string{"role", "outcome"}),

		Denials: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "livegate_admission_denials_total",
			Help: "Total admission denials by error code",
		}, []string{"code"}),

		MintLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "livegate_admission_mint_duration_seconds",
			Help:    "Duration of credential minting against the media provider",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "livegate_admission_evaluate_duration_seconds",
			Help:    "Duration of full admission evaluation including minting",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// IncOutcome records an admission outcome.
func (m *Metrics) IncOutcome(role, outcome string) {
	if m != nil {
		m.Outcomes.WithLabelValues(role, outcome).Inc()
	}
}

// IncDenial records a denial by code.
func (m *Metrics) IncDenial(code string) {
	if m != nil {
		m.Denials.WithLabelValues(code).Inc()
	}
}

// ObserveMintLatency records the duration of one provider mint call.
func (m *Metrics) ObserveMintLatency(d time.Duration) {
	if m != nil {
		m.MintLatency.Observe(d.Seconds())
	}
}

// ObserveEvaluateLatency records the total evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}
