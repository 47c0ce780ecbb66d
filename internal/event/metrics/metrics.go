package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for Emissions.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics provides observability for event emission.
type Metrics struct {
	// Emissions by event name and outcome
	Emissions *prometheus.CounterVec

	// Handler failures by event name, counting every failing handler of an emit
	HandlerFailures *prometheus.CounterVec

	// Full emit latency including the join
	EmitLatency *prometheus.HistogramVec
}

// New creates the event metrics on reg. A nil reg builds unregistered
// collectors, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Emissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rrss_event_emissions_total",
			Help: "Total event emissions by event and outcome",
		}, []string{"event", "outcome"}),

		HandlerFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rrss_event_handler_failures_total",
			Help: "Total failed handler invocations by event",
		}, []string{"event"}),

		EmitLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rrss_event_emit_duration_seconds",
			Help:    "Duration of an emit from fan-out start until every handler returned",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"event"}),
	}
}

// IncrementEmission records one finished emit.
func (m *Metrics) IncrementEmission(event, outcome string) {
	if m != nil {
		m.Emissions.WithLabelValues(event, outcome).Inc()
	}
}

// IncrementHandlerFailure records one failed handler invocation.
func (m *Metrics) IncrementHandlerFailure(event string) {
	if m != nil {
		m.HandlerFailures.WithLabelValues(event).Inc()
	}
}

// ObserveEmitLatency records the duration of an emit.
func (m *Metrics) ObserveEmitLatency(event string, d time.Duration) {
	if m != nil {
		m.EmitLatency.WithLabelValues(event).Observe(d.Seconds())
	}
}
