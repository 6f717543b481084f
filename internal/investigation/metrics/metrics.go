package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the investigation pipeline.
type Metrics struct {
	// Per-agent analysis latencies by domain
	AgentLatency *prometheus.HistogramVec

	// Agent failures recovered by the circuit breaker, by domain
	AgentFailures *prometheus.CounterVec

	// Agents marked unhealthy past the failure threshold, by domain
	BreakerTrips *prometheus.CounterVec

	// Verdict outcomes by status
	VerdictOutcome *prometheus.CounterVec

	// Full investigation latency including synthesis
	InvestigationLatency prometheus.Histogram
}

// New creates a Metrics instance with all investigation metrics registered.
func New() *Metrics {
	return &Metrics{
		AgentLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "argus_agent_duration_seconds",
			Help:    "Duration of domain agent analysis by domain",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"domain"}),

		AgentFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "argus_agent_failures_total",
			Help: "Total agent failures recovered by the circuit breaker",
		}, []string{"domain"}),

		BreakerTrips: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "argus_breaker_trips_total",
			Help: "Total agents marked unhealthy within an investigation",
		}, []string{"domain"}),

		VerdictOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "argus_verdict_outcomes_total",
			Help: "Total synthesized verdicts by terminal status",
		}, []string{"status"}),

		InvestigationLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "argus_investigation_duration_seconds",
			Help:    "Duration of full investigations including synthesis",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// ObserveAgentLatency records one agent's analysis duration.
func (m *Metrics) ObserveAgentLatency(domain string, d time.Duration) {
	if m != nil {
		m.AgentLatency.WithLabelValues(domain).Observe(d.Seconds())
	}
}

// IncAgentFailure records a recovered agent failure.
func (m *Metrics) IncAgentFailure(domain string) {
	if m != nil {
		m.AgentFailures.WithLabelValues(domain).Inc()
	}
}

// IncBreakerTrip records an agent crossing the unhealthy threshold.
func (m *Metrics) IncBreakerTrip(domain string) {
	if m != nil {
		m.BreakerTrips.WithLabelValues(domain).Inc()
	}
}

// IncVerdict records a verdict outcome.
func (m *Metrics) IncVerdict(status string) {
	if m != nil {
		m.VerdictOutcome.WithLabelValues(status).Inc()
	}
}

// ObserveInvestigationLatency records the total investigation duration.
func (m *Metrics) ObserveInvestigationLatency(d time.Duration) {
	if m != nil {
		m.InvestigationLatency.Observe(d.Seconds())
	}
}
