// Package metrics exposes Prometheus collectors for token checks.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/notlelouch/go-interview-practice/Token-Safety-Check/internal/models"
)

const namespace = "token_check"

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

type Metrics struct {
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	verdicts         *prometheus.CounterVec
	flags            *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Upstream provider requests by outcome.",
		}, []string{"provider", "outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      "Upstream provider request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdicts_total",
			Help:      "Completed checks by recommendation.",
		}, []string{"recommendation"}),
		flags: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flags_total",
			Help:      "Risk flags raised across all checks.",
		}, []string{"flag"}),
	}

	reg.MustRegister(m.upstreamRequests, m.upstreamDuration, m.verdicts, m.flags)
	return m
}

// ObserveUpstream records one provider call.
func (m *Metrics) ObserveUpstream(provider string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.upstreamRequests.WithLabelValues(provider, outcome).Inc()
	m.upstreamDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObserveVerdict records the outcome of one check.
func (m *Metrics) ObserveVerdict(verdict models.SafetyVerdict, flags models.FlagSet) {
	if m == nil {
		return
	}
	m.verdicts.WithLabelValues(string(verdict.Recommendation)).Inc()
	for _, f := range flags.Flags() {
		m.flags.WithLabelValues(f.String()).Inc()
	}
}
