package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SubmissionMetrics records transaction submission outcomes per strategy.
type SubmissionMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	retries  *prometheus.CounterVec
}

// NewSubmissionMetrics registers submission metrics on the provided registerer.
func NewSubmissionMetrics(reg prometheus.Registerer) *SubmissionMetrics {
	if reg == nil {
		return &SubmissionMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tx_submission_duration_seconds",
		Help:    "Duration of ledger transaction submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"strategy", "operation"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tx_submission_success",
		Help: "Successful ledger transaction submissions.",
	}, []string{"strategy", "operation"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tx_submission_failure",
		Help: "Failed ledger transaction submissions.",
	}, []string{"strategy", "operation"})
	retries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tx_visibility_retries",
		Help: "Retries spent waiting for a submitted transaction to become visible.",
	}, []string{"strategy"})
	reg.MustRegister(duration, success, failure, retries)
	return &SubmissionMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		retries:  retries,
	}
}

// ObserveDuration records the submission duration for the strategy/operation pair.
func (m *SubmissionMetrics) ObserveDuration(strategy, operation string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(strategy), normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter.
func (m *SubmissionMetrics) IncSuccess(strategy, operation string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(strategy), normalizeLabel(operation)).Inc()
}

// IncFailure increments the failure counter.
func (m *SubmissionMetrics) IncFailure(strategy, operation string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(strategy), normalizeLabel(operation)).Inc()
}

// IncRetry counts one visibility-poll retry.
func (m *SubmissionMetrics) IncRetry(strategy string) {
	if m == nil || m.retries == nil {
		return
	}
	m.retries.WithLabelValues(normalizeLabel(strategy)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
