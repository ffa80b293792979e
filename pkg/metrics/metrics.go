package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus collectors for the HTTP surface and the
// reconciliation jobs. Job counters are the primary health signal for the
// cron-invoked sweeps: a job that stops running stops incrementing.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	JobRunsTotal        *prometheus.CounterVec
	JobActionsTotal     *prometheus.CounterVec
}

func New(serviceName string) *Metrics {
	return NewWith(prometheus.DefaultRegisterer, serviceName)
}

// NewWith registers the collectors on the given registerer, so tests and
// secondary binaries can use their own registry.
func NewWith(reg prometheus.Registerer, serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests",
				ConstLabels: constLabels,
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "HTTP request duration in seconds",
				ConstLabels: constLabels,
				Buckets:     prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		JobRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "job_runs_total",
				Help:        "Total reconciliation job invocations",
				ConstLabels: constLabels,
			},
			[]string{"job", "outcome"},
		),
		JobActionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "job_actions_total",
				Help:        "Total records acted on by reconciliation jobs",
				ConstLabels: constLabels,
			},
			[]string{"job", "action"},
		),
	}
}

// RecordJobRun marks one job invocation with its outcome ("ok" or "error").
func (m *Metrics) RecordJobRun(job string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.JobRunsTotal.WithLabelValues(job, outcome).Inc()
}

// RecordJobActions counts records acted on, e.g. ("cancel_unpaid_bookings", "cancelled", 3).
func (m *Metrics) RecordJobActions(job, action string, n int) {
	if n > 0 {
		m.JobActionsTotal.WithLabelValues(job, action).Add(float64(n))
	}
}
