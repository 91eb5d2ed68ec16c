package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the report service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	jobRuns        *prometheus.CounterVec
	jobDuration    prometheus.Histogram
	externalErrors *prometheus.CounterVec
	daysSkipped    prometheus.Counter
	filesCleaned   prometheus.Counter
	emailsSent     *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		jobRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reports_job_runs_total",
				Help: "Daily report job runs by outcome status.",
			},
			[]string{"status"},
		),
		jobDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "reports_job_duration_seconds",
				Help:    "Duration of daily report job runs.",
				Buckets: prometheus.DefBuckets,
			},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reports_external_errors_total",
				Help: "Total errors from external collaborators.",
			},
			[]string{"service"},
		),
		daysSkipped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "reports_days_skipped_total",
				Help: "Days skipped during range aggregation after fetch failures.",
			},
		),
		filesCleaned: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "reports_files_cleaned_total",
				Help: "Report files removed by retention cleanup.",
			},
		),
		emailsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reports_emails_sent_total",
				Help: "Report emails delivered, by recipient kind.",
			},
			[]string{"recipient"},
		),
	}
}

// IncrJobRun counts one job run with its outcome status.
func (m *Metrics) IncrJobRun(status string) {
	m.jobRuns.WithLabelValues(status).Inc()
}

// ObserveJobDuration records how long a job run took.
func (m *Metrics) ObserveJobDuration(d time.Duration) {
	m.jobDuration.Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrDaySkipped counts one day dropped from a range.
func (m *Metrics) IncrDaySkipped() {
	m.daysSkipped.Inc()
}

// AddFilesCleaned counts files removed during a retention sweep.
func (m *Metrics) AddFilesCleaned(n int) {
	m.filesCleaned.Add(float64(n))
}

// IncrEmailSent counts one delivered email.
func (m *Metrics) IncrEmailSent(recipient string) {
	m.emailsSent.WithLabelValues(recipient).Inc()
}
