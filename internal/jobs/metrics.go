package jobmetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	statusSuccess = "success"
	statusFailure = "failure"
)

// Metrics holds the collectors shared by every background job.
type Metrics struct {
	runs        *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastSuccess *prometheus.GaugeVec
	violations  *prometheus.GaugeVec
}

// NewMetrics registers the job collectors on registerer, or on the default
// registerer when it is nil.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orderdesk_jobs_total",
			Help: "Job executions by job name and status.",
		}, []string{"job", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orderdesk_job_duration_seconds",
			Help:    "Job execution time in seconds.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"job"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "orderdesk_job_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run per job.",
		}, []string{"job"}),
		violations: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "orderdesk_integrity_violations",
			Help: "Violations found by the latest integrity scan, by kind.",
		}, []string{"kind"}),
	}
	registerer.MustRegister(m.runs, m.duration, m.lastSuccess, m.violations)
	return m
}

// Run times one job execution.
type Run struct {
	metrics *Metrics
	job     string
	started time.Time
}

// Start begins timing job. It is safe on a nil receiver.
func (m *Metrics) Start(job string) *Run {
	return &Run{metrics: m, job: job, started: time.Now()}
}

// Finish records the outcome of the run and passes err through.
func (r *Run) Finish(err error) error {
	if r == nil || r.metrics == nil {
		return err
	}
	status := statusSuccess
	if err != nil {
		status = statusFailure
	}
	finished := time.Now()
	r.metrics.runs.WithLabelValues(r.job, status).Inc()
	r.metrics.duration.WithLabelValues(r.job).Observe(finished.Sub(r.started).Seconds())
	if err == nil {
		r.metrics.lastSuccess.WithLabelValues(r.job).Set(float64(finished.Unix()))
	}
	return err
}

// SetViolations publishes the latest per-kind violation counts. Kinds with a
// zero count are set too so resolved problems clear.
func (m *Metrics) SetViolations(byKind map[string]int) {
	if m == nil {
		return
	}
	for kind, count := range byKind {
		m.violations.WithLabelValues(kind).Set(float64(count))
	}
}
