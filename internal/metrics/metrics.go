// Package metrics records per-run counters for shelfwatch and optionally
// pushes them to a Prometheus Pushgateway at the end of the run.
package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "shelfwatch"

// Check results.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Recorder holds the run metrics on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	checks        *prometheus.CounterVec
	transitions   *prometheus.CounterVec
	notifyFailure *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	lastSuccess   prometheus.Gauge
}

// New registers the shelfwatch collectors on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Catalogue checks by result.",
		}, []string{"result"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Stored status changes by new status.",
		}, []string{"to"}),
		notifyFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifier_failures_total",
			Help:      "Failed notification deliveries by notifier.",
		}, []string{"notifier"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of catalogue service requests.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run that saved its state.",
		}),
	}
	r.registry.MustRegister(r.checks, r.transitions, r.notifyFailure, r.fetchDuration, r.lastSuccess)
	return r
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Check counts one catalogue check.
func (r *Recorder) Check(err error) {
	if r == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	r.checks.WithLabelValues(result).Inc()
}

// Transition counts a stored status change into the named status.
func (r *Recorder) Transition(to string) {
	if r == nil {
		return
	}
	r.transitions.WithLabelValues(to).Inc()
}

// NotifierFailed counts one failed delivery.
func (r *Recorder) NotifierFailed(notifier string) {
	if r == nil {
		return
	}
	r.notifyFailure.WithLabelValues(notifier).Inc()
}

// ObserveFetch records how long one service request took.
func (r *Recorder) ObserveFetch(operation string, d time.Duration) {
	if r == nil {
		return
	}
	r.fetchDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// Succeeded stamps the last successful run.
func (r *Recorder) Succeeded(at time.Time) {
	if r == nil {
		return
	}
	r.lastSuccess.Set(float64(at.Unix()))
}

// Push sends every collector to the Pushgateway at url under job. An empty url
// is a no-op.
func (r *Recorder) Push(ctx context.Context, url, job string) error {
	if r == nil || strings.TrimSpace(url) == "" {
		return nil
	}
	if strings.TrimSpace(job) == "" {
		job = namespace
	}
	if err := push.New(url, job).Gatherer(r.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
