// Package metric provides Prometheus metrics for the SemValid service.
package metric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains all service-level metrics.
type Metrics struct {
	// Validation pipeline metrics
	ValidationsTotal   *prometheus.CounterVec
	ValidationDuration *prometheus.HistogramVec

	// Fetch metrics
	FetchesTotal  *prometheus.CounterVec
	FetchDuration prometheus.Histogram

	// HTTP surface metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics creates a Metrics instance with all collectors registered on a
// fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ValidationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "semvalid",
				Subsystem: "pipeline",
				Name:      "validations_total",
				Help:      "Total number of validation runs by outcome",
			},
			[]string{"outcome"}, // conformant, nonconformant, fetch_error, format_error, profile_missing, artifact_missing, engine_failure
		),

		ValidationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "semvalid",
				Subsystem: "pipeline",
				Name:      "stage_duration_seconds",
				Help:      "Validation stage duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"}, // fetch_resource, resolve_artifact, fetch_artifact, load_shapes, load_data
		),

		FetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "semvalid",
				Subsystem: "fetcher",
				Name:      "fetches_total",
				Help:      "Total number of resource retrievals by status",
			},
			[]string{"status"}, // ok, error
		),

		FetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "semvalid",
				Subsystem: "fetcher",
				Name:      "fetch_duration_seconds",
				Help:      "Resource retrieval duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "semvalid",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests by status code",
			},
			[]string{"code"},
		),

		RequestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "semvalid",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),

		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.ValidationsTotal,
		m.ValidationDuration,
		m.FetchesTotal,
		m.FetchDuration,
		m.RequestsTotal,
		m.RequestDuration,
	)
	return m
}

// Handler returns the HTTP handler serving this registry in the Prometheus
// exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveStage records one validation stage duration.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.ValidationDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// CountValidation records one finished validation run.
func (m *Metrics) CountValidation(outcome string) {
	m.ValidationsTotal.WithLabelValues(outcome).Inc()
}

// ObserveFetch records one finished retrieval with its status and duration.
func (m *Metrics) ObserveFetch(status string, d time.Duration) {
	m.FetchesTotal.WithLabelValues(status).Inc()
	m.FetchDuration.Observe(d.Seconds())
}
