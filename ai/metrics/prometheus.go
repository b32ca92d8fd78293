// Package metrics provides Prometheus metrics export for the retrieval
// pipeline and its upstream services.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusExporter exports retrieval metrics in Prometheus format.
type PrometheusExporter struct {
	registry *prometheus.Registry

	// Retrieval metrics
	searches         *prometheus.CounterVec
	searchLatency    *prometheus.HistogramVec
	degenerateShorts prometheus.Counter

	// Upstream metrics
	upstreamErrors  *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec

	// Catalog metrics
	catalogSize prometheus.Gauge
}

// Config configures the Prometheus exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64
}

// DefaultConfig returns default Prometheus configuration.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}
}

// NewPrometheusExporter creates a new Prometheus metrics exporter.
func NewPrometheusExporter(cfg Config) *PrometheusExporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &PrometheusExporter{registry: registry}

	e.searches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobsense",
			Subsystem: "retrieval",
			Name:      "searches_total",
			Help:      "Retrieval pipeline invocations by operation and status",
		},
		[]string{"operation", "status"},
	)

	e.searchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jobsense",
			Subsystem: "retrieval",
			Name:      "search_latency_seconds",
			Help:      "End-to-end retrieval latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"operation"},
	)

	e.degenerateShorts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "jobsense",
			Subsystem: "retrieval",
			Name:      "degenerate_queries_total",
			Help:      "Queries short-circuited without touching any upstream",
		},
	)

	e.upstreamErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobsense",
			Subsystem: "upstream",
			Name:      "errors_total",
			Help:      "Upstream call failures by target",
		},
		[]string{"target"},
	)

	e.upstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jobsense",
			Subsystem: "upstream",
			Name:      "latency_seconds",
			Help:      "Upstream call latency in seconds by target",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"target"},
	)

	e.catalogSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "jobsense",
			Subsystem: "catalog",
			Name:      "jobs",
			Help:      "Number of job records loaded in the catalog",
		},
	)

	registry.MustRegister(
		e.searches,
		e.searchLatency,
		e.degenerateShorts,
		e.upstreamErrors,
		e.upstreamLatency,
		e.catalogSize,
	)

	return e
}

// RecordSearch records one retrieval pipeline invocation.
func (e *PrometheusExporter) RecordSearch(operation, status string, elapsed time.Duration) {
	e.searches.WithLabelValues(operation, status).Inc()
	e.searchLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// RecordDegenerateQuery records a query short-circuited before any upstream call.
func (e *PrometheusExporter) RecordDegenerateQuery() {
	e.degenerateShorts.Inc()
}

// RecordUpstream records one upstream call outcome.
func (e *PrometheusExporter) RecordUpstream(target string, elapsed time.Duration, err error) {
	e.upstreamLatency.WithLabelValues(target).Observe(elapsed.Seconds())
	if err != nil {
		e.upstreamErrors.WithLabelValues(target).Inc()
	}
}

// SetCatalogSize records the loaded catalog size.
func (e *PrometheusExporter) SetCatalogSize(n int) {
	e.catalogSize.Set(float64(n))
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (e *PrometheusExporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}
