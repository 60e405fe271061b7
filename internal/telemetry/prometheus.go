package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "metric_tracker"

// Metrics holds the prometheus collectors exported by the server
type Metrics struct {
	registry *prometheus.Registry

	// HTTPRequests counts requests by method, route template and status code
	HTTPRequests *prometheus.CounterVec
	// HTTPDuration observes request latency by method and route template
	HTTPDuration *prometheus.HistogramVec
	// Operations counts tracker operations by operation and outcome
	Operations *prometheus.CounterVec
	// AuditProblems holds the invalid and missing counts from the last scheduled audit
	AuditProblems *prometheus.GaugeVec
}

// NewMetrics creates a private registry with the process, runtime and application collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "operations_total",
			Help:      "Metric service operations by operation and outcome",
		}, []string{"operation", "outcome"}),
		AuditProblems: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "audit_problems",
			Help:      "Stored metrics found invalid or missing by the last audit",
		}, []string{"kind"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.Operations,
		m.AuditProblems,
	)
	return m
}

// Registry exposes the underlying registry for additional collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.InstrumentMetricHandler(m.registry,
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true}),
	)
}
