package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upstream call outcomes
const (
	OutcomeSuccess       = "success"
	OutcomeError         = "error"
	OutcomeNotConfigured = "not_configured"
)

// Metrics holds the application collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	upstreamCalls   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
}

// New creates and registers the collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served, by route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Calls to external catalogs, by provider and outcome.",
		}, []string{"provider", "outcome"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Latency of calls to external catalogs.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}, []string{"provider"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.upstreamCalls,
		m.upstreamLatency,
	)
	return m
}

// ObserveHTTP records one served request
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveUpstream records one call to an external catalog
func (m *Metrics) ObserveUpstream(provider, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.upstreamCalls.WithLabelValues(provider, outcome).Inc()
	m.upstreamLatency.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mostly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
