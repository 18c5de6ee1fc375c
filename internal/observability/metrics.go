package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes Prometheus collectors for the HTTP layer and pass builds.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	errors         *prometheus.CounterVec
	passBuilds     *prometheus.CounterVec
	passLatency    prometheus.Histogram
	avatarFetches  *prometheus.CounterVec
	rateLimited    prometheus.Counter
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"path", "method", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "onboard_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_http_errors_total",
			Help: "HTTP errors by route, method and error code.",
		}, []string{"path", "method", "code"}),
		passBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_wallet_pass_builds_total",
			Help: "Wallet pass builds by outcome.",
		}, []string{"outcome"}),
		passLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "onboard_wallet_pass_build_duration_seconds",
			Help:    "Time spent assembling and signing a pass.",
			Buckets: prometheus.DefBuckets,
		}),
		avatarFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_wallet_avatar_fetches_total",
			Help: "Avatar downloads by outcome (primary, fallback, failed).",
		}, []string{"outcome"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "onboard_wallet_rate_limited_total",
			Help: "Pass requests rejected by the per-member rate limit.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.requests,
		m.requestLatency,
		m.errors,
		m.passBuilds,
		m.passLatency,
		m.avatarFetches,
		m.rateLimited,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestLatency.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(path, method, code).Inc()
}

// RecordPassBuild records one pass build attempt.
func (m *Metrics) RecordPassBuild(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.passBuilds.WithLabelValues(outcome).Inc()
	m.passLatency.Observe(duration.Seconds())
}

// RecordAvatarFetch records one avatar download.
func (m *Metrics) RecordAvatarFetch(outcome string) {
	if m == nil {
		return
	}
	m.avatarFetches.WithLabelValues(outcome).Inc()
}

// RecordRateLimited counts a rejected pass request.
func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}
