package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wallie"

// Metrics implements every hook interface on top of a private Prometheus
// registry. Each Metrics owns its registry, so tests can build as many as
// they like without duplicate registration panics.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec

	leadsAccepted *prometheus.CounterVec
	leadsRejected *prometheus.CounterVec
	rateLimited   prometheus.Counter
	relayDuration *prometheus.HistogramVec

	upstream      *prometheus.CounterVec
	upstreamError *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them, together with the
// Go runtime and process collectors, on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Requests served, by route and status code.",
		}, []string{"method", "route", "code"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Time to serve a request.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~2s
		}, []string{"method", "route"}),

		cacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Cache hits by key type.",
		}, []string{"type"}),
		cacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Cache misses by key type.",
		}, []string{"type"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache by key type.",
		}, []string{"type"}),

		leadsAccepted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "leads",
			Name:      "accepted_total",
			Help:      "Leads accepted, by locale.",
		}, []string{"locale"}),
		leadsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "leads",
			Name:      "rejected_total",
			Help:      "Lead submissions refused by validation, by field and reason.",
		}, []string{"field", "reason"}),
		rateLimited: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "leads",
			Name:      "rate_limited_total",
			Help:      "Lead submissions refused by the rate limiter.",
		}),
		relayDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "leads",
			Name:      "relay_duration_seconds",
			Help:      "Time to forward a lead to the form backend, including retries.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~5s
		}, []string{"outcome"}),

		upstream: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "responses_total",
			Help:      "Responses from upstream services, by host and status code.",
		}, []string{"host", "code"}),
		upstreamError: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "errors_total",
			Help:      "Failed upstream requests (network errors, timeouts), by host.",
		}, []string{"host"}),
	}
}

// Register installs m as the global server, cache, lead and HTTP hooks.
func (m *Metrics) Register() {
	SetServerHooks(m)
	SetCacheHooks(m)
	SetLeadHooks(m)
	SetHTTPHooks(m)
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) OnServed(_ context.Context, method, route string, statusCode int, duration time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheHits.WithLabelValues(keyType).Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheMisses.WithLabelValues(keyType).Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnLeadAccepted(_ context.Context, locale string) {
	m.leadsAccepted.WithLabelValues(locale).Inc()
}

func (m *Metrics) OnLeadRejected(_ context.Context, field, reason string) {
	m.leadsRejected.WithLabelValues(field, reason).Inc()
}

func (m *Metrics) OnRateLimited(context.Context) {
	m.rateLimited.Inc()
}

func (m *Metrics) OnLeadRelayed(_ context.Context, duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.relayDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, _, host, _ string, statusCode int, _ time.Duration) {
	m.upstream.WithLabelValues(host, strconv.Itoa(statusCode)).Inc()
}

func (m *Metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.upstreamError.WithLabelValues(host).Inc()
}
