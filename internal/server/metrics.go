package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/kintree/pkg/observability"
)

// Metrics exports server and diagram activity to Prometheus. It implements
// the diagram, cache and outbound HTTP hooks so that library code reports
// through it.
type Metrics struct {
	registry *prometheus.Registry

	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	views       prometheus.Gauge
	viewsClosed *prometheus.CounterVec

	loads    *prometheus.CounterVec
	layouts  *prometheus.HistogramVec
	renders  prometheus.Histogram
	elements *prometheus.CounterVec
	toggles  *prometheus.CounterVec
	cache    *prometheus.CounterVec
	fetches  *prometheus.CounterVec
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kintree_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kintree_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		views: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kintree_views",
			Help: "Live diagram views.",
		}),
		viewsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kintree_views_closed_total",
			Help: "Views removed, by reason.",
		}, []string{"reason"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kintree_source_loads_total",
			Help: "Tree document loads by scheme and result.",
		}, []string{"scheme", "result"}),
		layouts: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kintree_layout_duration_seconds",
			Help:    "Layout pass duration by engine.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"engine"}),
		renders: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kintree_render_duration_seconds",
			Help:    "Render cycle duration.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		elements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kintree_render_elements_total",
			Help: "Node elements entered and exited by render cycles.",
		}, []string{"phase"}),
		toggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kintree_toggles_total",
			Help: "Node toggles by resulting state.",
		}, []string{"state"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kintree_cache_operations_total",
			Help: "Source cache operations.",
		}, []string{"op", "type"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kintree_source_fetches_total",
			Help: "Outbound HTTP fetches of tree documents by host and outcome.",
		}, []string{"host", "outcome"}),
	}
	reg.MustRegister(m.requests, m.latency, m.views, m.viewsClosed, m.loads,
		m.layouts, m.renders, m.elements, m.toggles, m.cache, m.fetches)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Middleware records request counts and latency by route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) OnLoad(_ context.Context, scheme string, _ int, _ time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.loads.WithLabelValues(scheme, result).Inc()
}

func (m *Metrics) OnLayout(_ context.Context, engine string, _ int, d time.Duration, _ error) {
	m.layouts.WithLabelValues(engine).Observe(d.Seconds())
}

func (m *Metrics) OnRender(_ context.Context, _, entered, exited int, d time.Duration) {
	m.renders.Observe(d.Seconds())
	m.elements.WithLabelValues("enter").Add(float64(entered))
	m.elements.WithLabelValues("exit").Add(float64(exited))
}

func (m *Metrics) OnToggle(_ context.Context, state string) {
	m.toggles.WithLabelValues(state).Inc()
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cache.WithLabelValues("hit", keyType).Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cache.WithLabelValues("miss", keyType).Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, _ int) {
	m.cache.WithLabelValues("set", keyType).Inc()
}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, _, host, _ string, status int, _ time.Duration) {
	m.fetches.WithLabelValues(host, strconv.Itoa(status)).Inc()
}

func (m *Metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.fetches.WithLabelValues(host, "error").Inc()
}

var (
	_ observability.DiagramHooks = (*Metrics)(nil)
	_ observability.CacheHooks   = (*Metrics)(nil)
	_ observability.HTTPHooks    = (*Metrics)(nil)
)
