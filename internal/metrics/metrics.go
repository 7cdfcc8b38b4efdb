// Package metrics exposes Prometheus collectors for judgments and reasoning.
// Every method is safe on a nil *Metrics so callers can run without them.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "verdict"

// Metrics holds the service collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	verdicts   *prometheus.CounterVec
	reasoning  *prometheus.CounterVec
	fallbacks  *prometheus.CounterVec
	cacheHits  prometheus.Counter
	generation *prometheus.HistogramVec
	requests   *prometheus.CounterVec
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdicts_total",
			Help:      "Verdicts decided, by winner and confidence.",
		}, []string{"winner", "confidence"}),
		reasoning: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reasoning_total",
			Help:      "Reasoning texts produced, by path.",
		}, []string{"path"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generator_fallbacks_total",
			Help:      "Generator attempts that fell back to rule-based reasoning, by cause.",
		}, []string{"cause"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reasoning_cache_hits_total",
			Help:      "Generated reasoning served from cache.",
		}),
		generation: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Latency of generator calls.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"generator"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route and status code.",
		}, []string{"route", "code"}),
	}

	m.registry.MustRegister(
		m.verdicts,
		m.reasoning,
		m.fallbacks,
		m.cacheHits,
		m.generation,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveVerdict counts one decided verdict
func (m *Metrics) ObserveVerdict(winner, confidence string) {
	if m == nil {
		return
	}
	m.verdicts.WithLabelValues(winner, confidence).Inc()
}

// ObserveReasoning counts reasoning produced on the given path
func (m *Metrics) ObserveReasoning(path string) {
	if m == nil {
		return
	}
	m.reasoning.WithLabelValues(path).Inc()
}

// ObserveFallback counts a generator fallback
func (m *Metrics) ObserveFallback(cause string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(cause).Inc()
}

// ObserveCacheHit counts a reasoning cache hit
func (m *Metrics) ObserveCacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// ObserveGeneration records the latency of one generator call
func (m *Metrics) ObserveGeneration(generator string, d time.Duration) {
	if m == nil {
		return
	}
	m.generation.WithLabelValues(generator).Observe(d.Seconds())
}

// ObserveRequest counts one served HTTP request
func (m *Metrics) ObserveRequest(route string, code int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, statusLabel(code)).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
