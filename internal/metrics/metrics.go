// Package metrics exposes Prometheus instrumentation for the ranking engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Ranking counts ranking requests and cache behavior per feed
// ("search" or "trending"). A nil *Ranking is a no-op, so wiring metrics
// stays optional for tools and tests.
type Ranking struct {
	requests    *prometheus.CounterVec
	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

func NewRanking(reg prometheus.Registerer) *Ranking {
	m := &Ranking{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ranking_requests_total",
			Help: "Ranking requests served, by feed.",
		}, []string{"feed"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ranking_cache_hits_total",
			Help: "Result cache hits, by feed.",
		}, []string{"feed"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ranking_cache_misses_total",
			Help: "Result cache misses, by feed.",
		}, []string{"feed"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ranking_duration_seconds",
			Help:    "Time spent computing a ranking on cache miss.",
			Buckets: prometheus.DefBuckets,
		}, []string{"feed"}),
	}
	reg.MustRegister(m.requests, m.cacheHits, m.cacheMisses, m.duration)
	return m
}

func (m *Ranking) Request(feed string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(feed).Inc()
}

func (m *Ranking) CacheHit(feed string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(feed).Inc()
}

func (m *Ranking) CacheMiss(feed string) {
	if m == nil {
		return
	}
	m.cacheMisses.WithLabelValues(feed).Inc()
}

func (m *Ranking) ObserveCompute(feed string, seconds float64) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(feed).Observe(seconds)
}
