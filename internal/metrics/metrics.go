// Package metrics exposes Prometheus collectors for the digest pipeline.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	fetchTotal    *prometheus.CounterVec
	cacheTotal    *prometheus.CounterVec
	decisionTotal *prometheus.CounterVec
	stageSeconds  *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus collectors. It is safe to call multiple
// times; recording functions are no-ops until it has run.
func Init() {
	once.Do(func() {
		fetchTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webdigest_fetch_total",
				Help: "Total page fetch attempts, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		cacheTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webdigest_cache_total",
				Help: "Cache lookups, labeled by result (hit or miss).",
			},
			[]string{"result"},
		)

		decisionTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webdigest_decision_total",
				Help: "Output strategies selected by the decision engine.",
			},
			[]string{"kind"},
		)

		stageSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webdigest_stage_duration_seconds",
				Help:    "Pipeline stage latency, labeled by stage.",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
			},
			[]string{"stage"},
		)
	})
}

// RecordFetch counts one fetch attempt with the given outcome label
// (rendered, redirected, failed).
func RecordFetch(outcome string) {
	if fetchTotal != nil {
		fetchTotal.WithLabelValues(outcome).Inc()
	}
}

// RecordCacheHit counts one cache hit.
func RecordCacheHit() {
	if cacheTotal != nil {
		cacheTotal.WithLabelValues("hit").Inc()
	}
}

// RecordCacheMiss counts one cache miss.
func RecordCacheMiss() {
	if cacheTotal != nil {
		cacheTotal.WithLabelValues("miss").Inc()
	}
}

// RecordDecision counts one decision by kind.
func RecordDecision(kind string) {
	if decisionTotal != nil {
		decisionTotal.WithLabelValues(kind).Inc()
	}
}

// ObserveStage records the latency of one pipeline stage.
func ObserveStage(stage string, dur time.Duration) {
	if stageSeconds != nil {
		stageSeconds.WithLabelValues(stage).Observe(dur.Seconds())
	}
}

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
