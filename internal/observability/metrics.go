// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "walletscore"

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Request metrics
	RequestsTotal     *prometheus.CounterVec
	PipelineDuration  prometheus.Histogram
	ScoreDistribution prometheus.Histogram

	// Upstream metrics
	UpstreamCalls   *prometheus.CounterVec
	UpstreamRetries *prometheus.CounterVec
	RateLimitWaits  *prometheus.CounterVec
	FetchDefaults   *prometheus.CounterVec

	// Watchlist metrics
	WatchlistSize prometheus.Gauge
}

// NewMetrics creates a Metrics instance registered on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "requests_total",
			Help:      "Total number of scoring requests by status",
		}, []string{"status"}),
		PipelineDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Time to fetch, assess and score one wallet",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		ScoreDistribution: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "score",
			Help:      "Distribution of canonical wallet scores",
			Buckets:   prometheus.LinearBuckets(0, 100, 9),
		}),

		UpstreamCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "calls_total",
			Help:      "Total number of upstream API calls by source and status",
		}, []string{"source", "status"}),
		UpstreamRetries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "retries_total",
			Help:      "Total number of upstream retries by source",
		}, []string{"source"}),
		RateLimitWaits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "rate_limit_waits_total",
			Help:      "Total number of calls delayed by the rate limiter",
		}, []string{"source"}),
		FetchDefaults: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "collector",
			Name:      "fetch_defaults_total",
			Help:      "Total number of failed fetches replaced by a safe default, by field",
		}, []string{"field"}),

		WatchlistSize: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "watchlist",
			Name:      "wallets",
			Help:      "Number of wallets on the watchlist",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.Gatherer(), promhttp.HandlerOpts{})
}

// Gatherer exposes the registry. A nil Metrics falls back to the default gatherer.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return prometheus.DefaultGatherer
	}
	return m.registry
}

// RecordRequest records one pipeline run.
func (m *Metrics) RecordRequest(status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(status).Inc()
	m.PipelineDuration.Observe(elapsed.Seconds())
}

// RecordScore records a canonical score.
func (m *Metrics) RecordScore(score int) {
	if m == nil {
		return
	}
	m.ScoreDistribution.Observe(float64(score))
}

// RecordUpstreamCall records one upstream HTTP attempt.
func (m *Metrics) RecordUpstreamCall(source, status string) {
	if m == nil {
		return
	}
	m.UpstreamCalls.WithLabelValues(source, status).Inc()
}

// RecordRetry records one upstream retry.
func (m *Metrics) RecordRetry(source string) {
	if m == nil {
		return
	}
	m.UpstreamRetries.WithLabelValues(source).Inc()
}

// RecordRateLimitWait records a call held back by the limiter.
func (m *Metrics) RecordRateLimitWait(source string) {
	if m == nil {
		return
	}
	m.RateLimitWaits.WithLabelValues(source).Inc()
}

// RecordFetchDefault records a fetch that fell back to its default.
func (m *Metrics) RecordFetchDefault(field string) {
	if m == nil {
		return
	}
	m.FetchDefaults.WithLabelValues(field).Inc()
}

// SetWatchlistSize updates the watchlist gauge.
func (m *Metrics) SetWatchlistSize(n int) {
	if m == nil {
		return
	}
	m.WatchlistSize.Set(float64(n))
}
