// Package metrics provides Prometheus metrics for the deckcheck pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Enrichment metrics - per-source lookup behavior
	lookups       *prometheus.CounterVec
	lookupLatency *prometheus.HistogramVec
	lookupRetries *prometheus.CounterVec

	// Cache metrics
	cacheLookups *prometheus.CounterVec

	// Pipeline metrics
	runsTotal     *prometheus.CounterVec
	runDuration   prometheus.Histogram
	libraryGames  prometheus.Gauge
	inFlightCount prometheus.Gauge
	fatalByStage  *prometheus.CounterVec
	gamesDegraded prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "deckcheck",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.lookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_lookups_total",
		Help:      "Total source lookups by source and settled outcome",
	}, []string{"source", "outcome"})

	m.lookupLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_lookup_latency_milliseconds",
		Help:      "Histogram of source lookup latency in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"source"})

	m.lookupRetries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_lookup_retries_total",
		Help:      "Total transient lookup failures that were retried",
	}, []string{"source"})

	m.cacheLookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_lookups_total",
		Help:      "Total cache consultations by source and result (hit/miss)",
	}, []string{"source", "result"})

	m.runsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_total",
		Help:      "Total pipeline runs by result (ok/failed/cancelled)",
	}, []string{"result"})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_milliseconds",
		Help:      "Histogram of whole-run duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.libraryGames = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "library_games",
		Help:      "Number of games in the most recently fetched library",
	})

	m.inFlightCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "lookups_in_flight",
		Help:      "Current number of outstanding source lookups",
	})

	m.fatalByStage = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fatal_errors_total",
		Help:      "Total fatal pipeline errors by stage (resolve/library)",
	}, []string{"stage"})

	m.gamesDegraded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "games_degraded_total",
		Help:      "Total games with at least one field degraded to unknown",
	})
}

// Handler returns an HTTP handler serving the custom registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}

// RecordLookup counts one settled source lookup.
func RecordLookup(source, outcome string) {
	globalManager.lookups.WithLabelValues(source, outcome).Inc()
}

// RecordLookupLatency records one lookup's latency in milliseconds.
func RecordLookupLatency(source string, ms float64) {
	globalManager.lookupLatency.WithLabelValues(source).Observe(ms)
}

// RecordLookupRetry counts one retried transient failure.
func RecordLookupRetry(source string) {
	globalManager.lookupRetries.WithLabelValues(source).Inc()
}

// RecordCacheHit counts one cache hit for the source.
func RecordCacheHit(source string) {
	globalManager.cacheLookups.WithLabelValues(source, "hit").Inc()
}

// RecordCacheMiss counts one cache miss for the source.
func RecordCacheMiss(source string) {
	globalManager.cacheLookups.WithLabelValues(source, "miss").Inc()
}

// RecordRun counts one completed pipeline run.
func RecordRun(result string) {
	globalManager.runsTotal.WithLabelValues(result).Inc()
}

// RecordRunDuration records one whole-run duration in milliseconds.
func RecordRunDuration(ms float64) {
	globalManager.runDuration.Observe(ms)
}

// UpdateLibrarySize records the size of the fetched library.
func UpdateLibrarySize(n int) {
	globalManager.libraryGames.Set(float64(n))
}

// IncInFlight tracks one lookup entering flight.
func IncInFlight() {
	globalManager.inFlightCount.Inc()
}

// DecInFlight tracks one lookup leaving flight.
func DecInFlight() {
	globalManager.inFlightCount.Dec()
}

// RecordFatal counts one fatal error at the named stage.
func RecordFatal(stage string) {
	globalManager.fatalByStage.WithLabelValues(stage).Inc()
}

// RecordGameDegraded counts one game that ended up with a degraded field.
func RecordGameDegraded() {
	globalManager.gamesDegraded.Inc()
}
