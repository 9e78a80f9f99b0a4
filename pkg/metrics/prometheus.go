// Package metrics provides Prometheus metrics for the peloton analytics service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Snapshot lifecycle
	snapshotLoads        *prometheus.CounterVec
	snapshotLoadDuration prometheus.Histogram
	snapshotLastUnix     prometheus.Gauge
	snapshotGeneration   prometheus.Gauge

	// Dataset scale
	riders      prometheus.Gauge
	leagueTeams prometheus.Gauge
	joinMisses  prometheus.Gauge

	// Reload queue
	reloadQueueSize     prometheus.Gauge
	reloadQueueRejected prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry *prometheus.Registry //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	Configure()
}

// Configure rebuilds the global manager with opts on a fresh registry.
// Call it at startup, before any handler captures GetRegistry.
func Configure(opts ...Option) {
	registry := prometheus.NewRegistry()
	opts = append(opts, WithPrometheusRegistry(registry))
	globalManager = NewManager(opts...)
	customRegistry = registry
}

// Enabled reports whether the global recorders are active.
func Enabled() bool {
	return globalManager.enabled
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "peloton",
		subsystem:        "analytics",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.snapshotLoads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "snapshot_loads_total",
		Help:        "Snapshot load attempts by outcome",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.snapshotLoadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "snapshot_load_duration_milliseconds",
		Help:        "Time to fetch, decode and analyse a snapshot",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.snapshotLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "snapshot_last_success_unix",
		Help:        "Unix time of the last successful snapshot load",
		ConstLabels: labels,
	})

	m.snapshotGeneration = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "snapshot_generation",
		Help:        "Generation number of the snapshot currently served",
		ConstLabels: labels,
	})

	m.riders = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "riders",
		Help:        "Riders in the current snapshot",
		ConstLabels: labels,
	})

	m.leagueTeams = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "league_teams",
		Help:        "League teams in the current snapshot",
		ConstLabels: labels,
	})

	m.joinMisses = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "roster_join_misses",
		Help:        "Roster names without a matching rider after normalization",
		ConstLabels: labels,
	})

	m.reloadQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "reload_queue_size",
		Help:        "Pending reload requests",
		ConstLabels: labels,
	})

	m.reloadQueueRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "reload_rejected_total",
		Help:        "Reload requests rejected because the queue was full or closed",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_component_total",
		Help:        "Errors by component and error type",
		ConstLabels: labels,
	}, []string{"component", "error_type"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_endpoint_total",
		Help:        "HTTP errors by endpoint, method and error type",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_memory_bytes",
		Help:        "Heap bytes allocated",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_goroutines",
		Help:        "Number of goroutines",
		ConstLabels: labels,
	})
}

// RecordSnapshotLoad records one load attempt. outcome is "success" or "failure".
func RecordSnapshotLoad(outcome string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.snapshotLoads.WithLabelValues(outcome).Inc()
	globalManager.snapshotLoadDuration.Observe(durationMs)
}

// RecordSnapshotPublished updates the gauges describing the served snapshot.
func RecordSnapshotPublished(generation uint64, riders, teams, joinMisses int, at time.Time) {
	if !globalManager.enabled {
		return
	}
	globalManager.snapshotGeneration.Set(float64(generation))
	globalManager.riders.Set(float64(riders))
	globalManager.leagueTeams.Set(float64(teams))
	globalManager.joinMisses.Set(float64(joinMisses))
	globalManager.snapshotLastUnix.Set(float64(at.Unix()))
}

// UpdateReloadQueueSize sets the number of pending reload requests.
func UpdateReloadQueueSize(size int) {
	if !globalManager.enabled {
		return
	}
	globalManager.reloadQueueSize.Set(float64(size))
}

// RecordReloadRejected counts a rejected reload request.
func RecordReloadRejected() {
	if !globalManager.enabled {
		return
	}
	globalManager.reloadQueueRejected.Inc()
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request latency.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent counts an error raised inside a component.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint counts an HTTP error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RefreshInterval reports how often background gauges should be refreshed.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
