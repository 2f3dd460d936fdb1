// Package metrics provides Prometheus metrics for the fair portal service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the portal service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Export pipeline metrics - what really matters for report delivery
	exportsStarted       prometheus.Counter
	exportsCompleted     prometheus.Counter
	exportsFailed        prometheus.Counter
	exportInFlight       prometheus.Gauge
	narrativeFailures    prometheus.Counter
	narrativeLatency     prometheus.Histogram
	rasterizationLatency prometheus.Histogram

	// Business gauges refreshed by the stats poller
	totalVolume     prometheus.Gauge
	totalVisitors   prometheus.Gauge
	totalExhibitors prometheus.Gauge
	galleryPhotos   prometheus.Gauge

	// Record store metrics
	storeQueryLatency prometheus.Histogram
	storeErrors       prometheus.Counter

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "agrofair",
		subsystem:        "portal",
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

	m.exportsStarted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "exports_started_total",
		Help:      "Export cycles triggered",
	})

	m.exportsCompleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "exports_completed_total",
		Help:      "Export cycles that produced a document artifact",
	})

	m.exportsFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "exports_failed_total",
		Help:      "Export cycles aborted by a fatal condition",
	})

	m.exportInFlight = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "export_in_flight",
		Help:      "1 while an export cycle is running, 0 otherwise",
	})

	m.narrativeFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "narrative_failures_total",
		Help:      "Narrative generations that failed and were skipped",
	})

	m.narrativeLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "narrative_latency_milliseconds",
		Help:      "Narrative generation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.rasterizationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rasterization_latency_milliseconds",
		Help:      "Document rasterization latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.totalVolume = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "business_volume_total",
		Help:      "Summed business volume across all exhibitor records",
	})

	m.totalVisitors = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "visitors_total",
		Help:      "Summed visitor count across all exhibitor records",
	})

	m.totalExhibitors = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "exhibitors_total",
		Help:      "Number of exhibitor records",
	})

	m.galleryPhotos = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "gallery_photos_total",
		Help:      "Number of gallery photos",
	})

	m.storeQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_query_latency_milliseconds",
		Help:      "Record store query latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Record store operation failures",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method, and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "Current heap allocation in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_milliseconds",
		Help:      "Garbage collector pause time in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// RecordExportStarted increments the exports started counter.
func RecordExportStarted() {
	globalManager.exportsStarted.Inc()
}

// RecordExportCompleted increments the exports completed counter.
func RecordExportCompleted() {
	globalManager.exportsCompleted.Inc()
}

// RecordExportFailed increments the exports failed counter.
func RecordExportFailed() {
	globalManager.exportsFailed.Inc()
}

// SetExportInFlight flags whether an export cycle is currently running.
func SetExportInFlight(inFlight bool) {
	if inFlight {
		globalManager.exportInFlight.Set(1)
		return
	}
	globalManager.exportInFlight.Set(0)
}

// RecordNarrativeFailure increments the skipped-narrative counter.
func RecordNarrativeFailure() {
	globalManager.narrativeFailures.Inc()
}

// RecordNarrativeLatency records narrative generation latency in milliseconds.
func RecordNarrativeLatency(latencyMs float64) {
	globalManager.narrativeLatency.Observe(latencyMs)
}

// RecordRasterizationLatency records rasterization latency in milliseconds.
func RecordRasterizationLatency(latencyMs float64) {
	globalManager.rasterizationLatency.Observe(latencyMs)
}

// UpdateTotalVolume sets the summed business volume gauge.
func UpdateTotalVolume(volume float64) {
	globalManager.totalVolume.Set(volume)
}

// UpdateTotalVisitors sets the summed visitors gauge.
func UpdateTotalVisitors(count int) {
	globalManager.totalVisitors.Set(float64(count))
}

// UpdateTotalExhibitors sets the exhibitor record count gauge.
func UpdateTotalExhibitors(count int) {
	globalManager.totalExhibitors.Set(float64(count))
}

// UpdateGalleryPhotos sets the gallery photo count gauge.
func UpdateGalleryPhotos(count int) {
	globalManager.galleryPhotos.Set(float64(count))
}

// RecordStoreQueryLatency records record store query latency in milliseconds.
func RecordStoreQueryLatency(latencyMs float64) {
	globalManager.storeQueryLatency.Observe(latencyMs)
}

// RecordStoreError increments the store error counter.
func RecordStoreError() {
	globalManager.storeErrors.Inc()
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// UpdateSystemMemoryUsage sets the heap allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records a garbage collector pause in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
