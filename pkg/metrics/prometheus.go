// Package metrics provides Prometheus metrics for the BHOOMI safety service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Tick pipeline
	ticksTotal   prometheus.Counter
	tickErrors   *prometheus.CounterVec
	tickLatency  prometheus.Histogram
	currentRisk  prometheus.Gauge
	riskLevel    prometheus.Gauge
	bandLow      prometheus.Gauge
	bandHigh     prometheus.Gauge
	bufferSize   prometheus.Gauge
	bufferCap    prometheus.Gauge
	workersTotal prometheus.Gauge
	inZone       prometheus.Gauge
	approaching  prometheus.Gauge

	// Data sources
	observationsIngested *prometheus.CounterVec
	ingestErrors         *prometheus.CounterVec
	sourceSwitches       *prometheus.CounterVec

	// Manual alerts
	manualAlerts *prometheus.CounterVec

	// Snapshot fan-out
	subscribers      prometheus.Gauge
	snapshotsDropped prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "bhoomi",
		subsystem:        "safety",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: buckets,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	m.ticksTotal = m.counter("ticks_total", "Total number of completed refresh ticks")
	m.tickErrors = m.counterVec("tick_errors_total", "Refresh ticks aborted, by reason", "reason")
	m.tickLatency = m.histogram("tick_latency_milliseconds", "Duration of one refresh tick in milliseconds", m.histogramBuckets)
	m.currentRisk = m.gauge("current_risk", "Risk value of the most recent observation (0-100)")
	m.riskLevel = m.gauge("risk_level", "Risk level of the most recent observation (0=LOW, 1=MEDIUM, 2=HIGH)")
	m.bandLow = m.gauge("risk_band_low", "Lower risk band threshold in effect")
	m.bandHigh = m.gauge("risk_band_high", "Upper risk band threshold in effect")
	m.bufferSize = m.gauge("buffer_size", "Observations currently held in the ring buffer")
	m.bufferCap = m.gauge("buffer_capacity", "Ring buffer capacity")
	m.workersTotal = m.gauge("workers_tracked", "Worker positions evaluated in the last tick")
	m.inZone = m.gauge("workers_in_restricted_zone", "Workers inside the restricted zone in the last tick")
	m.approaching = m.gauge("workers_approaching_zone", "Workers moving towards the restricted zone in the last tick")

	m.observationsIngested = m.counterVec("observations_ingested_total", "Observations added to the buffer, by source", "source")
	m.ingestErrors = m.counterVec("ingest_errors_total", "Failed file loads, by reason", "reason")
	m.sourceSwitches = m.counterVec("source_switches_total", "Data source switches, by target mode", "mode")

	m.manualAlerts = m.counterVec("manual_alerts_total", "Manual alerts received, by outcome", "outcome")

	m.subscribers = m.gauge("snapshot_subscribers", "Live snapshot stream subscribers")
	m.snapshotsDropped = m.counter("snapshots_dropped_total", "Snapshots dropped for slow subscribers")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Total number of errors by endpoint",
		"endpoint", "method", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Total number of errors by type", "error_type", "severity")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// Tick pipeline.

// RecordTick records one completed tick and its latency.
func RecordTick(latencyMs float64) {
	globalManager.ticksTotal.Inc()
	globalManager.tickLatency.Observe(latencyMs)
}

// RecordTickError counts an aborted tick.
func RecordTickError(reason string) {
	globalManager.tickErrors.WithLabelValues(reason).Inc()
}

// UpdateRisk sets the current risk value, its level ordinal and the band in effect.
func UpdateRisk(risk float64, level int, low, high float64) {
	globalManager.currentRisk.Set(risk)
	globalManager.riskLevel.Set(float64(level))
	globalManager.bandLow.Set(low)
	globalManager.bandHigh.Set(high)
}

// UpdateBuffer sets the ring buffer size and capacity.
func UpdateBuffer(size, capacity int) {
	globalManager.bufferSize.Set(float64(size))
	globalManager.bufferCap.Set(float64(capacity))
}

// UpdateProximity sets the worker proximity gauges.
func UpdateProximity(tracked, inZone, approaching int) {
	globalManager.workersTotal.Set(float64(tracked))
	globalManager.inZone.Set(float64(inZone))
	globalManager.approaching.Set(float64(approaching))
}

// Data sources.

// RecordObservationsIngested adds n observations for the given source.
func RecordObservationsIngested(source string, n int) {
	globalManager.observationsIngested.WithLabelValues(source).Add(float64(n))
}

// RecordIngestError counts a failed file load.
func RecordIngestError(reason string) {
	globalManager.ingestErrors.WithLabelValues(reason).Inc()
}

// RecordSourceSwitch counts a data source switch.
func RecordSourceSwitch(mode string) {
	globalManager.sourceSwitches.WithLabelValues(mode).Inc()
}

// RecordManualAlert counts a manual alert by outcome (accepted, duplicate).
func RecordManualAlert(outcome string) {
	globalManager.manualAlerts.WithLabelValues(outcome).Inc()
}

// Snapshot fan-out.

// UpdateSubscribers sets the live subscriber count.
func UpdateSubscribers(n int) {
	globalManager.subscribers.Set(float64(n))
}

// RecordSnapshotDropped counts a snapshot not delivered to a slow subscriber.
func RecordSnapshotDropped() {
	globalManager.snapshotsDropped.Inc()
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records errors by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records errors by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// System.

// UpdateSystemMemoryUsage sets the memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom registry served on /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
