// Package metrics provides Prometheus metrics for the sabr WAR service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultRefreshInterval = 10 * time.Second

// Calibration status gauge values.
const (
	StatusUncalibrated = 0
	StatusCalibrating  = 1
	StatusCalibrated   = 2
)

// Manager owns every metric the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Business
	eventsProcessed    prometheus.Counter
	eventsDuplicate    prometheus.Counter
	eventsRejected     *prometheus.CounterVec
	warLatency         *prometheus.HistogramVec
	leaderboardUpdates prometheus.Counter
	calibrationRuns    *prometheus.CounterVec
	calibrationStatus  prometheus.Gauge
	seasonsClosed      prometheus.Counter
	totalPlayers       prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Repository and persistence
	repositoryRecordsTotal  prometheus.Gauge
	repositoryUpdateLatency prometheus.Histogram
	repositoryQueryLatency  prometheus.Histogram
	storeLatency            *prometheus.HistogramVec

	// Queue
	queueSize              prometheus.Gauge
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueueRate       prometheus.Counter
	queueDequeueRate       prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Workers
	workerCount             prometheus.Gauge
	workerMessagesPerSecond prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "sabr",
		subsystem:        "war",
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

// RefreshInterval is how often the system gauges should be sampled.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

// Enabled reports whether recording is switched on.
func (m *Manager) Enabled() bool {
	return m.enabled
}

func (m *Manager) opts(name, help string) prometheus.Opts {
	return prometheus.Opts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) counter(auto promauto.Factory, name, help string) prometheus.Counter {
	return auto.NewCounter(prometheus.CounterOpts(m.opts(name, help)))
}

func (m *Manager) gauge(auto promauto.Factory, name, help string) prometheus.Gauge {
	return auto.NewGauge(prometheus.GaugeOpts(m.opts(name, help)))
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	o := m.opts(name, help)
	return prometheus.HistogramOpts{
		Namespace:   o.Namespace,
		Subsystem:   o.Subsystem,
		Name:        o.Name,
		Help:        o.Help,
		ConstLabels: o.ConstLabels,
		Buckets:     m.histogramBuckets,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.eventsProcessed = m.counter(auto, "events_processed_total", "Events folded into a season ledger")
	m.eventsDuplicate = m.counter(auto, "events_duplicate_total", "Events dropped as duplicates")
	m.eventsRejected = auto.NewCounterVec(prometheus.CounterOpts(m.opts(
		"events_rejected_total", "Events rejected before or during processing")), []string{"reason"})
	m.warLatency = auto.NewHistogramVec(m.histogramOpts(
		"latency_milliseconds", "WAR evaluation latency per engine"), []string{"engine"})
	m.leaderboardUpdates = m.counter(auto, "leaderboard_updates_total", "Leaderboard entries changed")
	m.calibrationRuns = auto.NewCounterVec(prometheus.CounterOpts(m.opts(
		"calibration_runs_total", "Calibration attempts by outcome")), []string{"outcome"})
	m.calibrationStatus = m.gauge(auto, "calibration_status",
		"Calibration state: 0 uncalibrated, 1 calibrating, 2 calibrated")
	m.seasonsClosed = m.counter(auto, "seasons_closed_total", "Seasons closed")
	m.totalPlayers = m.gauge(auto, "players_total", "Players with at least one leaderboard entry")

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts(m.opts(
		"http_requests_total", "HTTP requests by endpoint, method and status")),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"})

	m.repositoryRecordsTotal = m.gauge(auto, "repository_records_total", "Leaderboard entries across seasons")
	m.repositoryUpdateLatency = auto.NewHistogram(m.histogramOpts(
		"repository_update_latency_milliseconds", "Leaderboard upsert latency"))
	m.repositoryQueryLatency = auto.NewHistogram(m.histogramOpts(
		"repository_query_latency_milliseconds", "Leaderboard query latency"))
	m.storeLatency = auto.NewHistogramVec(m.histogramOpts(
		"store_latency_milliseconds", "Persistence latency by backend and operation"),
		[]string{"backend", "op"})

	m.queueSize = m.gauge(auto, "queue_size", "Events waiting in the queue")
	m.queueCapacity = m.gauge(auto, "queue_capacity", "Queue capacity")
	m.queueUtilization = m.gauge(auto, "queue_utilization_ratio", "Queue fill ratio")
	m.queueEnqueueRate = m.counter(auto, "queue_enqueue_total", "Events enqueued")
	m.queueDequeueRate = m.counter(auto, "queue_dequeue_total", "Events dequeued")
	m.queueEnqueueErrors = m.counter(auto, "queue_enqueue_errors_total", "Rejected enqueues")
	m.queueProcessingLatency = auto.NewHistogram(m.histogramOpts(
		"queue_processing_latency_milliseconds", "Enqueue latency"))

	m.workerCount = m.gauge(auto, "worker_count", "Active workers")
	m.workerMessagesPerSecond = m.gauge(auto, "worker_messages_per_second", "Worker throughput")
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts(
		"worker_processing_latency_milliseconds", "Per-event processing latency"))
	m.workerErrors = m.counter(auto, "worker_errors_total", "Events the processor failed")

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts(m.opts(
		"errors_by_component_total", "Errors by component and type")), []string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts(m.opts(
		"errors_by_type_total", "Errors by type and severity")), []string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts(m.opts(
		"errors_by_endpoint_total", "Errors by endpoint")), []string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogramOpts(
		"error_latency_milliseconds", "Latency of failed operations"), []string{"component", "error_type"})

	m.systemMemoryUsage = m.gauge(auto, "system_memory_usage_bytes", "Heap bytes in use")
	m.systemGoroutineCount = m.gauge(auto, "system_goroutine_count", "Goroutines")
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "Most recent GC pause"))
}

func on() bool {
	return globalManager != nil && globalManager.enabled
}

// Business metrics.

func RecordEventProcessed() {
	if on() {
		globalManager.eventsProcessed.Inc()
	}
}

func RecordEventDuplicate() {
	if on() {
		globalManager.eventsDuplicate.Inc()
	}
}

// RecordEventRejected counts an event refused for reason (invalid, backpressure, closed, ...).
func RecordEventRejected(reason string) {
	if on() {
		globalManager.eventsRejected.WithLabelValues(reason).Inc()
	}
}

// RecordWARLatency observes one engine evaluation.
func RecordWARLatency(engine string, latencyMs float64) {
	if on() {
		globalManager.warLatency.WithLabelValues(engine).Observe(latencyMs)
	}
}

func RecordLeaderboardUpdate() {
	if on() {
		globalManager.leaderboardUpdates.Inc()
	}
}

// RecordCalibrationRun counts a calibration attempt by outcome (calibrated, skipped, failed).
func RecordCalibrationRun(outcome string) {
	if on() {
		globalManager.calibrationRuns.WithLabelValues(outcome).Inc()
	}
}

// UpdateCalibrationStatus sets the gauge to one of the Status constants.
func UpdateCalibrationStatus(status int) {
	if on() {
		globalManager.calibrationStatus.Set(float64(status))
	}
}

func RecordSeasonClosed() {
	if on() {
		globalManager.seasonsClosed.Inc()
	}
}

func UpdateTotalPlayers(count int) {
	if on() {
		globalManager.totalPlayers.Set(float64(count))
	}
}

// HTTP metrics.

func RecordHTTPRequest(endpoint, method, statusCode string) {
	if on() {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if on() {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// Repository and persistence metrics.

func UpdateRepositoryRecordsTotal(count int) {
	if on() {
		globalManager.repositoryRecordsTotal.Set(float64(count))
	}
}

func RecordRepositoryUpdateLatency(latencyMs float64) {
	if on() {
		globalManager.repositoryUpdateLatency.Observe(latencyMs)
	}
}

func RecordRepositoryQueryLatency(latencyMs float64) {
	if on() {
		globalManager.repositoryQueryLatency.Observe(latencyMs)
	}
}

// RecordStoreLatency observes a persistence call, e.g. ("sqlite", "save").
func RecordStoreLatency(backend, op string, latencyMs float64) {
	if on() {
		globalManager.storeLatency.WithLabelValues(backend, op).Observe(latencyMs)
	}
}

// Queue metrics.

func UpdateQueueSize(size int) {
	if on() {
		globalManager.queueSize.Set(float64(size))
	}
}

func UpdateQueueCapacity(capacity int) {
	if on() {
		globalManager.queueCapacity.Set(float64(capacity))
	}
}

func UpdateQueueUtilization(utilization float64) {
	if on() {
		globalManager.queueUtilization.Set(utilization)
	}
}

func RecordQueueEnqueue() {
	if on() {
		globalManager.queueEnqueueRate.Inc()
	}
}

func RecordQueueDequeue() {
	if on() {
		globalManager.queueDequeueRate.Inc()
	}
}

func RecordQueueEnqueueError() {
	if on() {
		globalManager.queueEnqueueErrors.Inc()
	}
}

func RecordQueueProcessingLatency(latencyMs float64) {
	if on() {
		globalManager.queueProcessingLatency.Observe(latencyMs)
	}
}

// Worker metrics.

func UpdateWorkerCount(count int) {
	if on() {
		globalManager.workerCount.Set(float64(count))
	}
}

func UpdateWorkerMessagesPerSecond(rate float64) {
	if on() {
		globalManager.workerMessagesPerSecond.Set(rate)
	}
}

func RecordWorkerProcessingLatency(latencyMs float64) {
	if on() {
		globalManager.workerProcessingLatency.Observe(latencyMs)
	}
}

func RecordWorkerError() {
	if on() {
		globalManager.workerErrors.Inc()
	}
}

// Error metrics.

func RecordErrorByComponent(component, errorType string) {
	if on() {
		globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
	}
}

func RecordErrorByType(errorType, severity string) {
	if on() {
		globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
	}
}

func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if on() {
		globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if on() {
		globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
	}
}

// System metrics.

func UpdateSystemMemoryUsage(bytes uint64) {
	if on() {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

func UpdateSystemGoroutineCount(count int) {
	if on() {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

func RecordSystemGCPauseTime(pauseMs float64) {
	if on() {
		globalManager.systemGCPauseTime.Observe(pauseMs)
	}
}

// GetRegistry returns the registry the global manager writes to.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Gatherer returns the manager's registry when it can be scraped.
func (m *Manager) Gatherer() (prometheus.Gatherer, error) {
	g, ok := m.registry.(prometheus.Gatherer)
	if !ok {
		return nil, ErrNoRegistry
	}
	return g, nil
}

// Global returns the process-wide manager.
func Global() *Manager {
	return globalManager
}
