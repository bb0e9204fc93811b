package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// narrativeScoreBuckets follow the narrative summary bands.
var narrativeScoreBuckets = []float64{0, 3, 8, 15, 25, 40, 60} //nolint:gochecknoglobals // fixed bucket layout

// batchSizeBuckets cover single records up to the largest batches.
var batchSizeBuckets = []float64{1, 2, 5, 10, 25, 50, 100, 250, 500} //nolint:gochecknoglobals // fixed bucket layout

// Manager manages all Prometheus metrics for the triage service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Core Business Metrics - what the triage engine decided
	assessments          *prometheus.CounterVec
	invalidInputs        *prometheus.CounterVec
	subsystemTiers       *prometheus.CounterVec
	caseTypes            *prometheus.CounterVec
	narrativeScore       prometheus.Histogram
	narrativeEscalations prometheus.Counter
	scoringLatency       prometheus.Histogram
	batchSize            prometheus.Histogram

	// Operational Health Metrics
	queueSize   prometheus.Gauge
	workerCount prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Business Quality Metrics
	scoringErrors prometheus.Counter

	// Queue Metrics - job queue performance
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueueRate       prometheus.Counter
	queueDequeueRate       prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Worker Metrics - processing performance
	workerActiveCount       prometheus.Gauge
	workerIdleCount         prometheus.Gauge
	workerMessagesPerSecond prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrorRate         prometheus.Counter

	// Error Metrics - detailed error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
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
		namespace:        "triage",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Core Business Metrics
	m.assessments = auto.NewCounterVec(
		m.counterOpts("assessments_total", "Total number of completed assessments by final risk level"),
		[]string{"risk_level"},
	)
	m.invalidInputs = auto.NewCounterVec(
		m.counterOpts("invalid_input_total", "Total number of requests rejected for invalid vital signs"),
		[]string{"field"},
	)
	m.subsystemTiers = auto.NewCounterVec(
		m.counterOpts("subsystem_tier_total", "Per-subsystem risk tiers assigned"),
		[]string{"subsystem", "tier"},
	)
	m.caseTypes = auto.NewCounterVec(
		m.counterOpts("case_type_total", "Narrative case classifications"),
		[]string{"case_type"},
	)
	m.narrativeScore = auto.NewHistogram(m.histogramOpts(
		"narrative_score", "Distribution of narrative risk scores", narrativeScoreBuckets))
	m.narrativeEscalations = auto.NewCounter(
		m.counterOpts("narrative_escalations_total", "Assessments whose risk level was raised by the narrative"))
	m.scoringLatency = auto.NewHistogram(m.histogramOpts(
		"scoring_latency_milliseconds", "Histogram of scoring latency in milliseconds", m.histogramBuckets))
	m.batchSize = auto.NewHistogram(m.histogramOpts(
		"batch_size", "Number of records per batch request", batchSizeBuckets))

	// Operational Health Metrics
	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current size of the job queue (backlog indicator)"))
	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Current number of workers (processing capacity)"))

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	// Business Quality Metrics
	m.scoringErrors = auto.NewCounter(m.counterOpts("scoring_errors_total", "Total number of unexpected scoring errors"))

	// Queue Metrics
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum queue capacity"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio", "Queue utilization ratio (current size / capacity)"))
	m.queueEnqueueRate = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Total number of jobs enqueued"))
	m.queueDequeueRate = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Total number of jobs dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total", "Total number of enqueue errors"))
	m.queueProcessingLatency = auto.NewHistogram(m.histogramOpts(
		"queue_processing_latency_milliseconds", "Time jobs spend waiting in the queue in milliseconds", m.histogramBuckets))

	// Worker Metrics
	m.workerActiveCount = auto.NewGauge(m.gaugeOpts("worker_active_count", "Number of active workers"))
	m.workerIdleCount = auto.NewGauge(m.gaugeOpts("worker_idle_count", "Number of idle workers"))
	m.workerMessagesPerSecond = auto.NewGauge(m.gaugeOpts("worker_messages_per_second", "Average jobs processed per second by workers"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts(
		"worker_processing_latency_milliseconds", "Worker processing latency in milliseconds", m.histogramBuckets))
	m.workerErrorRate = auto.NewCounter(m.counterOpts("worker_errors_total", "Total number of worker errors"))

	// Error Metrics
	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Total number of errors by type"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that resulted in errors", m.histogramBuckets),
		[]string{"component", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordAssessment counts a completed assessment by final risk level.
func RecordAssessment(riskLevel string) {
	globalManager.assessments.WithLabelValues(riskLevel).Inc()
}

// RecordInvalidInput counts a request rejected at validation.
func RecordInvalidInput(field string) {
	globalManager.invalidInputs.WithLabelValues(field).Inc()
}

// RecordSubsystemTier counts a tier assigned to a subsystem.
func RecordSubsystemTier(subsystem, tier string) {
	globalManager.subsystemTiers.WithLabelValues(subsystem, tier).Inc()
}

// RecordCaseType counts a narrative case classification.
func RecordCaseType(caseType string) {
	globalManager.caseTypes.WithLabelValues(caseType).Inc()
}

// RecordNarrativeScore observes a narrative risk score.
func RecordNarrativeScore(score int) {
	globalManager.narrativeScore.Observe(float64(score))
}

// RecordNarrativeEscalation counts a risk level raised by the narrative.
func RecordNarrativeEscalation() {
	globalManager.narrativeEscalations.Inc()
}

// RecordScoringLatency records scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// RecordBatchSize observes the record count of a batch request.
func RecordBatchSize(n int) {
	globalManager.batchSize.Observe(float64(n))
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordScoringError increments the scoring errors counter.
func RecordScoringError() {
	globalManager.scoringErrors.Inc()
}

// Queue Metrics Functions.

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueProcessingLatency records queue processing latency.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// Worker Metrics Functions.

// UpdateWorkerActiveCount sets the number of active workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// UpdateWorkerIdleCount sets the number of idle workers.
func UpdateWorkerIdleCount(count int) {
	globalManager.workerIdleCount.Set(float64(count))
}

// UpdateWorkerMessagesPerSecond sets the average jobs processed per second.
func UpdateWorkerMessagesPerSecond(rate float64) {
	globalManager.workerMessagesPerSecond.Set(rate)
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrorRate.Inc()
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
