// Package metrics provides Prometheus metrics for the mcr ranking service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

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

	// Configuration codec
	configEncoded     prometheus.Counter
	configDecoded     prometheus.Counter
	configDecodeFails *prometheus.CounterVec

	// Ranking
	rankingLatency prometheus.Histogram
	schoolsScored  prometheus.Counter
	rangeCacheHits *prometheus.CounterVec
	rangeCacheMiss *prometheus.CounterVec

	// Dataset
	datasetSchools    prometheus.Gauge
	catalogParameters *prometheus.GaugeVec

	// Shares
	sharesCreated prometheus.Counter
	sharesDeleted prometheus.Counter
	shareErrors   *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the Record* helpers

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "mcr",
		subsystem:        "ranking",
		histogramBuckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
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

// RefreshInterval reports how often gauges are expected to be refreshed.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// RefreshInterval reports how often the global manager's gauges should be
// refreshed.
func RefreshInterval() time.Duration { return globalManager.RefreshInterval() }

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of collectors
	reg := m.registry
	if !m.enabled {
		// Collectors still exist so Record* never panics, they are just not exported.
		reg = prometheus.NewRegistry()
	}
	auto := promauto.With(reg)
	labels := prometheus.Labels(m.customLabels)

	m.configEncoded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "configurations_encoded_total",
		Help: "Total number of user configurations encoded into share strings",
	})
	m.configDecoded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "configurations_decoded_total",
		Help: "Total number of share strings decoded successfully",
	})
	m.configDecodeFails = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "configuration_decode_failures_total",
		Help: "Share strings that failed to decode and were reset to an empty configuration",
	}, []string{"reason"})

	m.rankingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "ranking_latency_milliseconds",
		Help:    "Time to score and order the whole dataset for one configuration",
		Buckets: m.histogramBuckets,
	})
	m.schoolsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "schools_scored_total",
		Help: "Total number of school scorings performed",
	})
	m.rangeCacheHits = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "range_cache_hits_total",
		Help: "Normalization range lookups served from the cache",
	}, []string{"attribute"})
	m.rangeCacheMiss = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "range_cache_misses_total",
		Help: "Normalization range lookups that scanned the dataset",
	}, []string{"attribute"})

	m.datasetSchools = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "dataset_schools",
		Help: "Number of schools in the loaded dataset",
	})
	m.catalogParameters = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "catalog_parameters",
		Help: "Number of parameters in the catalog by group",
	}, []string{"group"})

	m.sharesCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "shares_created_total",
		Help: "Total number of shared configurations created",
	})
	m.sharesDeleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "shares_deleted_total",
		Help: "Total number of shared configurations deleted",
	})
	m.shareErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "share_store_errors_total",
		Help: "Share store failures by operation",
	}, []string{"operation"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "http_requests_total",
		Help: "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "errors_by_type_total",
		Help: "Errors by type and severity",
	}, []string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "errors_by_endpoint_total",
		Help: "Errors by endpoint, method and type",
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "system_memory_usage_bytes",
		Help: "Heap memory in use",
	})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "system_goroutine_count",
		Help: "Number of goroutines",
	})
}

// RecordConfigurationEncoded increments the encoded configurations counter.
func RecordConfigurationEncoded() {
	globalManager.configEncoded.Inc()
}

// RecordConfigurationDecoded increments the decoded configurations counter.
func RecordConfigurationDecoded() {
	globalManager.configDecoded.Inc()
}

// RecordConfigurationDecodeFailure counts a share string that decoded to nothing.
func RecordConfigurationDecodeFailure(reason string) {
	globalManager.configDecodeFails.WithLabelValues(reason).Inc()
}

// RecordRankingLatency records how long one full ranking took.
func RecordRankingLatency(latencyMs float64) {
	globalManager.rankingLatency.Observe(latencyMs)
}

// RecordSchoolsScored adds n to the scored schools counter.
func RecordSchoolsScored(n int) {
	globalManager.schoolsScored.Add(float64(n))
}

// RecordRangeCacheHit counts a cached range lookup.
func RecordRangeCacheHit(attribute string) {
	globalManager.rangeCacheHits.WithLabelValues(attribute).Inc()
}

// RecordRangeCacheMiss counts a range computed from the dataset.
func RecordRangeCacheMiss(attribute string) {
	globalManager.rangeCacheMiss.WithLabelValues(attribute).Inc()
}

// UpdateDatasetSchools sets the dataset size gauge.
func UpdateDatasetSchools(count int) {
	globalManager.datasetSchools.Set(float64(count))
}

// UpdateCatalogParameters sets the number of parameters in a catalog group.
func UpdateCatalogParameters(group string, count int) {
	globalManager.catalogParameters.WithLabelValues(group).Set(float64(count))
}

// RecordShareCreated increments the created shares counter.
func RecordShareCreated() {
	globalManager.sharesCreated.Inc()
}

// RecordShareDeleted increments the deleted shares counter.
func RecordShareDeleted() {
	globalManager.sharesDeleted.Inc()
}

// RecordShareError counts a share store failure for operation.
func RecordShareError(operation string) {
	globalManager.shareErrors.WithLabelValues(operation).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
