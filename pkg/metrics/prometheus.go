// Package metrics provides Prometheus metrics for the leaderboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Allocation
	allocations       prometheus.Counter
	allocationErrors  *prometheus.CounterVec
	allocationLatency prometheus.Histogram
	tierWinners       *prometheus.HistogramVec

	// Ingestion pipeline
	videosIngested  *prometheus.CounterVec
	eventsDuplicate prometheus.Counter
	queueSize       prometheus.Gauge
	queueCapacity   prometheus.Gauge
	queueRejected   *prometheus.CounterVec
	workerCount     prometheus.Gauge
	workerErrors    prometheus.Counter

	// Stores and caches
	repositoryRecords *prometheus.GaugeVec
	nameCacheLookups  *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec
	rateLimited         *prometheus.CounterVec

	// Errors by component
	componentErrors *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "elox",
		subsystem:        "leaderboard",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
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

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.allocations = m.counter("allocations_total", "Total number of successful tier allocations")
	m.allocationErrors = m.counterVec("allocation_errors_total", "Allocations rejected by input validation", "kind")
	m.allocationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "allocation_latency_milliseconds",
		Help:        "Time spent allocating one competition's tiers",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})
	m.tierWinners = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "tier_winners",
		Help:        "Number of winners placed per tier and allocation",
		Buckets:     []float64{0, 1, 2, 3, 5, 10, 15, 20},
		ConstLabels: m.constLabels,
	}, []string{"tier"})

	m.videosIngested = m.counterVec("videos_ingested_total", "Video events applied to the store", "result")
	m.eventsDuplicate = m.counter("events_duplicate_total", "Video events dropped as duplicates")
	m.queueSize = m.gauge("queue_size", "Current size of the ingestion queue")
	m.queueCapacity = m.gauge("queue_capacity", "Capacity of the ingestion queue")
	m.queueRejected = m.counterVec("queue_rejected_total", "Video events refused by the queue", "reason")
	m.workerCount = m.gauge("worker_count", "Number of ingestion workers")
	m.workerErrors = m.counter("worker_errors_total", "Video events that failed to apply")

	m.repositoryRecords = promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "repository_records",
		Help:        "Records held by the in-memory store",
		ConstLabels: m.constLabels,
	}, []string{"kind"})
	m.nameCacheLookups = m.counterVec("name_cache_lookups_total", "Display name cache lookups", "result")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests", "endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
	m.httpErrors = m.counterVec("http_errors_total", "HTTP error responses", "endpoint", "method", "error_type")
	m.rateLimited = m.counterVec("rate_limited_total", "Requests refused by the rate limiter", "endpoint")

	m.componentErrors = m.counterVec("component_errors_total", "Errors by component and type", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
}

// RecordAllocation records one successful allocation and its latency.
func (m *Manager) RecordAllocation(latencyMs float64) {
	m.allocations.Inc()
	m.allocationLatency.Observe(latencyMs)
}

// RecordAllocationError counts a rejected allocation by error kind.
func (m *Manager) RecordAllocationError(kind string) { m.allocationErrors.WithLabelValues(kind).Inc() }

// RecordTierWinners observes how many winners a tier received.
func (m *Manager) RecordTierWinners(tier string, n int) {
	m.tierWinners.WithLabelValues(tier).Observe(float64(n))
}

// RecordVideoIngested counts an applied video event; created distinguishes new videos from view updates.
func (m *Manager) RecordVideoIngested(created bool) {
	result := "updated"
	if created {
		result = "created"
	}
	m.videosIngested.WithLabelValues(result).Inc()
}

// RecordEventDuplicate counts a duplicate video event.
func (m *Manager) RecordEventDuplicate() { m.eventsDuplicate.Inc() }

// UpdateQueueSize sets the queue length gauge.
func (m *Manager) UpdateQueueSize(size int) { m.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the queue capacity gauge.
func (m *Manager) UpdateQueueCapacity(capacity int) { m.queueCapacity.Set(float64(capacity)) }

// RecordQueueRejected counts an event the queue refused.
func (m *Manager) RecordQueueRejected(reason string) { m.queueRejected.WithLabelValues(reason).Inc() }

// UpdateWorkerCount sets the worker gauge.
func (m *Manager) UpdateWorkerCount(count int) { m.workerCount.Set(float64(count)) }

// RecordWorkerError counts a failed event.
func (m *Manager) RecordWorkerError() { m.workerErrors.Inc() }

// UpdateRepositoryRecords sets the record count for kind.
func (m *Manager) UpdateRepositoryRecords(kind string, n int) {
	m.repositoryRecords.WithLabelValues(kind).Set(float64(n))
}

// RecordNameCacheLookup counts a display name cache hit or miss.
func (m *Manager) RecordNameCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.nameCacheLookups.WithLabelValues(result).Inc()
}

// RecordHTTPRequest counts a request and observes its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError counts an error response.
func (m *Manager) RecordHTTPError(endpoint, method, errorType string) {
	m.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordRateLimited counts a throttled request.
func (m *Manager) RecordRateLimited(endpoint string) { m.rateLimited.WithLabelValues(endpoint).Inc() }

// RecordErrorByComponent counts an error raised inside a component.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	m.componentErrors.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap gauge.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) { m.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine gauge.
func (m *Manager) UpdateSystemGoroutineCount(count int) {
	m.systemGoroutineCount.Set(float64(count))
}

// Package-level helpers delegate to the global manager.

func RecordAllocation(latencyMs float64)         { globalManager.RecordAllocation(latencyMs) }
func RecordAllocationError(kind string)          { globalManager.RecordAllocationError(kind) }
func RecordTierWinners(tier string, n int)       { globalManager.RecordTierWinners(tier, n) }
func RecordVideoIngested(created bool)           { globalManager.RecordVideoIngested(created) }
func RecordEventDuplicate()                      { globalManager.RecordEventDuplicate() }
func UpdateQueueSize(size int)                   { globalManager.UpdateQueueSize(size) }
func UpdateQueueCapacity(capacity int)           { globalManager.UpdateQueueCapacity(capacity) }
func RecordQueueRejected(reason string)          { globalManager.RecordQueueRejected(reason) }
func UpdateWorkerCount(count int)                { globalManager.UpdateWorkerCount(count) }
func RecordWorkerError()                         { globalManager.RecordWorkerError() }
func UpdateRepositoryRecords(kind string, n int) { globalManager.UpdateRepositoryRecords(kind, n) }
func RecordNameCacheLookup(hit bool)             { globalManager.RecordNameCacheLookup(hit) }
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.RecordHTTPError(endpoint, method, errorType)
}
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}
func RecordRateLimited(endpoint string) { globalManager.RecordRateLimited(endpoint) }
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.UpdateSystemMemoryUsage(bytes) }
func UpdateSystemGoroutineCount(count int) { globalManager.UpdateSystemGoroutineCount(count) }

// GetRegistry returns the registry the global manager writes to.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
