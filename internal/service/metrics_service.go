package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/sternfield-timetable/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	buildDuration   *prometheus.HistogramVec
	lookupErrors    *prometheus.CounterVec
	storeDuration   *prometheus.HistogramVec
	reminders       *prometheus.CounterVec
	timetableSize   prometheus.Gauge

	cacheHitCount        uint64
	cacheMissCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
	buildCount           uint64
	buildDurationTotal   uint64
	storeQueryCount      uint64
	reminderCount        uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	buildDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timetable_schedule_build_seconds",
		Help:    "Duration of teacher day schedule builds",
		Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
	}, []string{"result"})

	lookupErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_lookup_errors_total",
		Help: "Timetable lookups that failed, by error code",
	}, []string{"code"})

	storeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "assignment_store_duration_seconds",
		Help:    "Duration of assignment store operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	reminders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_reminders_total",
		Help: "Lesson reminders handed to the notification sink, by outcome",
	}, []string{"outcome"})

	timetableSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_entries",
		Help: "Number of indexed timetable entries",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		buildDuration, lookupErrors, storeDuration, reminders, timetableSize, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHitRatio:   cacheHitRatio,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		buildDuration:   buildDuration,
		lookupErrors:    lookupErrors,
		storeDuration:   storeDuration,
		reminders:       reminders,
		timetableSize:   timetableSize,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveScheduleBuild records one day schedule build. code is empty on
// success.
func (m *MetricsService) ObserveScheduleBuild(code string, duration time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if code != "" {
		result = "error"
		m.lookupErrors.WithLabelValues(code).Inc()
	}
	m.buildDuration.WithLabelValues(result).Observe(duration.Seconds())
	atomic.AddUint64(&m.buildCount, 1)
	atomic.AddUint64(&m.buildDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordLookupError counts a failed lookup outside of schedule builds.
func (m *MetricsService) RecordLookupError(code string) {
	if m == nil || code == "" {
		return
	}
	m.lookupErrors.WithLabelValues(code).Inc()
}

// ObserveStoreOperation records assignment store timing.
func (m *MetricsService) ObserveStoreOperation(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.storeDuration.WithLabelValues(operation).Observe(duration.Seconds())
	atomic.AddUint64(&m.storeQueryCount, 1)
}

// RecordReminder counts a reminder hand-off; delivered is false when the
// sink rejected it.
func (m *MetricsService) RecordReminder(delivered bool) {
	if m == nil {
		return
	}
	if delivered {
		m.reminders.WithLabelValues("queued").Inc()
		atomic.AddUint64(&m.reminderCount, 1)
		return
	}
	m.reminders.WithLabelValues("dropped").Inc()
}

// SetTimetableSize publishes the number of indexed entries.
func (m *MetricsService) SetTimetableSize(entries int) {
	if m == nil {
		return
	}
	m.timetableSize.Set(float64(entries))
}

// Snapshot returns aggregated metrics suitable for the health endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	builds := atomic.LoadUint64(&m.buildCount)
	buildDuration := atomic.LoadUint64(&m.buildDurationTotal)

	var cacheRatio float64
	if totalLookups := hits + misses; totalLookups > 0 {
		cacheRatio = float64(hits) / float64(totalLookups)
	}

	return models.SystemMetrics{
		CacheHitRatio:            cacheRatio,
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: averageMs(reqDuration, requests),
		ScheduleBuilds:           builds,
		AverageBuildDurationMs:   averageMs(buildDuration, builds),
		StoreQueries:             atomic.LoadUint64(&m.storeQueryCount),
		RemindersSent:            atomic.LoadUint64(&m.reminderCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}

func averageMs(totalNanos, count uint64) float64 {
	if count == 0 {
		return 0
	}
	return float64(totalNanos) / float64(count) / float64(time.Millisecond)
}
