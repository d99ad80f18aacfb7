package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the review gateway.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	transitions     *prometheus.CounterVec
	bulkSize        prometheus.Histogram
	documentProbes  *prometheus.CounterVec
	probesPerLookup prometheus.Histogram
	regionFallbacks prometheus.Counter
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	cacheHitCount  uint64
	cacheMissCount uint64
}

// NewMetricsService registers the collectors on a private registry.
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

	upstreamLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "submissions_backend_duration_seconds",
		Help:    "Latency of calls to the submissions backend",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "outcome"})

	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "submission_transitions_total",
		Help: "Status transitions attempted, by target status and outcome",
	}, []string{"target", "outcome"})

	bulkSize := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "submission_bulk_transition_size",
		Help:    "Number of submissions per bulk transition",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
	})

	documentProbes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "document_probes_total",
		Help: "Document name candidates probed, by result",
	}, []string{"result"})

	probesPerLookup := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "document_probes_per_resolve",
		Help:    "Candidates probed before a document resolve finished",
		Buckets: []float64{1, 2, 3, 4, 5, 6},
	})

	regionFallbacks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "region_tagging_fallbacks_total",
		Help: "Submissions tagged with the default region after a detail fetch failed",
	})

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

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, upstreamLatency, transitions, bulkSize,
		documentProbes, probesPerLookup, regionFallbacks, cacheLatency, cacheWrite, cacheHitRatio,
		cacheHits, cacheMisses, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		upstreamLatency: upstreamLatency,
		transitions:     transitions,
		bulkSize:        bulkSize,
		documentProbes:  documentProbes,
		probesPerLookup: probesPerLookup,
		regionFallbacks: regionFallbacks,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHitRatio:   cacheHitRatio,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
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

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveUpstream records one submissions-backend call.
func (m *MetricsService) ObserveUpstream(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	m.upstreamLatency.WithLabelValues(operation, outcomeLabel(err)).Observe(duration.Seconds())
}

// RecordTransition counts one submission status change attempt.
func (m *MetricsService) RecordTransition(target string, err error) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(target, outcomeLabel(err)).Inc()
}

// ObserveBulkSize tracks how many submissions a bulk action touched.
func (m *MetricsService) ObserveBulkSize(n int) {
	if m == nil {
		return
	}
	m.bulkSize.Observe(float64(n))
}

// RecordDocumentProbe counts a single candidate lookup: "hit", "miss" or "error".
func (m *MetricsService) RecordDocumentProbe(result string) {
	if m == nil {
		return
	}
	m.documentProbes.WithLabelValues(result).Inc()
}

// ObserveDocumentResolve tracks how many candidates one resolve needed.
func (m *MetricsService) ObserveDocumentResolve(probes int) {
	if m == nil {
		return
	}
	m.probesPerLookup.Observe(float64(probes))
}

// RecordRegionFallback counts a row defaulted after its detail fetch failed.
func (m *MetricsService) RecordRegionFallback() {
	if m == nil {
		return
	}
	m.regionFallbacks.Inc()
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

func outcomeLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
