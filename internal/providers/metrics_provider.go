package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"avatard/internal/structures"
)

// StoreObserver is the slice of the record store the gauges need.
type StoreObserver interface {
	Len() int
	MemoryBytes() int
}

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncResponseCacheHits()
	IncResponseCacheMisses()
	IncRecordCacheHit()
	IncRecordCacheMiss()
	IncResolutionShared()
	IncProviderAttempt(source string)
	IncProviderSuccess(source string)
	IncProviderFailure(source string)
	IncResolution(source string)
	ObserveResolveDuration(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	responseCacheHits prometheus.Counter
	responseCacheMiss prometheus.Counter
	recordCacheHits   prometheus.Counter
	recordCacheMisses prometheus.Counter
	resolutionsShared prometheus.Counter
	providerAttempts  *prometheus.CounterVec
	providerSuccesses *prometheus.CounterVec
	providerFailures  *prometheus.CounterVec
	resolutionsTotal  *prometheus.CounterVec
	resolveDuration   prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncResponseCacheHits()   { m.responseCacheHits.Inc() }
func (m *MetricsProvider) IncResponseCacheMisses() { m.responseCacheMiss.Inc() }
func (m *MetricsProvider) IncRecordCacheHit()      { m.recordCacheHits.Inc() }
func (m *MetricsProvider) IncRecordCacheMiss()     { m.recordCacheMisses.Inc() }
func (m *MetricsProvider) IncResolutionShared()    { m.resolutionsShared.Inc() }

func (m *MetricsProvider) IncProviderAttempt(source string) {
	m.providerAttempts.WithLabelValues(source).Inc()
}

func (m *MetricsProvider) IncProviderSuccess(source string) {
	m.providerSuccesses.WithLabelValues(source).Inc()
}

func (m *MetricsProvider) IncProviderFailure(source string) {
	m.providerFailures.WithLabelValues(source).Inc()
}

func (m *MetricsProvider) IncResolution(source string) {
	m.resolutionsTotal.WithLabelValues(source).Inc()
}

func (m *MetricsProvider) ObserveResolveDuration(duration time.Duration) {
	m.resolveDuration.Observe(duration.Seconds())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, store StoreObserver) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "avatard_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "avatard_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		responseCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "avatard_response_cache_hits_total",
			Help: "Total number of response cache hits",
		}),

		responseCacheMiss: promauto.NewCounter(prometheus.CounterOpts{
			Name: "avatard_response_cache_misses_total",
			Help: "Total number of response cache misses",
		}),

		recordCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "avatard_record_cache_hits_total",
			Help: "Total number of avatar record store hits",
		}),

		recordCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "avatard_record_cache_misses_total",
			Help: "Total number of avatar record store misses",
		}),

		resolutionsShared: promauto.NewCounter(prometheus.CounterOpts{
			Name: "avatard_resolutions_shared_total",
			Help: "Resolutions deduplicated onto an in-flight fetch for the same identity",
		}),

		providerAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "avatard_provider_attempts_total",
			Help: "Avatar provider fetch attempts",
		}, []string{"source"}),

		providerSuccesses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "avatard_provider_successes_total",
			Help: "Avatar provider fetches that produced a validated image",
		}, []string{"source"}),

		providerFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "avatard_provider_failures_total",
			Help: "Avatar provider fetches that failed or were rejected",
		}, []string{"source"}),

		resolutionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "avatard_resolutions_total",
			Help: "Completed resolutions by winning source",
		}, []string{"source"}),

		resolveDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "avatard_resolve_duration_seconds",
			Help:    "End to end resolution duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "avatard_store_entries",
		Help: "Current number of records in the avatar store",
	}, func() float64 {
		return float64(store.Len())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "avatard_store_memory_bytes",
		Help: "Estimated memory held by the avatar store",
	}, func() float64 {
		return float64(store.MemoryBytes())
	})

	return m
}

type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncResponseCacheHits()                            {}
func (n *noopMetrics) IncResponseCacheMisses()                          {}
func (n *noopMetrics) IncRecordCacheHit()                               {}
func (n *noopMetrics) IncRecordCacheMiss()                              {}
func (n *noopMetrics) IncResolutionShared()                             {}
func (n *noopMetrics) IncProviderAttempt(_ string)                      {}
func (n *noopMetrics) IncProviderSuccess(_ string)                      {}
func (n *noopMetrics) IncProviderFailure(_ string)                      {}
func (n *noopMetrics) IncResolution(_ string)                           {}
func (n *noopMetrics) ObserveResolveDuration(_ time.Duration)           {}
