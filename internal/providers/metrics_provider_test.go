package providers

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"avatard/internal/structures"
)

// --- minimal mock for StoreObserver ---

type metricsTestStore struct{}

func (m *metricsTestStore) Len() int         { return 5 }
func (m *metricsTestStore) MemoryBytes() int { return 1024 }

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf, &metricsTestStore{})
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	// Ensure no-op methods don't panic
	m.IncRequestsTotal("/test", 200)
	m.ObserveRequestDuration("/test", time.Millisecond)
	m.IncResponseCacheHits()
	m.IncResponseCacheMisses()
	m.IncRecordCacheHit()
	m.IncRecordCacheMiss()
	m.IncResolutionShared()
	m.IncProviderAttempt("scraper")
	m.IncProviderSuccess("scraper")
	m.IncProviderFailure("scraper")
	m.IncResolution("scraper")
	m.ObserveResolveDuration(time.Millisecond)
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	defer func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	}()

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf, &metricsTestStore{})
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return MetricsProvider when enabled")
}

func TestMetricsProvider_IncrementCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	defer func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	}()

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf, &metricsTestStore{})

	// These should not panic
	m.IncRequestsTotal("/profile", 200)
	m.IncRequestsTotal("/profile", 404)
	m.ObserveRequestDuration("/profile", 5*time.Millisecond)
	m.IncResponseCacheHits()
	m.IncResponseCacheMisses()
	m.IncRecordCacheHit()
	m.IncRecordCacheMiss()
	m.IncResolutionShared()
	m.IncProviderAttempt("live")
	m.IncProviderSuccess("scraper")
	m.IncProviderFailure("generator")
	m.IncResolution("initials")
	m.ObserveResolveDuration(100 * time.Millisecond)
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{404, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
