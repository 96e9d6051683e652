package testutil

import (
	"sync"
	"time"

	"avatard/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockCompressor implements interfaces.CompressorInterface as a passthrough.
type MockCompressor struct {
	CompressErr   error
	DecompressErr error
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressErr != nil {
		return nil, m.CompressErr
	}
	return val, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressErr != nil {
		return nil, m.DecompressErr
	}
	return val, nil
}

func (m *MockCompressor) Close() {}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu                sync.Mutex
	RecordHits        int
	RecordMisses      int
	ResolutionsShared int
	Attempts          map[string]int
	Successes         map[string]int
	Failures          map[string]int
	Resolutions       map[string]int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Attempts:    make(map[string]int),
		Successes:   make(map[string]int),
		Failures:    make(map[string]int),
		Resolutions: make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncResponseCacheHits()                            {}
func (m *MockMetrics) IncResponseCacheMisses()                          {}

func (m *MockMetrics) IncRecordCacheHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordHits++
}

func (m *MockMetrics) IncRecordCacheMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordMisses++
}

func (m *MockMetrics) IncResolutionShared() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResolutionsShared++
}

func (m *MockMetrics) IncProviderAttempt(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Attempts[source]++
}

func (m *MockMetrics) IncProviderSuccess(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Successes[source]++
}

func (m *MockMetrics) IncProviderFailure(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Failures[source]++
}

func (m *MockMetrics) IncResolution(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Resolutions[source]++
}

func (m *MockMetrics) ObserveResolveDuration(_ time.Duration) {}
