package providers

import (
	"sync"
	"time"
)

// shared fakes for provider tests

type testLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *testLogger) push(format string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, format)
}

func (l *testLogger) Errorf(_ TypeEnum, format string, _ ...interface{}) { l.push(format) }
func (l *testLogger) Warnf(_ TypeEnum, format string, _ ...interface{})  { l.push(format) }
func (l *testLogger) Debugf(_ TypeEnum, format string, _ ...interface{}) { l.push(format) }
func (l *testLogger) Infof(_ TypeEnum, format string, _ ...interface{})  { l.push(format) }
func (l *testLogger) Fatalf(_ TypeEnum, format string, _ ...interface{}) { l.push(format) }
func (l *testLogger) Close()                                             {}

func (l *testLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines)
}

type testMetrics struct {
	mu          sync.Mutex
	requests    int
	durations   int
	cacheHits   int
	cacheMisses int
	lastStatus  int
}

func (m *testMetrics) IncRequestsTotal(_ string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests++
	m.lastStatus = status
}

func (m *testMetrics) ObserveRequestDuration(_ string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations++
}

func (m *testMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheHits++
}

func (m *testMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheMisses++
}

func (m *testMetrics) IncTransitions(_ string)                    {}
func (m *testMetrics) IncFetches(_ string)                        {}
func (m *testMetrics) ObserveFetchDuration(_ time.Duration)       {}
func (m *testMetrics) ObservePersistenceDuration(_ time.Duration) {}
func (m *testMetrics) SetTimerRunning(_ bool)                     {}
