package testutil

import (
	"sync"
	"time"

	"ctd/internal/models"
	"ctd/internal/providers"
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

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu          sync.Mutex
	Requests    int
	CacheHits   int
	CacheMisses int
	Transitions map[string]int
	Fetches     map[string]int
	Running     bool
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) IncTransitions(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Transitions == nil {
		m.Transitions = make(map[string]int)
	}
	m.Transitions[kind]++
}
func (m *MockMetrics) IncFetches(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fetches == nil {
		m.Fetches = make(map[string]int)
	}
	m.Fetches[outcome]++
}
func (m *MockMetrics) ObserveFetchDuration(_ time.Duration)       {}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {}
func (m *MockMetrics) SetTimerRunning(running bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Running = running
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockJournal implements interfaces.JournalInterface.
type MockJournal struct {
	mu      sync.Mutex
	Entries []*models.TransitionEvent
}

func (m *MockJournal) Record(kind models.TransitionKind, caseID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, &models.TransitionEvent{CaseID: caseID, Kind: kind, At: time.Now()})
}

func (m *MockJournal) Events() []*models.TransitionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.TransitionEvent, len(m.Entries))
	copy(out, m.Entries)
	return out
}

func (m *MockJournal) PutEvents(events []*models.TransitionEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = events
}

func (m *MockJournal) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Entries)
}

// Kinds returns the recorded transition kinds in order.
func (m *MockJournal) Kinds() []models.TransitionKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	kinds := make([]models.TransitionKind, len(m.Entries))
	for i, e := range m.Entries {
		kinds[i] = e.Kind
	}
	return kinds
}
