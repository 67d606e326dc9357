package testutil

import (
	"context"
	"sync"
	"time"
	"vibes/internal/models"
	"vibes/internal/providers"
	"vibes/internal/services"
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

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockCollectionService implements the backup-facing part of
// services.CollectionServiceInterface. Other methods panic through the
// embedded nil interface.
type MockCollectionService struct {
	services.CollectionServiceInterface

	mu           sync.Mutex
	Snapshot     map[string]models.CollectionState
	SnapshotErr  error
	Restored     []map[string]models.CollectionState
	RestoreErr   error
	Dirty        bool
	MarkDirtyCnt int
}

func (m *MockCollectionService) SnapshotAll(_ context.Context) (map[string]models.CollectionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Snapshot, m.SnapshotErr
}

func (m *MockCollectionService) RestoreAll(_ context.Context, all map[string]models.CollectionState) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RestoreErr != nil {
		return false, m.RestoreErr
	}
	m.Restored = append(m.Restored, all)
	return len(all) > 0, nil
}

func (m *MockCollectionService) TakeDirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.Dirty
	m.Dirty = false
	return d
}

func (m *MockCollectionService) MarkDirty() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Dirty = true
	m.MarkDirtyCnt++
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
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
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

func (m *MockCompressor) Close() {
	m.Closed = true
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu               sync.Mutex
	PersistenceCalls int
	DeckSaves        map[string]int
	UpvoteToggles    int
	CollectionWrites map[string]int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                    {}
func (m *MockMetrics) IncCacheMisses()                                  {}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistenceCalls++
}

func (m *MockMetrics) IncDeckSaves(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeckSaves == nil {
		m.DeckSaves = make(map[string]int)
	}
	m.DeckSaves[kind]++
}

func (m *MockMetrics) IncUpvoteToggles(_ bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpvoteToggles++
}

func (m *MockMetrics) IncCollectionWrites(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CollectionWrites == nil {
		m.CollectionWrites = make(map[string]int)
	}
	m.CollectionWrites[op]++
}

// Persisted returns the number of observed backup writes.
func (m *MockMetrics) Persisted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PersistenceCalls
}
