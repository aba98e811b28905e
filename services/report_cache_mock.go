package services

import (
	"context"
	"sync"
	"time"
)

// MockReportCache is an in-memory ReportCache for testing
type MockReportCache struct {
	entries map[string][]byte
	ttls    map[string]time.Duration
	GetErr  error
	SetErr  error
	mu      sync.RWMutex
}

// NewMockReportCache creates an empty mock cache
func NewMockReportCache() *MockReportCache {
	return &MockReportCache{
		entries: make(map[string][]byte),
		ttls:    make(map[string]time.Duration),
	}
}

// Get returns a stored entry
func (m *MockReportCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.entries[key]
	return val, ok, nil
}

// Set stores an entry and remembers its ttl
func (m *MockReportCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	m.ttls[key] = ttl
	return nil
}

// TTL returns the ttl an entry was stored with (for testing assertions)
func (m *MockReportCache) TTL(key string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ttls[key]
}

// Keys returns every stored key (for testing assertions)
func (m *MockReportCache) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	return keys
}
