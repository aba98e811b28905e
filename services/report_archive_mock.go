package services

import (
	"context"
	"fmt"
	"sync"
)

// MockReportArchive is an in-memory ReportArchive for testing
type MockReportArchive struct {
	objects      map[string][]byte
	contentTypes map[string]string
	UploadErr    error
	mu           sync.RWMutex
}

// NewMockReportArchive creates an empty mock archive
func NewMockReportArchive() *MockReportArchive {
	return &MockReportArchive{
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

// Upload simulates storing an object
func (m *MockReportArchive) Upload(_ context.Context, key, contentType string, body []byte) error {
	if m.UploadErr != nil {
		return m.UploadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = body
	m.contentTypes[key] = contentType
	return nil
}

// PresignedURL simulates signing a download link
func (m *MockReportArchive) PresignedURL(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	_, exists := m.objects[key]
	m.mu.RUnlock()
	if !exists {
		return "", fmt.Errorf("object not found in mock archive: %s", key)
	}
	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", key), nil
}

// GetObjects returns all stored objects (for testing assertions)
func (m *MockReportArchive) GetObjects() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	objects := make(map[string][]byte, len(m.objects))
	for k, v := range m.objects {
		objects[k] = v
	}
	return objects
}

// ContentType returns the content type an object was stored with
func (m *MockReportArchive) ContentType(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.contentTypes[key]
}
