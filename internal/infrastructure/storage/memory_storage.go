package storage

import (
	"context"
	"sync"
)

// StoredObject is an object kept by MemoryReportStorage
type StoredObject struct {
	ContentType string
	Body        []byte
}

// MemoryReportStorage keeps reports in process memory.
// It backs exports when no bucket is configured.
type MemoryReportStorage struct {
	mu      sync.RWMutex
	objects map[string]StoredObject
}

var _ ReportStorage = (*MemoryReportStorage)(nil)

// NewMemoryReportStorage creates an empty in-memory storage
func NewMemoryReportStorage() *MemoryReportStorage {
	return &MemoryReportStorage{objects: make(map[string]StoredObject)}
}

// Put implements ReportStorage
func (s *MemoryReportStorage) Put(_ context.Context, key, contentType string, body []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = StoredObject{ContentType: contentType, Body: append([]byte(nil), body...)}
	return nil
}

// Get returns the object stored under key
func (s *MemoryReportStorage) Get(key string) (StoredObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}

// Len returns the number of stored objects
func (s *MemoryReportStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
