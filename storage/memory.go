package storage

import (
	"context"
	"sync"

	"github.com/CreativeUnicorns/themeprefs"
)

// MemoryStore implements the Store interface using an in-memory map.
// This is useful for testing or simple applications where persistence is not required.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	closed bool
}

// NewMemoryStore creates a new instance of MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
	}
}

// Get returns the value stored under key, or themeprefs.ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", themeprefs.ErrStorageUnavailable
	}

	v, ok := s.values[key]
	if !ok {
		return "", themeprefs.ErrNotFound
	}
	return v, nil
}

// Set stores value under key, replacing any previous value.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return themeprefs.ErrStorageUnavailable
	}

	s.values[key] = value
	return nil
}

// Len returns the number of stored keys.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Close marks the store unavailable. Stored values are dropped.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.values = make(map[string]string)
	return nil
}
