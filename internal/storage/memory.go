package storage

import (
	"context"
	"sync"
)

// MemoryStore implements Store with in-memory storage. Used by tests and as
// a fallback when no durable backend is configured; contents do not survive
// a process restart.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs: make(map[string]string),
	}
}

func (s *MemoryStore) Read(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.blobs[key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (s *MemoryStore) Write(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[key] = value
	return nil
}
