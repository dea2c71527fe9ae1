package storage

import (
	"context"
	"sync"
)

type memoryStorage struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemory returns a process-local Storage. Values are copied in and out.
func NewMemory() Storage {
	return &memoryStorage{entries: make(map[string][]byte)}
}

func (s *memoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (s *memoryStorage) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = append([]byte(nil), value...)
	return nil
}

func (s *memoryStorage) Ping(context.Context) error {
	return nil
}
