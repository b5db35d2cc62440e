package memory

import (
	"context"
	"sync"
)

// ProgressStorage is an in-memory implementation of progress.Storage.
type ProgressStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewProgressStorage() *ProgressStorage {
	return &ProgressStorage{values: make(map[string]string)}
}

func (s *ProgressStorage) Load(_ context.Context, keys []string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := s.values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (s *ProgressStorage) Save(_ context.Context, values map[string]string, absent []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.values[k] = v
	}
	for _, k := range absent {
		delete(s.values, k)
	}
	return nil
}

// Get exposes a raw value for inspection.
func (s *ProgressStorage) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}
