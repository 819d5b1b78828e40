package store

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory хранит значения в памяти (dev/test use).
type Memory struct {
	mu     sync.RWMutex
	values map[string]json.RawMessage
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]json.RawMessage)}
}

func (s *Memory) Get(_ context.Context, key string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}

	out := make(json.RawMessage, len(value))
	copy(out, value)
	return out, nil
}

func (s *Memory) Set(_ context.Context, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make(json.RawMessage, len(value))
	copy(stored, value)
	s.values[key] = stored
	return nil
}

func (s *Memory) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}
