package store

import (
	"context"
	"sync"

	"kycdesk/pkg/platform/sentinel"
)

// InMemory is a process-local KV. Its contents die with the process.
type InMemory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewInMemory returns an empty in-memory KV.
func NewInMemory() *InMemory {
	return &InMemory{data: make(map[string]string)}
}

func (s *InMemory) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.data[key]; ok {
		return v, nil
	}
	return "", sentinel.ErrNotFound
}

func (s *InMemory) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Delete removes key. Used to simulate external edits in tests.
func (s *InMemory) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *InMemory) Ping(context.Context) error {
	return nil
}
