package curation

import (
	"context"
	"sync"
)

// RejectedPayload is stored for identifiers a curator skipped.
const RejectedPayload = "null"

// Store keeps the payload recorded for each identifier.
type Store interface {
	// Put records payload for id, replacing any previous value.
	Put(ctx context.Context, id, payload string) error
	// Get returns the payload recorded for id and whether one exists.
	Get(ctx context.Context, id string) (string, bool, error)
	// Delete forgets id. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
	Close() error
}

// MemoryStore is a Store backed by a map.
type MemoryStore struct {
	mu       sync.RWMutex
	payloads map[string]string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{payloads: make(map[string]string)}
}

func (s *MemoryStore) Put(_ context.Context, id, payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads[id] = payload
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payloads[id]
	return p, ok, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.payloads, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
