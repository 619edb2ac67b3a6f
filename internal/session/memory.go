package session

import (
	"context"
	"sync"
)

// MemoryStore implements the Store interface using in-memory storage
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

// NewMemoryStore creates a new memory store instance
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]map[string]string),
	}
}

// Get retrieves a value for the given session and key
func (s *MemoryStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if values, ok := s.sessions[sessionID]; ok {
		if v, ok := values[key]; ok {
			return v, nil
		}
	}
	return "", ErrKeyNotFound
}

// Set stores a value for the given session and key
func (s *MemoryStore) Set(ctx context.Context, sessionID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, ok := s.sessions[sessionID]
	if !ok {
		values = make(map[string]string)
		s.sessions[sessionID] = values
	}
	values[key] = value
	return nil
}

// Delete removes the given keys from a session
func (s *MemoryStore) Delete(ctx context.Context, sessionID string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	for _, key := range keys {
		delete(values, key)
	}
	if len(values) == 0 {
		delete(s.sessions, sessionID)
	}
	return nil
}

// Clear removes all keys for a session
func (s *MemoryStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

// Close releases any resources held by the store
func (s *MemoryStore) Close() error {
	return nil
}
