package session

import (
	"errors"
	"sync"
)

var ErrNoSession = errors.New("no session id")

// Store holds values scoped to a user session.
type Store interface {
	// Get returns the value stored under key for the session. The bool
	// result is false if no value is present.
	Get(sessionID, key string) (any, bool, error)

	// Set stores a value under key for the session.
	Set(sessionID, key string, value any) error

	// Clear drops all values of the session.
	Clear(sessionID string) error
}

// MemoryStore is a Store backed by process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]map[string]any
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]map[string]any),
	}
}

func (s *MemoryStore) Get(sessionID, key string) (any, bool, error) {
	if sessionID == "" {
		return nil, false, ErrNoSession
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	values, ok := s.sessions[sessionID]
	if !ok {
		return nil, false, nil
	}

	value, ok := values[key]
	return value, ok, nil
}

func (s *MemoryStore) Set(sessionID, key string, value any) error {
	if sessionID == "" {
		return ErrNoSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, ok := s.sessions[sessionID]
	if !ok {
		values = make(map[string]any)
		s.sessions[sessionID] = values
	}

	values[key] = value

	return nil
}

func (s *MemoryStore) Clear(sessionID string) error {
	if sessionID == "" {
		return ErrNoSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)

	return nil
}
