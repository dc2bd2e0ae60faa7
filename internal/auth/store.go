package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// SessionStore persists session profiles keyed by session id. This is the
// server-side counterpart of the browser's stored session entry: a corrupt
// record is deleted and treated as logged out, never surfaced as an error to
// the user.
type SessionStore interface {
	Put(ctx context.Context, sessionID string, profile Profile) error
	Get(ctx context.Context, sessionID string) (Profile, error)
	Delete(ctx context.Context, sessionID string) error
}

// InMemorySessionStore keeps serialized profiles in a map.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

// NewInMemorySessionStore creates an empty in-memory session store.
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{sessions: make(map[string][]byte)}
}

// Put stores the profile under the session id.
func (s *InMemorySessionStore) Put(ctx context.Context, sessionID string, profile Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("auth: marshal session profile: %w", err)
	}

	s.mu.Lock()
	s.sessions[sessionID] = data
	s.mu.Unlock()
	return nil
}

// Get loads the profile for a session id. A record that fails to parse is
// removed and reported as a missing session.
func (s *InMemorySessionStore) Get(ctx context.Context, sessionID string) (Profile, error) {
	s.mu.RLock()
	data, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return Profile{}, ErrSessionNotFound
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return Profile{}, ErrSessionNotFound
	}
	return p, nil
}

// Delete removes the session if present.
func (s *InMemorySessionStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

// putRaw is a test hook for seeding corrupt session records.
func (s *InMemorySessionStore) putRaw(sessionID string, data []byte) {
	s.mu.Lock()
	s.sessions[sessionID] = data
	s.mu.Unlock()
}
