// Package memory holds in-process stores. Sessions are per-process state;
// they vanish on restart, which only costs users a sign-in.
package memory

import (
	"context"
	"sync"

	"skinsight/application/ports"
	"skinsight/domain/routine"
)

// SessionStore keeps active sessions in a map guarded by a RWMutex.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*ports.Session
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*ports.Session)}
}

// Put stores a session, replacing any existing session with the same ID.
func (s *SessionStore) Put(_ context.Context, session *ports.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

// Get retrieves a session by ID.
func (s *SessionStore) Get(_ context.Context, id string) (*ports.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ports.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

// SetRoutine replaces the routine mirror of an existing session.
func (s *SessionStore) SetRoutine(_ context.Context, id string, r routine.Routine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return ports.ErrSessionNotFound
	}
	session.Routine = r
	return nil
}

// Delete removes a session. Absent sessions are ignored.
func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

var _ ports.SessionStore = (*SessionStore)(nil)
