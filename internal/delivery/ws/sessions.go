package ws

import (
	"sync"
	"time"

	"github.com/satriowb/syncpad/internal/domain"
	"github.com/satriowb/syncpad/internal/usecase"
)

// SessionStore maps connection ids to their mutable session state. It
// holds every live connection whether or not it has joined a room, and is
// rebuilt empty on restart.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.UserSession
	ids      *usecase.IdentityGenerator
}

// NewSessionStore creates an empty session store.
func NewSessionStore(ids *usecase.IdentityGenerator) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*domain.UserSession),
		ids:      ids,
	}
}

// Create allocates a session for the connection with a placeholder name
// and the next round-robin color, and returns a snapshot of it.
func (s *SessionStore) Create(connID string) domain.UserSession {
	name, color := s.ids.Next()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &domain.UserSession{
		ID:       connID,
		Name:     name,
		Color:    color,
		Avatar:   usecase.AvatarURL(connID),
		LastSeen: time.Now(),
	}
	s.sessions[connID] = sess
	return *sess
}

// Get returns a snapshot of the session, if present.
func (s *SessionStore) Get(connID string) (domain.UserSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[connID]
	if !ok {
		return domain.UserSession{}, false
	}
	return *sess, true
}

// Update applies the mutator under the store lock and returns the
// resulting snapshot. Mutations are immediately visible to subsequent
// reads for the same connection.
func (s *SessionStore) Update(connID string, mutate func(*domain.UserSession)) (domain.UserSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[connID]
	if !ok {
		return domain.UserSession{}, false
	}
	mutate(sess)
	sess.LastSeen = time.Now()
	return *sess, true
}

// Delete removes the session. Deleting an unknown id is a no-op.
func (s *SessionStore) Delete(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, connID)
}

// Count returns the number of live sessions.
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
