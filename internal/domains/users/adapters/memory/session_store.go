package memory

import (
	"context"
	"sync"
	"time"

	"github.com/devsuperior/dscommerce/internal/domains/users/ports"
)

type session struct {
	username  string
	expiresAt time.Time
}

func (s session) expired(now time.Time) bool {
	return !s.expiresAt.IsZero() && !now.Before(s.expiresAt)
}

// SessionStore is an in-memory SessionStore implementation.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[string]session{}, now: time.Now}
}

func (s *SessionStore) Save(_ context.Context, username, tokenID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[tokenID] = session{username: username, expiresAt: expiresAt}
	return nil
}

func (s *SessionStore) Exists(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[tokenID]
	if !ok {
		return false, nil
	}
	if sess.expired(s.now()) {
		delete(s.sessions, tokenID)
		return false, nil
	}
	return true, nil
}

// PurgeExpired drops sessions past their expiry, including tokens never seen again.
func (s *SessionStore) PurgeExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var removed int64
	for id, sess := range s.sessions {
		if sess.expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (s *SessionStore) Delete(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if sess.username == username {
			delete(s.sessions, id)
		}
	}
	return nil
}

var _ ports.SessionStore = (*SessionStore)(nil)
