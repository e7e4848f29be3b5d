package memory

import (
	"context"
	"sync"

	"go-profile-builder/internal/domain"
)

type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewSessionStore() domain.SessionStore {
	return &sessionStore{sessions: map[string]domain.Session{}}
}

func (s *sessionStore) Get(ctx context.Context, userID string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, nil
	}
	out := sess
	return &out, nil
}

func (s *sessionStore) Set(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	s.sessions[session.UserID] = *session
	s.mu.Unlock()
	return nil
}

func (s *sessionStore) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
	return nil
}
