package domain

import (
	"context"
	"time"
)

// SessionTTL is the fixed window after which a session goes stale.
const SessionTTL = 24 * time.Hour

// Session mirrors the client's stored session object. LoginTime anchors the
// 24-hour staleness window.
type Session struct {
	UserID    string    `json:"user_id"`
	ProfileID string    `json:"profile_id"`
	Email     string    `json:"email"`
	LoginTime time.Time `json:"login_time"`
}

// Valid reports whether the session can still authorize requests: identity
// fields must be present and the login must be younger than ttl.
func (s *Session) Valid(now time.Time, ttl time.Duration) bool {
	if s == nil {
		return false
	}
	if s.UserID == "" || s.Email == "" {
		return false
	}
	if s.LoginTime.IsZero() {
		return false
	}
	return now.Sub(s.LoginTime) <= ttl
}

// SessionStore persists sessions keyed by user ID. Injected so tests swap in
// an in-memory fake. Get returns (nil, nil) when no session exists.
type SessionStore interface {
	Get(ctx context.Context, userID string) (*Session, error)
	Set(ctx context.Context, session *Session) error
	Clear(ctx context.Context, userID string) error
}

type SessionUsecase interface {
	// Login records a session and issues a signed token carrying it.
	Login(ctx context.Context, userID, profileID, email string) (string, *Session, error)

	// Authenticate parses a token, checks the store and the staleness
	// window, and returns the live session.
	Authenticate(ctx context.Context, token string) (*Session, error)

	// Logout clears the stored session.
	Logout(ctx context.Context, userID string) error
}
