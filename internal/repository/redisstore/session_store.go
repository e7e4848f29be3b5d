package redisstore

import (
	"context"
	"encoding/json"
	"errors"

	"go-profile-builder/internal/domain"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

type sessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) domain.SessionStore {
	return &sessionStore{client: client}
}

func (s *sessionStore) Get(ctx context.Context, userID string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *sessionStore) Set(ctx context.Context, session *domain.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	// Key expiry matches the session staleness window so stale sessions
	// clean themselves up.
	return s.client.Set(ctx, sessionKeyPrefix+session.UserID, raw, domain.SessionTTL).Err()
}

func (s *sessionStore) Clear(ctx context.Context, userID string) error {
	return s.client.Del(ctx, sessionKeyPrefix+userID).Err()
}
