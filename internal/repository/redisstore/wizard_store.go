package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-profile-builder/internal/domain"

	"github.com/redis/go-redis/v9"
)

// Wizard state lives under wizard:state:<userID> with a sliding TTL. The
// upstream API is the durable store; this only has to outlive the session.
const (
	wizardKeyPrefix = "wizard:state:"
	wizardStateTTL  = 48 * time.Hour
)

type wizardStore struct {
	client *redis.Client
}

func NewWizardStore(client *redis.Client) domain.WizardStateStore {
	return &wizardStore{client: client}
}

func (s *wizardStore) Get(ctx context.Context, userID string) (*domain.WizardState, error) {
	raw, err := s.client.Get(ctx, wizardKeyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var state domain.WizardState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *wizardStore) Set(ctx context.Context, state *domain.WizardState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, wizardKeyPrefix+state.UserID, raw, wizardStateTTL).Err()
}

func (s *wizardStore) Clear(ctx context.Context, userID string) error {
	return s.client.Del(ctx, wizardKeyPrefix+userID).Err()
}
