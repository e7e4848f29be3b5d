package memory

import (
	"context"
	"encoding/json"
	"sync"

	"go-profile-builder/internal/domain"
)

// wizardStore keeps wizard state in process memory. Used in development and
// tests; production uses the redis-backed store so state survives restarts.
type wizardStore struct {
	mu     sync.RWMutex
	states map[string][]byte
}

func NewWizardStore() domain.WizardStateStore {
	return &wizardStore{states: map[string][]byte{}}
}

func (s *wizardStore) Get(ctx context.Context, userID string) (*domain.WizardState, error) {
	s.mu.RLock()
	raw, ok := s.states[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
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
	s.mu.Lock()
	s.states[state.UserID] = raw
	s.mu.Unlock()
	return nil
}

func (s *wizardStore) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	delete(s.states, userID)
	s.mu.Unlock()
	return nil
}
