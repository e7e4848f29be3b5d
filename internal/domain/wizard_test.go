package domain_test

import (
	"testing"
	"time"

	"go-profile-builder/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestCanNavigateTo(t *testing.T) {
	state := domain.NewWizardState("user1")
	state.CurrentStep = 2
	state.Completed = map[int]bool{0: true, 1: true, 4: true}

	t.Run("Backwards is always allowed", func(t *testing.T) {
		assert.True(t, state.CanNavigateTo(0))
		assert.True(t, state.CanNavigateTo(1))
	})

	t.Run("Current step is allowed", func(t *testing.T) {
		assert.True(t, state.CanNavigateTo(2))
	})

	t.Run("Forward jump to completed step is allowed", func(t *testing.T) {
		assert.True(t, state.CanNavigateTo(4))
	})

	t.Run("Forward jump to unvisited step is blocked", func(t *testing.T) {
		assert.False(t, state.CanNavigateTo(3))
		assert.False(t, state.CanNavigateTo(5))
	})

	t.Run("Out of range is blocked", func(t *testing.T) {
		assert.False(t, state.CanNavigateTo(-1))
		assert.False(t, state.CanNavigateTo(domain.StepCount()))
	})
}

func TestCompletedSteps(t *testing.T) {
	state := domain.NewWizardState("user1")
	state.Completed = map[int]bool{3: true, 0: true, 1: true}

	assert.Equal(t, []int{0, 1, 3}, state.CompletedSteps())
}

func TestSessionValid(t *testing.T) {
	now := time.Now()

	t.Run("Fresh session is valid", func(t *testing.T) {
		s := &domain.Session{UserID: "user1", Email: "u@example.com", LoginTime: now.Add(-time.Hour)}
		assert.True(t, s.Valid(now, domain.SessionTTL))
	})

	t.Run("Exactly 24h old is still valid", func(t *testing.T) {
		s := &domain.Session{UserID: "user1", Email: "u@example.com", LoginTime: now.Add(-domain.SessionTTL)}
		assert.True(t, s.Valid(now, domain.SessionTTL))
	})

	t.Run("25h old session is stale", func(t *testing.T) {
		s := &domain.Session{UserID: "user1", Email: "u@example.com", LoginTime: now.Add(-25 * time.Hour)}
		assert.False(t, s.Valid(now, domain.SessionTTL))
	})

	t.Run("Missing identity fields invalidate", func(t *testing.T) {
		s := &domain.Session{UserID: "user1", LoginTime: now}
		assert.False(t, s.Valid(now, domain.SessionTTL))
	})

	t.Run("Nil session is invalid", func(t *testing.T) {
		var s *domain.Session
		assert.False(t, s.Valid(now, domain.SessionTTL))
	})
}
