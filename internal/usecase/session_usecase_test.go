package usecase_test

import (
	"context"
	"testing"
	"time"

	"go-profile-builder/internal/domain"
	"go-profile-builder/internal/repository/memory"
	"go-profile-builder/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestSessionRoundTrip(t *testing.T) {
	store := memory.NewSessionStore()
	uc := usecase.NewSessionUsecase(store, testSecret, domain.SessionTTL)

	ctx := context.Background()

	token, session, err := uc.Login(ctx, "user1", "profile1", "jane@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "user1", session.UserID)

	got, err := uc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user1", got.UserID)
	assert.Equal(t, "profile1", got.ProfileID)
	assert.Equal(t, "jane@example.com", got.Email)
}

func TestSessionStaleness(t *testing.T) {
	store := memory.NewSessionStore()
	uc := usecase.NewSessionUsecase(store, testSecret, domain.SessionTTL)

	ctx := context.Background()

	token, _, err := uc.Login(ctx, "user1", "profile1", "jane@example.com")
	require.NoError(t, err)

	// Age the stored session past the 24h window.
	require.NoError(t, store.Set(ctx, &domain.Session{
		UserID:    "user1",
		ProfileID: "profile1",
		Email:     "jane@example.com",
		LoginTime: time.Now().Add(-25 * time.Hour),
	}))

	_, err = uc.Authenticate(ctx, token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")

	// The stale session is cleared on rejection.
	stored, err := store.Get(ctx, "user1")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestSessionTokenValidation(t *testing.T) {
	uc := usecase.NewSessionUsecase(memory.NewSessionStore(), testSecret, domain.SessionTTL)
	ctx := context.Background()

	t.Run("Garbage token is rejected", func(t *testing.T) {
		_, err := uc.Authenticate(ctx, "not.a.token")
		assert.Error(t, err)
	})

	t.Run("Empty token is rejected", func(t *testing.T) {
		_, err := uc.Authenticate(ctx, "")
		assert.Error(t, err)
	})

	t.Run("Token signed with another secret is rejected", func(t *testing.T) {
		other := usecase.NewSessionUsecase(memory.NewSessionStore(), "other-secret", domain.SessionTTL)
		token, _, err := other.Login(ctx, "user1", "", "jane@example.com")
		require.NoError(t, err)

		_, err = uc.Authenticate(ctx, token)
		assert.Error(t, err)
	})
}

func TestSessionLogout(t *testing.T) {
	store := memory.NewSessionStore()
	uc := usecase.NewSessionUsecase(store, testSecret, domain.SessionTTL)

	ctx := context.Background()
	token, _, err := uc.Login(ctx, "user1", "", "jane@example.com")
	require.NoError(t, err)

	t.Run("Logout is self-only", func(t *testing.T) {
		err := uc.Logout(authCtx("user2"), "user1")
		assert.Error(t, err)
	})

	t.Run("Logout invalidates the token", func(t *testing.T) {
		require.NoError(t, uc.Logout(authCtx("user1"), "user1"))

		_, err := uc.Authenticate(ctx, token)
		assert.Error(t, err)

		stored, err := store.Get(ctx, "user1")
		require.NoError(t, err)
		assert.Nil(t, stored)
	})
}
