package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-profile-builder/internal/domain"
	"go-profile-builder/internal/repository/memory"
	"go-profile-builder/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakePool wraps a candidate list with call tracking and an optional hook
// fired on the first Candidates call, used to simulate a racing keystroke.
// With block set, Candidates stalls until the context is cancelled.
type fakePool struct {
	candidates []domain.AddressCandidate
	err        error
	calls      int
	onFirst    func()
	block      bool
}

func (p *fakePool) Candidates(ctx context.Context) ([]domain.AddressCandidate, error) {
	p.calls++
	if p.calls == 1 && p.onFirst != nil {
		p.onFirst()
	}
	if p.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.candidates, nil
}

func (p *fakePool) GetByID(ctx context.Context, id string) (*domain.AddressCandidate, error) {
	if p.err != nil {
		return nil, p.err
	}
	for i := range p.candidates {
		if p.candidates[i].ID == id {
			c := p.candidates[i]
			return &c, nil
		}
	}
	return nil, nil
}

func newAddressUC(pool domain.AddressPoolRepository, gateway domain.ProfileGateway) domain.AddressUsecase {
	return usecase.NewAddressUsecase(pool, gateway, memory.NewWizardStore(), usecase.AddressConfig{})
}

func TestAddressSearchShortQuery(t *testing.T) {
	pool := &fakePool{}
	uc := newAddressUC(pool, new(MockGateway))

	result, err := uc.Search(authCtx("user1"), "user1", "4 ", 0)
	require.NoError(t, err)
	assert.Empty(t, result.Candidates)
	assert.Equal(t, 0, pool.calls, "short queries never touch the repository")

	// The minimum counts characters, not bytes.
	result, err = uc.Search(authCtx("user1"), "user1", "日本", 0)
	require.NoError(t, err)
	assert.Empty(t, result.Candidates)
	assert.Equal(t, 0, pool.calls, "a two-rune query is still short")
}

func TestAddressSearchContextFilter(t *testing.T) {
	uc := newAddressUC(memory.NewAddressPool(), new(MockGateway))

	t.Run("Suburb and state context narrows the pool", func(t *testing.T) {
		result, err := uc.Search(authCtx("user1"), "user1", "4 Milburn Place, St Ives Chase NSW 2075", 0)
		require.NoError(t, err)

		assert.Equal(t, "4", result.Parsed.StreetNumber)
		assert.Equal(t, "MILBURN", result.Parsed.StreetName)
		assert.Equal(t, "PLACE", result.Parsed.StreetType)

		require.NotEmpty(t, result.Candidates)
		for _, c := range result.Candidates {
			assert.Equal(t, "NSW", c.State, "OR mode keeps candidates matching any detected signal")
		}
		assert.Equal(t, "GANSW705234567", result.Candidates[0].ID, "ranked by match score")
	})

	t.Run("No detected context returns the whole pool ranked", func(t *testing.T) {
		result, err := uc.Search(authCtx("user1"), "user1", "99 Nowhere Lane", 0)
		require.NoError(t, err)
		assert.NotEmpty(t, result.Candidates)
		for i := 1; i < len(result.Candidates); i++ {
			assert.GreaterOrEqual(t, result.Candidates[i-1].MatchScore, result.Candidates[i].MatchScore)
		}
	})

	t.Run("Alias spellings trigger suburb context", func(t *testing.T) {
		result, err := uc.Search(authCtx("user1"), "user1", "4 Milburn Place, Saint Ives Chase", 0)
		require.NoError(t, err)

		require.Len(t, result.Candidates, 4)
		for _, c := range result.Candidates {
			assert.Contains(t, []string{"St Ives Chase", "St Ives"}, c.Suburb,
				"the alias maps back to the canonical suburb spelling")
		}
	})

	t.Run("AND mode requires every detected signal", func(t *testing.T) {
		strict := usecase.NewAddressUsecase(memory.NewAddressPool(), new(MockGateway), memory.NewWizardStore(), usecase.AddressConfig{
			MatchMode: domain.MatchAll,
		})

		result, err := strict.Search(authCtx("user1"), "user1", "4 Milburn Place, St Ives Chase NSW 2075", 0)
		require.NoError(t, err)

		for _, c := range result.Candidates {
			assert.Equal(t, "NSW", c.State)
			assert.Equal(t, "2075", c.Postcode, "AND mode drops candidates missing the postcode signal")
		}
		assert.Len(t, result.Candidates, 4)
	})

	t.Run("Limit caps the suggestion list", func(t *testing.T) {
		result, err := uc.Search(authCtx("user1"), "user1", "99 Nowhere Lane", 2)
		require.NoError(t, err)
		assert.Len(t, result.Candidates, 2)
	})
}

func TestAddressSearchSuperseded(t *testing.T) {
	pool := &fakePool{candidates: []domain.AddressCandidate{
		{ID: "c1", Suburb: "Sydney", State: "NSW", MatchScore: 0.9},
	}}
	uc := newAddressUC(pool, new(MockGateway))

	ctx := authCtx("user1")

	// While the first lookup is in flight, the user types again.
	pool.onFirst = func() {
		_, err := uc.Search(ctx, "user1", "100 George Street", 0)
		require.NoError(t, err)
	}

	_, err := uc.Search(ctx, "user1", "100 George St", 0)
	assert.ErrorIs(t, err, domain.ErrSuperseded)
}

func TestAddressSearchPoolFailure(t *testing.T) {
	pool := &fakePool{err: errors.New("connection refused")}
	uc := newAddressUC(pool, new(MockGateway))

	_, err := uc.Search(authCtx("user1"), "user1", "100 George St", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "temporarily unavailable")
}

func TestAddressSearchTimeout(t *testing.T) {
	pool := &fakePool{block: true}
	uc := usecase.NewAddressUsecase(pool, new(MockGateway), memory.NewWizardStore(), usecase.AddressConfig{
		SearchTimeout: 20 * time.Millisecond,
	})

	start := time.Now()
	_, err := uc.Search(authCtx("user1"), "user1", "100 George St", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "temporarily unavailable")
	assert.Less(t, time.Since(start), 2*time.Second, "a stalled pool fails within the bounded timeout")
}

func TestSelectCandidate(t *testing.T) {
	ctx := authCtx("user1")

	t.Run("Selection produces a validated address with coordinates", func(t *testing.T) {
		gateway := new(MockGateway)
		gateway.On("ResolveCoordinates", mock.Anything, mock.Anything).Return(&domain.CoordinatesResult{
			Latitude:  -33.7,
			Longitude: 151.16,
		}, nil)

		uc := newAddressUC(memory.NewAddressPool(), gateway)

		addr, err := uc.SelectCandidate(ctx, "user1", "GANSW705234567")
		require.NoError(t, err)

		assert.True(t, addr.IsValidated)
		assert.Equal(t, domain.SourceGeoscape, addr.ValidationSource)
		assert.GreaterOrEqual(t, addr.ConfidenceScore, 0.0)
		assert.LessOrEqual(t, addr.ConfidenceScore, 1.0)
		assert.NotNil(t, addr.ValidationDate)
		assert.Equal(t, "St Ives Chase", addr.Suburb)
		assert.InDelta(t, -33.7, addr.Latitude, 0.001)
	})

	t.Run("Geocoding failure is non-fatal", func(t *testing.T) {
		gateway := new(MockGateway)
		gateway.On("ResolveCoordinates", mock.Anything, mock.Anything).Return(nil, errors.New("geocoder down"))

		uc := newAddressUC(memory.NewAddressPool(), gateway)

		addr, err := uc.SelectCandidate(ctx, "user1", "GANSW705234567")
		require.NoError(t, err)
		assert.True(t, addr.IsValidated)
		assert.Zero(t, addr.Latitude)
	})

	t.Run("Selection writes into the live wizard state", func(t *testing.T) {
		gateway := new(MockGateway)
		gateway.On("ResolveCoordinates", mock.Anything, mock.Anything).Return(nil, errors.New("geocoder down"))

		store := memory.NewWizardStore()
		seed := domain.NewWizardState("user1")
		require.NoError(t, store.Set(context.Background(), seed))

		uc := usecase.NewAddressUsecase(memory.NewAddressPool(), gateway, store, usecase.AddressConfig{})

		_, err := uc.SelectCandidate(ctx, "user1", "GANSW705234567")
		require.NoError(t, err)

		state, err := store.Get(context.Background(), "user1")
		require.NoError(t, err)
		assert.Equal(t, "MILBURN", state.Profile.BasicInfo.Address.StreetName)
		assert.True(t, state.Profile.BasicInfo.Address.IsValidated)
	})

	t.Run("Unknown candidate is a not found error", func(t *testing.T) {
		uc := newAddressUC(memory.NewAddressPool(), new(MockGateway))

		_, err := uc.SelectCandidate(ctx, "user1", "missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}
