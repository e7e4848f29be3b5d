package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go-profile-builder/internal/domain"
	"go-profile-builder/pkg/apperror"
	"go-profile-builder/pkg/logger"
)

// AddressConfig tunes the matcher. The source system hard-coded OR filter
// semantics and a 3-character minimum; both are explicit knobs here.
type AddressConfig struct {
	MatchMode     domain.MatchMode
	MinQueryLen   int
	SearchTimeout time.Duration
	DefaultLimit  int
}

type addressUsecase struct {
	pool    domain.AddressPoolRepository
	gateway domain.ProfileGateway
	wizard  domain.WizardStateStore
	cfg     AddressConfig

	// Per-user request sequence for last-query-wins ordering. A result is
	// discarded when a newer query was issued while it was in flight.
	mu   sync.Mutex
	seqs map[string]uint64
}

func NewAddressUsecase(pool domain.AddressPoolRepository, gateway domain.ProfileGateway, wizard domain.WizardStateStore, cfg AddressConfig) domain.AddressUsecase {
	if cfg.MatchMode != domain.MatchAll {
		cfg.MatchMode = domain.MatchAny
	}
	if cfg.MinQueryLen <= 0 {
		cfg.MinQueryLen = 3
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = 3 * time.Second
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	return &addressUsecase{
		pool:    pool,
		gateway: gateway,
		wizard:  wizard,
		cfg:     cfg,
		seqs:    map[string]uint64{},
	}
}

func (u *addressUsecase) nextSeq(userID string) uint64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.seqs[userID]++
	return u.seqs[userID]
}

func (u *addressUsecase) currentSeq(userID string) uint64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.seqs[userID]
}

// ============================================================================
// Search
// ============================================================================

func (u *addressUsecase) Search(ctx context.Context, userID, query string, limit int) (*domain.AddressSearchResult, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)

	// Short queries never trigger a lookup. This is "no results", not an
	// error, and it does not consume a sequence number.
	if utf8.RuneCountInString(query) < u.cfg.MinQueryLen {
		return &domain.AddressSearchResult{
			Query:      query,
			Candidates: []domain.AddressCandidate{},
		}, nil
	}

	seq := u.nextSeq(userID)

	ctx, cancel := context.WithTimeout(ctx, u.cfg.SearchTimeout)
	defer cancel()

	parsed := domain.ParseAddressQuery(query)

	candidates, err := u.pool.Candidates(ctx)
	if err != nil {
		return nil, apperror.Unavailable("Address lookup is temporarily unavailable")
	}

	// A newer keystroke may have raced past this lookup.
	if u.currentSeq(userID) != seq {
		return nil, domain.ErrSuperseded
	}

	lc := detectLocationContext(query, candidates)
	matched := filterByContext(candidates, lc, u.cfg.MatchMode)

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].MatchScore > matched[j].MatchScore
	})

	if limit <= 0 || limit > u.cfg.DefaultLimit {
		limit = u.cfg.DefaultLimit
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}

	return &domain.AddressSearchResult{
		Query:      query,
		Parsed:     parsed,
		Candidates: matched,
		Sequence:   seq,
	}, nil
}

// detectLocationContext substring-tests the raw query against every known
// suburb, suburb alias, state and postcode in the pool. An alias hit marks
// the canonical suburb so filtering stays keyed on the stored spelling.
func detectLocationContext(query string, pool []domain.AddressCandidate) domain.LocationContext {
	lq := strings.ToLower(query)
	lc := domain.LocationContext{
		Suburbs:   map[string]bool{},
		States:    map[string]bool{},
		Postcodes: map[string]bool{},
	}

	for _, c := range pool {
		if c.Suburb != "" && strings.Contains(lq, strings.ToLower(c.Suburb)) {
			lc.Suburbs[c.Suburb] = true
		}
		for _, alias := range c.Aliases {
			if alias != "" && strings.Contains(lq, strings.ToLower(alias)) {
				lc.Suburbs[c.Suburb] = true
			}
		}
		if c.State != "" && strings.Contains(lq, strings.ToLower(c.State)) {
			lc.States[c.State] = true
		}
		if c.Postcode != "" && strings.Contains(lq, c.Postcode) {
			lc.Postcodes[c.Postcode] = true
		}
	}
	return lc
}

// filterByContext keeps candidates matching the detected signals. With no
// detected context the whole pool passes through unfiltered.
func filterByContext(pool []domain.AddressCandidate, lc domain.LocationContext, mode domain.MatchMode) []domain.AddressCandidate {
	if lc.Empty() {
		return pool
	}

	out := make([]domain.AddressCandidate, 0, len(pool))
	for _, c := range pool {
		suburbHit := lc.Suburbs[c.Suburb]
		stateHit := lc.States[c.State]
		postcodeHit := lc.Postcodes[c.Postcode]

		var keep bool
		if mode == domain.MatchAll {
			keep = true
			if len(lc.Suburbs) > 0 && !suburbHit {
				keep = false
			}
			if len(lc.States) > 0 && !stateHit {
				keep = false
			}
			if len(lc.Postcodes) > 0 && !postcodeHit {
				keep = false
			}
		} else {
			keep = suburbHit || stateHit || postcodeHit
		}

		if keep {
			out = append(out, c)
		}
	}
	return out
}

// ============================================================================
// Candidate selection
// ============================================================================

func (u *addressUsecase) SelectCandidate(ctx context.Context, userID, candidateID string) (*domain.Address, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return nil, err
	}

	cand, err := u.pool.GetByID(ctx, candidateID)
	if err != nil {
		return nil, apperror.Unavailable("Address lookup is temporarily unavailable")
	}
	if cand == nil {
		return nil, apperror.NotFound("Address candidate not found")
	}

	now := time.Now().UTC()
	addr := &domain.Address{
		StreetNumber:     cand.StreetNumber,
		StreetName:       cand.StreetName,
		StreetType:       cand.StreetType,
		Suburb:           cand.Suburb,
		State:            cand.State,
		Postcode:         cand.Postcode,
		Country:          cand.Country,
		IsValidated:      true,
		ValidationSource: domain.SourceGeoscape,
		ConfidenceScore:  clampConfidence(cand.MatchScore),
		ValidationDate:   &now,
		PropertyID:       cand.ID,
	}

	// Coordinate resolution is best-effort; the address stays validated
	// without a position.
	coords, err := u.gateway.ResolveCoordinates(ctx, domain.CoordinatesRequest{
		Address:    cand.DisplayAddress,
		PropertyID: cand.ID,
		Country:    cand.Country,
	})
	if err != nil {
		logger.Log.Warn("coordinate resolution failed", "user_id", userID, "property_id", cand.ID, "error", err)
	} else {
		addr.Latitude = coords.Latitude
		addr.Longitude = coords.Longitude
		if coords.ConfidenceScore > 0 {
			addr.ConfidenceScore = clampConfidence(coords.ConfidenceScore)
		}
	}

	// Populate the structured form fields in the live wizard state, if the
	// user has one.
	state, err := u.wizard.Get(ctx, userID)
	if err != nil {
		logger.Log.Warn("wizard state lookup failed during address select", "user_id", userID, "error", err)
	} else if state != nil {
		state.Profile.BasicInfo.Address = *addr
		state.UpdatedAt = now
		if err := u.wizard.Set(ctx, state); err != nil {
			logger.Log.Warn("wizard state update failed during address select", "user_id", userID, "error", err)
		}
	}

	return addr, nil
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
