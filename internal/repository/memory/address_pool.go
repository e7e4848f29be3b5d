package memory

import (
	"context"

	"go-profile-builder/internal/domain"
)

// staticPool is the built-in development candidate pool, used when no
// DATABASE_URL is configured. Production deployments load the pool from
// Postgres instead.
var staticPool = []domain.AddressCandidate{
	{
		ID:             "GANSW705234567",
		DisplayAddress: "4 Milburn Place, St Ives Chase NSW 2075",
		StreetNumber:   "4",
		StreetName:     "MILBURN",
		StreetType:     "PLACE",
		Suburb:         "St Ives Chase",
		State:          "NSW",
		Postcode:       "2075",
		Country:        "AU",
		MatchScore:     0.98,
		Aliases:        []string{"Saint Ives Chase"},
	},
	{
		ID:             "GANSW705234568",
		DisplayAddress: "6 Milburn Place, St Ives Chase NSW 2075",
		StreetNumber:   "6",
		StreetName:     "MILBURN",
		StreetType:     "PLACE",
		Suburb:         "St Ives Chase",
		State:          "NSW",
		Postcode:       "2075",
		Country:        "AU",
		MatchScore:     0.95,
	},
	{
		ID:             "GANSW705234569",
		DisplayAddress: "8 Milburn Place, St Ives Chase NSW 2075",
		StreetNumber:   "8",
		StreetName:     "MILBURN",
		StreetType:     "PLACE",
		Suburb:         "St Ives Chase",
		State:          "NSW",
		Postcode:       "2075",
		Country:        "AU",
		MatchScore:     0.93,
	},
	{
		ID:             "GANSW705111222",
		DisplayAddress: "12 Mona Vale Road, St Ives NSW 2075",
		StreetNumber:   "12",
		StreetName:     "MONA VALE",
		StreetType:     "ROAD",
		Suburb:         "St Ives",
		State:          "NSW",
		Postcode:       "2075",
		Country:        "AU",
		MatchScore:     0.88,
		Aliases:        []string{"Saint Ives"},
	},
	{
		ID:             "GAVIC812345001",
		DisplayAddress: "221 Collins Street, Melbourne VIC 3000",
		StreetNumber:   "221",
		StreetName:     "COLLINS",
		StreetType:     "STREET",
		Suburb:         "Melbourne",
		State:          "VIC",
		Postcode:       "3000",
		Country:        "AU",
		MatchScore:     0.91,
	},
	{
		ID:             "GAVIC812345002",
		DisplayAddress: "55 Swanston Street, Melbourne VIC 3000",
		StreetNumber:   "55",
		StreetName:     "SWANSTON",
		StreetType:     "STREET",
		Suburb:         "Melbourne",
		State:          "VIC",
		Postcode:       "3000",
		Country:        "AU",
		MatchScore:     0.86,
	},
	{
		ID:             "GAQLD903456001",
		DisplayAddress: "71 Eagle Street, Brisbane City QLD 4000",
		StreetNumber:   "71",
		StreetName:     "EAGLE",
		StreetType:     "STREET",
		Suburb:         "Brisbane City",
		State:          "QLD",
		Postcode:       "4000",
		Country:        "AU",
		MatchScore:     0.84,
	},
	{
		ID:             "GANSW601234001",
		DisplayAddress: "100 George Street, Sydney NSW 2000",
		StreetNumber:   "100",
		StreetName:     "GEORGE",
		StreetType:     "STREET",
		Suburb:         "Sydney",
		State:          "NSW",
		Postcode:       "2000",
		Country:        "AU",
		MatchScore:     0.9,
	},
	{
		ID:             "GAWA523456001",
		DisplayAddress: "140 St Georges Terrace, Perth WA 6000",
		StreetNumber:   "140",
		StreetName:     "ST GEORGES",
		StreetType:     "TERRACE",
		Suburb:         "Perth",
		State:          "WA",
		Postcode:       "6000",
		Country:        "AU",
		MatchScore:     0.82,
	},
}

type addressPool struct {
	candidates []domain.AddressCandidate
}

// NewAddressPool returns the static development pool repository.
func NewAddressPool() domain.AddressPoolRepository {
	return &addressPool{candidates: staticPool}
}

// NewAddressPoolWith returns a pool repository over the given candidates.
// Used by tests.
func NewAddressPoolWith(candidates []domain.AddressCandidate) domain.AddressPoolRepository {
	return &addressPool{candidates: candidates}
}

func (r *addressPool) Candidates(ctx context.Context) ([]domain.AddressCandidate, error) {
	out := make([]domain.AddressCandidate, len(r.candidates))
	copy(out, r.candidates)
	return out, nil
}

func (r *addressPool) GetByID(ctx context.Context, id string) (*domain.AddressCandidate, error) {
	for i := range r.candidates {
		if r.candidates[i].ID == id {
			c := r.candidates[i]
			return &c, nil
		}
	}
	return nil, nil
}
