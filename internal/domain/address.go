package domain

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
)

// ErrSuperseded marks a search result that finished after a newer query for
// the same user was issued. Callers discard the stale result.
var ErrSuperseded = errors.New("address search superseded by a newer query")

// ============================================================================
// Address
// ============================================================================

// ValidationSource identifies which provider validated an address.
type ValidationSource string

const (
	SourceGeoscape      ValidationSource = "geoscape"
	SourceSmartyStreets ValidationSource = "smarty_streets"
	SourceManual        ValidationSource = "manual"
)

func (s ValidationSource) IsValid() bool {
	return s == SourceGeoscape || s == SourceSmartyStreets || s == SourceManual
}

// Address lives inside BasicInfo. Invariant: IsValidated implies
// ValidationSource and ConfidenceScore are set.
type Address struct {
	StreetNumber string `json:"street_number" validate:"omitempty,max=20"`
	StreetName   string `json:"street_name" validate:"omitempty,max=150"`
	StreetType   string `json:"street_type" validate:"omitempty,max=30"`
	Suburb       string `json:"suburb" validate:"omitempty,max=100"`
	State        string `json:"state" validate:"omitempty,max=50"`
	Postcode     string `json:"postcode" validate:"omitempty,max=12"`
	Country      string `json:"country" validate:"omitempty,max=60"`

	// Validation envelope
	IsValidated      bool             `json:"is_validated"`
	ValidationSource ValidationSource `json:"validation_source,omitempty" validate:"required_if=IsValidated true,omitempty,oneof=geoscape smarty_streets manual"`
	ConfidenceScore  float64          `json:"confidence_score,omitempty" validate:"gte=0,lte=1"`
	ValidationDate   *time.Time       `json:"validation_date,omitempty"`
	PropertyID       string           `json:"property_id,omitempty"`
	Latitude         float64          `json:"latitude,omitempty"`
	Longitude        float64          `json:"longitude,omitempty"`
}

// ============================================================================
// Free-text address parsing
// ============================================================================

// ParsedAddress is the structured form of a free-text address query.
type ParsedAddress struct {
	StreetNumber string `json:"street_number"`
	StreetName   string `json:"street_name"`
	StreetType   string `json:"street_type"`
	Location     string `json:"location"` // raw text after the first comma, if any
}

// streetTypes maps recognized street-type tokens (abbreviation or full name)
// to their canonical full form.
var streetTypes = map[string]string{
	"ST": "STREET", "STREET": "STREET",
	"RD": "ROAD", "ROAD": "ROAD",
	"AVE": "AVENUE", "AV": "AVENUE", "AVENUE": "AVENUE",
	"DR": "DRIVE", "DRIVE": "DRIVE",
	"PL": "PLACE", "PLACE": "PLACE",
	"CT": "COURT", "COURT": "COURT",
	"CRES": "CRESCENT", "CR": "CRESCENT", "CRESCENT": "CRESCENT",
	"LN": "LANE", "LANE": "LANE",
	"HWY": "HIGHWAY", "HIGHWAY": "HIGHWAY",
	"BVD": "BOULEVARD", "BLVD": "BOULEVARD", "BOULEVARD": "BOULEVARD",
	"TCE": "TERRACE", "TERRACE": "TERRACE",
	"CL": "CLOSE", "CLOSE": "CLOSE",
	"PDE": "PARADE", "PARADE": "PARADE",
	"CCT": "CIRCUIT", "CIRCUIT": "CIRCUIT",
	"WAY": "WAY",
	"GR": "GROVE", "GROVE": "GROVE",
	"ESP": "ESPLANADE", "ESPLANADE": "ESPLANADE",
}

var leadingNumber = regexp.MustCompile(`^\d`)

// ParseAddressQuery splits a free-text query into structured street
// components. The segment before the first comma is the street segment; a
// leading token starting with a digit is the street number ("4", "4a",
// "4-6"); a recognized trailing token is the street type. An unrecognized
// trailing token leaves the whole remainder as the street name.
func ParseAddressQuery(query string) ParsedAddress {
	var parsed ParsedAddress

	street := query
	if idx := strings.Index(query, ","); idx >= 0 {
		street = query[:idx]
		parsed.Location = strings.TrimSpace(query[idx+1:])
	}

	tokens := strings.Fields(street)
	if len(tokens) == 0 {
		return parsed
	}

	if leadingNumber.MatchString(tokens[0]) {
		parsed.StreetNumber = tokens[0]
		tokens = tokens[1:]
	}
	if len(tokens) == 0 {
		return parsed
	}

	last := strings.ToUpper(tokens[len(tokens)-1])
	if canonical, ok := streetTypes[last]; ok && len(tokens) > 1 {
		parsed.StreetType = canonical
		tokens = tokens[:len(tokens)-1]
	}

	parsed.StreetName = strings.ToUpper(strings.Join(tokens, " "))
	return parsed
}

// ============================================================================
// Candidate matching
// ============================================================================

// AddressCandidate is one entry of the match pool, returned ranked by
// MatchScore.
type AddressCandidate struct {
	ID             string  `json:"id"`
	DisplayAddress string  `json:"display_address"`
	StreetNumber   string  `json:"street_number"`
	StreetName     string  `json:"street_name"`
	StreetType     string  `json:"street_type"`
	Suburb         string  `json:"suburb"`
	State          string  `json:"state"`
	Postcode       string  `json:"postcode"`
	Country        string  `json:"country"`
	MatchScore     float64 `json:"match_score"`

	// Aliases are alternate spellings of the suburb ("Saint Ives" for
	// "St Ives"). Any alias appearing in a query counts as a suburb signal.
	Aliases []string `json:"aliases,omitempty"`
}

// LocationContext carries the coarse location signals detected in a raw
// query by substring-testing it against the candidate pool's known suburbs,
// states and postcodes. Zero value means no context was detected.
type LocationContext struct {
	Suburbs   map[string]bool
	States    map[string]bool
	Postcodes map[string]bool
}

// Empty reports whether no signal was detected.
func (lc LocationContext) Empty() bool {
	return len(lc.Suburbs) == 0 && len(lc.States) == 0 && len(lc.Postcodes) == 0
}

// MatchMode selects how detected location signals combine when filtering.
type MatchMode string

const (
	// MatchAny keeps candidates matching at least one detected signal.
	MatchAny MatchMode = "or"
	// MatchAll keeps candidates matching every detected signal.
	MatchAll MatchMode = "and"
)

// AddressSearchResult is a ranked suggestion list stamped with the request
// sequence that produced it.
type AddressSearchResult struct {
	Query      string             `json:"query"`
	Parsed     ParsedAddress      `json:"parsed"`
	Candidates []AddressCandidate `json:"candidates"`
	Sequence   uint64             `json:"sequence"`
}

// ============================================================================
// Repository / Usecase interfaces
// ============================================================================

// AddressPoolRepository supplies the candidate pool the matcher filters.
type AddressPoolRepository interface {
	Candidates(ctx context.Context) ([]AddressCandidate, error)
	GetByID(ctx context.Context, id string) (*AddressCandidate, error)
}

type AddressUsecase interface {
	// Search parses the query, filters the candidate pool by detected
	// location context and returns candidates ranked by match score.
	// Queries below the minimum length yield an empty result without
	// touching the repository. A result superseded by a newer query for the
	// same user returns ErrSuperseded.
	Search(ctx context.Context, userID, query string, limit int) (*AddressSearchResult, error)

	// SelectCandidate marks the chosen candidate as the user's validated
	// address and resolves coordinates through the upstream geocoder.
	// Coordinate resolution failure is non-fatal.
	SelectCandidate(ctx context.Context, userID, candidateID string) (*Address, error)
}
