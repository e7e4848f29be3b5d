package postgres

import (
	"context"
	"errors"

	"go-profile-builder/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type addressPoolRepository struct {
	db *pgxpool.Pool
}

// NewAddressPoolRepository returns the production candidate pool backed by
// the address_candidates table.
func NewAddressPoolRepository(db *pgxpool.Pool) domain.AddressPoolRepository {
	return &addressPoolRepository{db: db}
}

func (r *addressPoolRepository) Candidates(ctx context.Context) ([]domain.AddressCandidate, error) {
	query := `
		SELECT
			external_id, display_address, street_number, street_name,
			COALESCE(street_type, ''), suburb, state, postcode,
			COALESCE(country, 'AU'), match_score, COALESCE(aliases, '{}')
		FROM address_candidates
		ORDER BY match_score DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []domain.AddressCandidate
	for rows.Next() {
		var c domain.AddressCandidate
		err := rows.Scan(
			&c.ID, &c.DisplayAddress, &c.StreetNumber, &c.StreetName,
			&c.StreetType, &c.Suburb, &c.State, &c.Postcode,
			&c.Country, &c.MatchScore, pq.Array(&c.Aliases),
		)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func (r *addressPoolRepository) GetByID(ctx context.Context, id string) (*domain.AddressCandidate, error) {
	query := `
		SELECT
			external_id, display_address, street_number, street_name,
			COALESCE(street_type, ''), suburb, state, postcode,
			COALESCE(country, 'AU'), match_score, COALESCE(aliases, '{}')
		FROM address_candidates WHERE external_id = $1`

	var c domain.AddressCandidate
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.DisplayAddress, &c.StreetNumber, &c.StreetName,
		&c.StreetType, &c.Suburb, &c.State, &c.Postcode,
		&c.Country, &c.MatchScore, pq.Array(&c.Aliases),
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
