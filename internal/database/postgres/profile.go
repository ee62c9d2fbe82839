package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/polarisfn/Polaris_Go/internal/domain"
)

// ProfileRepository implements repository.ProfileRepository over JSONB rows.
// The rvn column mirrors the document's rvn and backs the optimistic check.
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Load returns the profile document for (accountID, profileID).
func (r *ProfileRepository) Load(ctx context.Context, accountID, profileID string) (*domain.Profile, error) {
	var document []byte
	err := r.db.QueryRow(ctx,
		`SELECT document FROM profiles WHERE account_id = $1 AND profile_id = $2`,
		accountID, profileID,
	).Scan(&document)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s/%s", domain.ErrProfileNotFound, accountID, profileID)
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	var p domain.Profile
	if err := json.Unmarshal(document, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile document: %w", err)
	}
	if p.ProfileID == "" {
		p.ProfileID = profileID
	}
	if p.Items == nil {
		p.Items = make(map[string]*domain.Item)
	}
	return &p, nil
}

// Create persists a brand-new profile document.
func (r *ProfileRepository) Create(ctx context.Context, accountID string, p *domain.Profile) error {
	document, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile document: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO profiles (account_id, profile_id, document, rvn) VALUES ($1, $2, $3, $4)`,
		accountID, p.ProfileID, document, p.Rvn,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// Save overwrites the document iff the stored revision still equals
// expectedRvn. A row that moved on concurrently yields ErrRevisionConflict;
// a vanished row yields ErrProfileNotFound.
func (r *ProfileRepository) Save(ctx context.Context, accountID string, p *domain.Profile, expectedRvn int) error {
	document, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile document: %w", err)
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE profiles SET document = $1, rvn = $2, updated_at = NOW()
		 WHERE account_id = $3 AND profile_id = $4 AND rvn = $5`,
		document, p.Rvn, accountID, p.ProfileID, expectedRvn,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		checkErr := r.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM profiles WHERE account_id = $1 AND profile_id = $2)`,
			accountID, p.ProfileID,
		).Scan(&exists)
		if checkErr == nil && !exists {
			return fmt.Errorf("%w: %s/%s", domain.ErrProfileNotFound, accountID, p.ProfileID)
		}
		return fmt.Errorf("%w: expected rvn %d", domain.ErrRevisionConflict, expectedRvn)
	}

	return nil
}
