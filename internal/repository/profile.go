package repository

import (
	"context"

	"github.com/polarisfn/Polaris_Go/internal/domain"
)

// ProfileRepository is the store adapter for versioned profile documents.
type ProfileRepository interface {
	// Load returns the profile document for (accountID, profileID), or
	// domain.ErrProfileNotFound.
	Load(ctx context.Context, accountID, profileID string) (*domain.Profile, error)

	// Create persists a brand-new profile document.
	Create(ctx context.Context, accountID string, profile *domain.Profile) error

	// Save persists the mutated profile if the stored revision still equals
	// expectedRvn (the rvn observed at Load). Returns
	// domain.ErrRevisionConflict when another writer got there first.
	Save(ctx context.Context, accountID string, profile *domain.Profile, expectedRvn int) error
}

// AccountRepository is the read-only account directory.
type AccountRepository interface {
	// FindByAccountID returns the account, or domain.ErrAccountNotFound.
	FindByAccountID(ctx context.Context, accountID string) (*domain.Account, error)
}
