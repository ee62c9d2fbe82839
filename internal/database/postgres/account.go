package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/polarisfn/Polaris_Go/internal/domain"
)

// AccountRepository implements repository.AccountRepository
type AccountRepository struct {
	db *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

// FindByAccountID returns the account record, or domain.ErrAccountNotFound.
func (r *AccountRepository) FindByAccountID(ctx context.Context, accountID string) (*domain.Account, error) {
	var account domain.Account
	err := r.db.QueryRow(ctx,
		`SELECT account_id, display_name, base_revision, created_at
		 FROM accounts WHERE account_id = $1`,
		accountID,
	).Scan(&account.AccountID, &account.DisplayName, &account.BaseRevision, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return &account, nil
}

// CreateAccount inserts an account row; used by setup tooling and tests.
func (r *AccountRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO accounts (account_id, display_name, base_revision) VALUES ($1, $2, $3)
		 ON CONFLICT (account_id) DO NOTHING`,
		account.AccountID, account.DisplayName, account.BaseRevision,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}
