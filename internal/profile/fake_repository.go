package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/polarisfn/Polaris_Go/internal/domain"
)

// FakeProfileRepository is an in-memory store adapter for tests and local
// development. Save enforces the same optimistic revision check as the
// postgres implementation. Documents are deep-copied through JSON on both
// sides so callers cannot alias stored state.
type FakeProfileRepository struct {
	mu       sync.Mutex
	profiles map[string][]byte

	// SaveErr, when set, is returned by every Save call.
	SaveErr error
	// Saves counts successful Save calls.
	Saves int
}

// NewFakeProfileRepository returns an empty in-memory profile store.
func NewFakeProfileRepository() *FakeProfileRepository {
	return &FakeProfileRepository{profiles: make(map[string][]byte)}
}

func profileKey(accountID, profileID string) string {
	return accountID + "/" + profileID
}

// Seed stores a profile document, bypassing revision checks.
func (f *FakeProfileRepository) Seed(accountID string, p *domain.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, _ := json.Marshal(p)
	f.profiles[profileKey(accountID, p.ProfileID)] = data
}

func (f *FakeProfileRepository) Load(ctx context.Context, accountID, profileID string) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.profiles[profileKey(accountID, profileID)]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}

	var p domain.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("corrupt stored profile: %w", err)
	}
	return &p, nil
}

func (f *FakeProfileRepository) Create(ctx context.Context, accountID string, p *domain.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := profileKey(accountID, p.ProfileID)
	if _, ok := f.profiles[key]; ok {
		return fmt.Errorf("profile already exists: %s", key)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	f.profiles[key] = data
	return nil
}

func (f *FakeProfileRepository) Save(ctx context.Context, accountID string, p *domain.Profile, expectedRvn int) error {
	if f.SaveErr != nil {
		return f.SaveErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	key := profileKey(accountID, p.ProfileID)
	data, ok := f.profiles[key]
	if !ok {
		return domain.ErrProfileNotFound
	}

	var stored domain.Profile
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("corrupt stored profile: %w", err)
	}
	if stored.Rvn != expectedRvn {
		return fmt.Errorf("%w: stored rvn %d, expected %d", domain.ErrRevisionConflict, stored.Rvn, expectedRvn)
	}

	updated, err := json.Marshal(p)
	if err != nil {
		return err
	}
	f.profiles[key] = updated
	f.Saves++
	return nil
}

// StoredProfile returns the persisted document, or nil when absent.
func (f *FakeProfileRepository) StoredProfile(accountID, profileID string) *domain.Profile {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.profiles[profileKey(accountID, profileID)]
	if !ok {
		return nil
	}
	var p domain.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil
	}
	return &p
}

// FakeAccountRepository is an in-memory account directory for tests.
type FakeAccountRepository struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account

	// Lookups counts FindByAccountID calls, cache-effectiveness assertions.
	Lookups int
}

// NewFakeAccountRepository returns an empty in-memory account directory.
func NewFakeAccountRepository() *FakeAccountRepository {
	return &FakeAccountRepository{accounts: make(map[string]*domain.Account)}
}

// Seed registers an account.
func (f *FakeAccountRepository) Seed(account *domain.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[account.AccountID] = account
}

func (f *FakeAccountRepository) FindByAccountID(ctx context.Context, accountID string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Lookups++
	account, ok := f.accounts[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}
