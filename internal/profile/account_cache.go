package profile

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/polarisfn/Polaris_Go/internal/domain"
	"github.com/polarisfn/Polaris_Go/internal/repository"
)

// CachedAccountDirectory decorates an AccountRepository with an expirable LRU
// read cache. Accounts are read-only to this service, so staleness is bounded
// only by the TTL.
type CachedAccountDirectory struct {
	inner repository.AccountRepository
	lru   *expirable.LRU[string, *domain.Account]
}

// NewCachedAccountDirectory wraps inner with a cache of the given size and TTL.
func NewCachedAccountDirectory(inner repository.AccountRepository, size int, ttl time.Duration) *CachedAccountDirectory {
	return &CachedAccountDirectory{
		inner: inner,
		lru:   expirable.NewLRU[string, *domain.Account](size, nil, ttl),
	}
}

// FindByAccountID returns the cached account or falls through to the inner
// repository. Lookup failures are not cached.
func (c *CachedAccountDirectory) FindByAccountID(ctx context.Context, accountID string) (*domain.Account, error) {
	if account, ok := c.lru.Get(accountID); ok {
		return account, nil
	}

	account, err := c.inner.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	c.lru.Add(accountID, account)
	return account, nil
}

// Invalidate drops the cached entry for accountID.
func (c *CachedAccountDirectory) Invalidate(accountID string) {
	c.lru.Remove(accountID)
}
