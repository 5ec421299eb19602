package cache

import (
	"context"
	"time"

	"spendscan/core/domain"
	"spendscan/core/port/out"
)

const resultKeyPrefix = "spendscan:invoice:"

// ResultCache implements out.ResultCache over Redis, keyed per parsed
// attachment so re-running a search window skips documents that were
// already parsed.
type ResultCache struct {
	cache *RedisCache
}

// NewResultCache creates a new invoice result cache.
func NewResultCache(cache *RedisCache) *ResultCache {
	return &ResultCache{cache: cache}
}

// GetResult returns the cached invoice, or nil on a miss.
func (c *ResultCache) GetResult(ctx context.Context, key string) (*domain.ParsedInvoice, error) {
	var inv domain.ParsedInvoice
	hit, err := c.cache.GetJSON(ctx, resultKeyPrefix+key, &inv)
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, nil
	}
	return &inv, nil
}

// SetResult stores a parsed invoice with the given TTL.
func (c *ResultCache) SetResult(ctx context.Context, key string, inv *domain.ParsedInvoice, ttl time.Duration) error {
	return c.cache.SetJSON(ctx, resultKeyPrefix+key, inv, ttl)
}

var _ out.ResultCache = (*ResultCache)(nil)
