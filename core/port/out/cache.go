package out

import (
	"context"
	"time"

	"spendscan/core/domain"
)

// ResultCache remembers parse results per document so an already-seen
// one is a cache hit instead of a second model call. Callers key by
// message id plus attachment id. A miss is (nil, nil).
type ResultCache interface {
	GetResult(ctx context.Context, key string) (*domain.ParsedInvoice, error)
	SetResult(ctx context.Context, key string, inv *domain.ParsedInvoice, ttl time.Duration) error
}
