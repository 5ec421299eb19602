package retrieval

import (
	"context"
	"sync"
	"time"

	"spendscan/core/domain"
	"spendscan/core/port/out"
	"spendscan/pkg/logger"
)

const (
	// Batch sizes for full-message fetch. Background runs stay small to
	// respect the provider's per-user quota; an interactive session can
	// afford larger bursts.
	backgroundBatchSize = 2
	sessionBatchSize    = 8

	defaultBatchDelay = time.Second
)

// Retriever issues search queries and fetches full messages in
// rate-limited batches.
type Retriever struct {
	mailbox    out.MailboxPort
	log        *logger.Logger
	batchSize  int
	batchDelay time.Duration
}

// Option tweaks a Retriever. Used by tests to drop the inter-batch
// delay.
type Option func(*Retriever)

func WithBatchDelay(d time.Duration) Option {
	return func(r *Retriever) { r.batchDelay = d }
}

func WithBatchSize(n int) Option {
	return func(r *Retriever) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// NewRetriever builds a retriever. liveSession widens the fetch batch.
func NewRetriever(mailbox out.MailboxPort, liveSession bool, opts ...Option) *Retriever {
	r := &Retriever{
		mailbox:    mailbox,
		log:        logger.Default().WithField("component", "retriever"),
		batchSize:  backgroundBatchSize,
		batchDelay: defaultBatchDelay,
	}
	if liveSession {
		r.batchSize = sessionBatchSize
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Collect runs the queries strictly in order and returns the unique
// message ids, first seen wins. A failing query is logged and skipped
// unless the failure is an auth failure, which aborts the run.
func (r *Retriever) Collect(ctx context.Context, queries []string, maxResults int64) ([]string, error) {
	seen := make(map[string]struct{})
	var ids []string

	for _, q := range queries {
		found, err := r.mailbox.Search(ctx, q, maxResults)
		if err != nil {
			if out.IsAuthError(err) {
				return nil, err
			}
			r.log.WithError(err).Warn("search failed, skipping query: %s", q)
			continue
		}
		for _, id := range found {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// FetchAll pulls full messages in batches: concurrent within a batch,
// sequential between batches with a fixed delay. One failed fetch drops
// that message only. An auth failure stops fetching and returns what
// was collected alongside the error.
func (r *Retriever) FetchAll(ctx context.Context, ids []string) ([]*domain.RawMessage, error) {
	var messages []*domain.RawMessage

	for start := 0; start < len(ids); start += r.batchSize {
		end := start + r.batchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		results := make([]*domain.RawMessage, len(batch))
		errs := make([]error, len(batch))

		var wg sync.WaitGroup
		for i, id := range batch {
			wg.Add(1)
			go func(i int, id string) {
				defer wg.Done()
				msg, err := r.mailbox.GetFull(ctx, id)
				if err != nil {
					errs[i] = err
					return
				}
				results[i] = msg
			}(i, id)
		}
		wg.Wait()

		for i, err := range errs {
			if err == nil {
				if results[i] != nil {
					messages = append(messages, results[i])
				}
				continue
			}
			if out.IsAuthError(err) {
				return messages, err
			}
			r.log.WithError(err).WithMessageID(batch[i]).Warn("message fetch failed, dropping")
		}

		if end < len(ids) && r.batchDelay > 0 {
			select {
			case <-ctx.Done():
				return messages, ctx.Err()
			case <-time.After(r.batchDelay):
			}
		}
	}
	return messages, nil
}
