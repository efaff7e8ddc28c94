package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/imamecatronica/backend/internal/domain/receivable"
	"go.uber.org/zap"
)

// CachedPendingIncomeReader is a read-through cache in front of a
// receivable.PendingIncomeReader. Cache failures are logged and the call
// falls through to the wrapped reader; errors from the wrapped reader are
// never cached.
type CachedPendingIncomeReader struct {
	next      receivable.PendingIncomeReader
	store     Store
	ttl       time.Duration
	keyPrefix string
	logger    *zap.Logger
}

// NewCachedPendingIncomeReader wraps next with store
func NewCachedPendingIncomeReader(next receivable.PendingIncomeReader, store Store, ttl time.Duration, keyPrefix string, logger *zap.Logger) *CachedPendingIncomeReader {
	return &CachedPendingIncomeReader{
		next:      next,
		store:     store,
		ttl:       ttl,
		keyPrefix: keyPrefix,
		logger:    logger.Named("pending_income_cache"),
	}
}

var _ receivable.PendingIncomeReader = (*CachedPendingIncomeReader)(nil)

// ListClientsWithPendingTotals implements receivable.PendingIncomeReader
func (r *CachedPendingIncomeReader) ListClientsWithPendingTotals(ctx context.Context) ([]receivable.ClientPendingTotal, error) {
	return readThrough(ctx, r, r.keyPrefix+"clients", func() ([]receivable.ClientPendingTotal, error) {
		return r.next.ListClientsWithPendingTotals(ctx)
	})
}

// ListPendingInvoicesForClient implements receivable.PendingIncomeReader
func (r *CachedPendingIncomeReader) ListPendingInvoicesForClient(ctx context.Context, clientID uuid.UUID) ([]receivable.PendingInvoice, error) {
	return readThrough(ctx, r, r.keyPrefix+"invoices:"+clientID.String(), func() ([]receivable.PendingInvoice, error) {
		return r.next.ListPendingInvoicesForClient(ctx, clientID)
	})
}

// GetClient implements receivable.PendingIncomeReader
func (r *CachedPendingIncomeReader) GetClient(ctx context.Context, clientID uuid.UUID) (*receivable.Client, error) {
	return readThrough(ctx, r, r.keyPrefix+"client:"+clientID.String(), func() (*receivable.Client, error) {
		return r.next.GetClient(ctx, clientID)
	})
}

func readThrough[T any](ctx context.Context, r *CachedPendingIncomeReader, key string, load func() (T, error)) (T, error) {
	raw, found, err := r.store.Get(ctx, key)
	if err != nil {
		r.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	} else if found {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		r.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
		if err := r.store.Delete(ctx, key); err != nil {
			r.logger.Warn("cache evict failed", zap.String("key", key), zap.Error(err))
		}
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	if raw, err := json.Marshal(value); err == nil {
		if err := r.store.Set(ctx, key, raw, r.ttl); err != nil {
			r.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return value, nil
}
