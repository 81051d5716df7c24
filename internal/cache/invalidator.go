package cache

import (
	"context"

	"go.uber.org/zap"

	"github.com/nadiaputeri/campuscore/pkg/logger"
	"github.com/nadiaputeri/campuscore/pkg/metrics"
)

// scanBatchSize bounds how many keys a single Scan call may return, so that
// invalidating a large scope never issues one blocking full-keyspace listing.
const scanBatchSize = int64(200)

// maxScanBatches caps a single invalidation pass. A scope that somehow
// accumulates more matching keys than this is left to TTL expiry for the
// remainder, which is acceptable because expiry bounds staleness anyway.
const maxScanBatches = 1000

// Invalidator deletes every cache key under a logical scope using bounded,
// resumable iteration. It is invoked synchronously after a durable write
// commits and before the write returns success, which bounds the staleness
// window to one request's invalidation latency.
//
// Invalidation is best-effort and idempotent: partial backend failure is
// logged and iteration continues; a scope with no matching keys is a no-op.
// It never fails the write that triggered it.
type Invalidator struct {
	store Store
	log   *zap.Logger
}

// NewInvalidator builds an Invalidator over the shared cache store. A nil
// store yields an invalidator whose calls are no-ops.
func NewInvalidator(store Store) *Invalidator {
	return &Invalidator{
		store: store,
		log:   logger.WithModule("cache"),
	}
}

// InvalidateScope removes every key matching the scope's pattern. It always
// returns nil error semantics to callers by design; the boolean reports
// whether the pass completed without any backend error, for observability.
func (inv *Invalidator) InvalidateScope(ctx context.Context, scope Scope) bool {
	if inv == nil || inv.store == nil {
		return true
	}

	pattern := scope.Pattern()
	cursor := ScanCursorStart
	clean := true

	for batch := 0; batch < maxScanBatches; batch++ {
		keys, next, err := inv.store.Scan(ctx, pattern, cursor, scanBatchSize)
		if err != nil {
			inv.log.Warn("scope scan failed; invalidation incomplete",
				zap.String("pattern", pattern), zap.Error(err))
			metrics.InvalidationBatches.WithLabelValues("error").Inc()
			return false
		}

		if len(keys) > 0 {
			if err := inv.store.Delete(ctx, keys...); err != nil {
				// Keep iterating: remaining batches may still succeed, and
				// leftover keys expire via TTL.
				inv.log.Warn("scope delete failed; continuing",
					zap.String("pattern", pattern), zap.Int("keys", len(keys)), zap.Error(err))
				metrics.InvalidationBatches.WithLabelValues("error").Inc()
				clean = false
			} else {
				metrics.InvalidationBatches.WithLabelValues("ok").Inc()
			}
		}

		if next == ScanCursorStart {
			return clean
		}
		cursor = next
	}

	inv.log.Warn("scope invalidation hit batch cap; remainder left to TTL",
		zap.String("pattern", pattern))
	return false
}
