package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/nadiaputeri/campuscore/pkg/logger"
	"github.com/nadiaputeri/campuscore/pkg/metrics"
)

// DefaultTTL bounds staleness for cached read views. Expiry is an operational
// safety net, not a correctness mechanism: writers invalidate their scope
// synchronously before returning.
const DefaultTTL = 5 * time.Minute

// Facade wraps a Store so that backend failures never reach domain logic.
// Every operation degrades to a miss or no-op: a Get against an unreachable
// backend reports a miss, a Set or Evict is silently dropped after logging.
// Domain code behind the facade must therefore be fully correct with no cache
// at all, which is exactly how it behaves when Store is nil.
type Facade struct {
	store Store
	log   *zap.Logger
}

// NewFacade wraps the supplied store. A nil store yields a facade where every
// lookup is a miss, which callers use in tests and cache-disabled deployments.
func NewFacade(store Store) *Facade {
	return &Facade{
		store: store,
		log:   logger.WithModule("cache"),
	}
}

// Enabled reports whether a backend is configured.
func (f *Facade) Enabled() bool {
	return f != nil && f.store != nil
}

// Get returns the cached value for key, or found=false on miss or any
// backend error.
func (f *Facade) Get(ctx context.Context, key string) ([]byte, bool) {
	if !f.Enabled() || key == "" {
		return nil, false
	}

	value, found, err := f.store.Get(ctx, key)
	if err != nil {
		f.log.Warn("cache get failed; treating as miss", zap.String("key", key), zap.Error(err))
		metrics.CacheRequests.WithLabelValues("error").Inc()
		return nil, false
	}
	if !found {
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}

	metrics.CacheRequests.WithLabelValues("hit").Inc()
	return value, true
}

// Set stores a value best-effort. Failures are logged, never returned.
func (f *Facade) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if !f.Enabled() || key == "" {
		return
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	if err := f.store.Set(ctx, key, value, ttl); err != nil {
		f.log.Warn("cache set failed; value not cached", zap.String("key", key), zap.Error(err))
	}
}

// Evict removes a single key best-effort.
func (f *Facade) Evict(ctx context.Context, keys ...string) {
	if !f.Enabled() || len(keys) == 0 {
		return
	}

	if err := f.store.Delete(ctx, keys...); err != nil {
		f.log.Warn("cache evict failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// GetOrLoad implements the read-through contract: consult the cache first,
// fall back to the loader on miss or backend error, then repopulate the cache
// best-effort. The loader's result is authoritative; the cache never is.
func GetOrLoad[T any](ctx context.Context, f *Facade, key string, ttl time.Duration, loader func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if data, ok := f.Get(ctx, key); ok {
		var value T
		if err := json.Unmarshal(data, &value); err == nil {
			return value, nil
		}
		// A corrupt entry is indistinguishable from a miss; drop it.
		f.Evict(ctx, key)
	}

	value, err := loader(ctx)
	if err != nil {
		return zero, err
	}

	if data, err := json.Marshal(value); err == nil {
		f.Set(ctx, key, data, ttl)
	}

	return value, nil
}
