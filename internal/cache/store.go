package cache

import (
	"context"
	"time"
)

// ScanCursorStart is the cursor value that begins a keyspace iteration.
// Iteration is complete when a Scan call returns the same value.
const ScanCursorStart = "0"

// Store represents a shared cache backend used across the application.
//
// Scan iterates the keyspace in bounded batches: callers pass the cursor
// returned by the previous call (ScanCursorStart for the first) and repeat
// until the returned cursor equals ScanCursorStart again. A single call never
// enumerates the whole keyspace.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Scan(ctx context.Context, pattern string, cursor string, count int64) (keys []string, next string, err error)
	IncrementWithTTL(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}
