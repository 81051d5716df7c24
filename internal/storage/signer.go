package storage

import (
	"context"
	"time"
)

// SignedURL is a time-boxed reference to one stored object. ExpiresAt is
// fixed at signing time and is enforced by whatever serves the bytes; it is
// never extended.
type SignedURL struct {
	URL       string
	ExpiresAt time.Time
}

// URLSigner produces short-lived download URLs for stored objects. A signer
// failure means the storage backend cannot currently produce a reference and
// is surfaced to callers as a retryable condition.
type URLSigner interface {
	SignGetURL(ctx context.Context, key string, ttl time.Duration) (SignedURL, error)
}
