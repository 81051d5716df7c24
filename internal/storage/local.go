package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// LocalSigner issues HMAC-signed URLs served by the application's own file
// endpoint. Expiry is embedded in the signed payload, so the serving side
// verifies it against its own clock; a client cannot extend a grant by
// tampering with the query string.
type LocalSigner struct {
	baseURL string
	secret  []byte
	now     func() time.Time
}

// NewLocalSigner builds a signer for locally served files. The secret must be
// non-empty; baseURL is the externally visible prefix, e.g. "https://host/files".
func NewLocalSigner(baseURL, secret string) (*LocalSigner, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("storage: base url is required")
	}
	if secret == "" {
		return nil, errors.New("storage: signing secret is required")
	}

	return &LocalSigner{
		baseURL: baseURL,
		secret:  []byte(secret),
		now:     time.Now,
	}, nil
}

// WithClock overrides the time source, primarily for tests.
func (s *LocalSigner) WithClock(now func() time.Time) *LocalSigner {
	if now != nil {
		s.now = now
	}
	return s
}

// SignGetURL returns a URL of the form
// {base}/{key}?expires={unix}&sig={hex} valid for ttl.
func (s *LocalSigner) SignGetURL(_ context.Context, key string, ttl time.Duration) (SignedURL, error) {
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" {
		return SignedURL{}, errors.New("storage: object key is required")
	}
	if ttl <= 0 {
		return SignedURL{}, errors.New("storage: ttl must be positive")
	}

	expiresAt := s.now().Add(ttl).Truncate(time.Second)
	sig := s.signature(key, expiresAt.Unix())

	signed := fmt.Sprintf("%s/%s?expires=%d&sig=%s",
		s.baseURL, escapeKeyPath(key), expiresAt.Unix(), sig)

	return SignedURL{URL: signed, ExpiresAt: expiresAt}, nil
}

// Verify checks a previously issued key/expires/sig triple. It rejects both
// tampered signatures and expired URLs, using the server clock exclusively.
func (s *LocalSigner) Verify(key string, expiresUnix int64, sig string) error {
	key = strings.Trim(strings.TrimSpace(key), "/")
	expected := s.signature(key, expiresUnix)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return ErrInvalidSignature
	}
	if s.now().After(time.Unix(expiresUnix, 0)) {
		return ErrLinkExpired
	}
	return nil
}

// Sentinel verification failures. An expired link is reported distinctly from
// a forged one so callers can render "link expired" rather than "forbidden".
var (
	ErrInvalidSignature = errors.New("storage: invalid signature")
	ErrLinkExpired      = errors.New("storage: link expired")
)

func (s *LocalSigner) signature(key string, expiresUnix int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s\n%d", key, expiresUnix)
	return hex.EncodeToString(mac.Sum(nil))
}

func escapeKeyPath(key string) string {
	parts := strings.Split(key, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
