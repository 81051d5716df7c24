package storage

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func parseSigned(t *testing.T, signed SignedURL) (key string, expires int64, sig string) {
	t.Helper()

	parsed, err := url.Parse(signed.URL)
	require.NoError(t, err)

	key = strings.TrimPrefix(parsed.Path, "/files/")
	expires, err = strconv.ParseInt(parsed.Query().Get("expires"), 10, 64)
	require.NoError(t, err)
	sig = parsed.Query().Get("sig")
	return key, expires, sig
}

func TestLocalSignerRoundTrip(t *testing.T) {
	signer, err := NewLocalSigner("https://campus.example/files", "secret")
	require.NoError(t, err)

	signed, err := signer.SignGetURL(context.Background(), "docs/school-1/ijazah.pdf", 10*time.Minute)
	require.NoError(t, err)
	require.Contains(t, signed.URL, "expires=")
	require.WithinDuration(t, time.Now().Add(10*time.Minute), signed.ExpiresAt, 2*time.Second)

	key, expires, sig := parseSigned(t, signed)
	require.NoError(t, signer.Verify(key, expires, sig))
}

func TestLocalSignerRejectsTampering(t *testing.T) {
	signer, err := NewLocalSigner("https://campus.example/files", "secret")
	require.NoError(t, err)

	signed, err := signer.SignGetURL(context.Background(), "docs/a.pdf", time.Minute)
	require.NoError(t, err)
	key, expires, sig := parseSigned(t, signed)

	// Extending the expiry without re-signing must fail.
	require.ErrorIs(t, signer.Verify(key, expires+3600, sig), ErrInvalidSignature)
	// Swapping the key must fail.
	require.ErrorIs(t, signer.Verify("docs/b.pdf", expires, sig), ErrInvalidSignature)
}

func TestLocalSignerEnforcesExpiryServerSide(t *testing.T) {
	current := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	signer, err := NewLocalSigner("https://campus.example/files", "secret")
	require.NoError(t, err)
	signer.WithClock(func() time.Time { return current })

	signed, err := signer.SignGetURL(context.Background(), "docs/a.pdf", time.Minute)
	require.NoError(t, err)
	key, expires, sig := parseSigned(t, signed)

	require.NoError(t, signer.Verify(key, expires, sig))

	// Advance only the server clock: the grant dies regardless of what the
	// client claims.
	current = current.Add(2 * time.Minute)
	require.ErrorIs(t, signer.Verify(key, expires, sig), ErrLinkExpired)
}

func TestLocalSignerValidation(t *testing.T) {
	_, err := NewLocalSigner("", "secret")
	require.Error(t, err)

	_, err = NewLocalSigner("https://campus.example/files", "")
	require.Error(t, err)

	signer, err := NewLocalSigner("https://campus.example/files", "secret")
	require.NoError(t, err)

	_, err = signer.SignGetURL(context.Background(), "", time.Minute)
	require.Error(t, err)

	_, err = signer.SignGetURL(context.Background(), "docs/a.pdf", 0)
	require.Error(t, err)
}
