package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/nadiaputeri/campuscore/internal/storage"
)

type filesFixture struct {
	engine *gin.Engine
	signer *storage.LocalSigner
	root   string
	now    time.Time
}

func newFilesFixture(t *testing.T) *filesFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fx := &filesFixture{
		root: t.TempDir(),
		now:  time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}

	signer, err := storage.NewLocalSigner("http://campus.example/files", "signing-secret")
	require.NoError(t, err)
	fx.signer = signer.WithClock(func() time.Time { return fx.now })

	handler, err := NewFileHandler(fx.signer, fx.root)
	require.NoError(t, err)

	fx.engine = gin.New()
	fx.engine.GET("/files/*key", handler.Serve)
	return fx
}

func (fx *filesFixture) write(t *testing.T, key, content string) {
	t.Helper()
	path := filepath.Join(fx.root, key)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func (fx *filesFixture) signedPath(t *testing.T, key string, ttl time.Duration) string {
	t.Helper()
	signed, err := fx.signer.SignGetURL(context.Background(), key, ttl)
	require.NoError(t, err)
	u, err := url.Parse(signed.URL)
	require.NoError(t, err)
	return u.Path + "?" + u.RawQuery
}

func (fx *filesFixture) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	fx.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestFileHandlerServesSignedFile(t *testing.T) {
	fx := newFilesFixture(t)
	fx.write(t, "docs/report.txt", "grades")

	w := fx.get(fx.signedPath(t, "docs/report.txt", 10*time.Minute))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "grades", w.Body.String())
}

func TestFileHandlerRejectsExpiredLink(t *testing.T) {
	fx := newFilesFixture(t)
	fx.write(t, "docs/report.txt", "grades")

	path := fx.signedPath(t, "docs/report.txt", time.Minute)
	fx.now = fx.now.Add(2 * time.Minute)

	w := fx.get(path)

	require.Equal(t, http.StatusGone, w.Code)
	require.Contains(t, w.Body.String(), "LINK_EXPIRED")
}

func TestFileHandlerRejectsTamperedSignature(t *testing.T) {
	fx := newFilesFixture(t)
	fx.write(t, "docs/report.txt", "grades")

	path := fx.signedPath(t, "docs/report.txt", time.Minute)

	// Stretching the expiry invalidates the signature.
	u, err := url.Parse(path)
	require.NoError(t, err)
	q := u.Query()
	q.Set("expires", "9999999999")
	u.RawQuery = q.Encode()

	w := fx.get(u.String())

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestFileHandlerRejectsMalformedExpiry(t *testing.T) {
	fx := newFilesFixture(t)

	w := fx.get("/files/docs/report.txt?expires=soon&sig=abc")

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFileHandlerMissingFileIsNotFound(t *testing.T) {
	fx := newFilesFixture(t)

	w := fx.get(fx.signedPath(t, "docs/missing.txt", time.Minute))

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "NOT_FOUND")
}
