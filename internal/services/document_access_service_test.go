package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nadiaputeri/campuscore/internal/models"
	"github.com/nadiaputeri/campuscore/internal/storage"
	apperrors "github.com/nadiaputeri/campuscore/pkg/errors"
)

// failingSigner simulates an unreachable object store.
type failingSigner struct{}

func (failingSigner) SignGetURL(context.Context, string, time.Duration) (storage.SignedURL, error) {
	return storage.SignedURL{}, errors.New("storage unreachable")
}

func newAccessFixture(t *testing.T) (*DocumentAccessService, *gorm.DB, *models.Document) {
	t.Helper()

	env := newServiceTestEnv(t)
	school := createTestSchool(t, env.db, "access")

	signer, err := storage.NewLocalSigner("https://campus.example/files", "secret")
	require.NoError(t, err)

	svc, err := NewDocumentAccessService(env.db, signer)
	require.NoError(t, err)

	doc := &models.Document{
		SchoolID:   school.ID,
		OwnerID:    "owner-1",
		Category:   models.DocumentCategoryReportCard,
		StorageKey: "docs/report.pdf",
		FileName:   "report.pdf",
		MimeType:   "application/pdf",
		SizeBytes:  1024,
	}
	require.NoError(t, env.db.Create(doc).Error)

	return svc, env.db, doc
}

func TestIssueAccessRoleScopedTTL(t *testing.T) {
	svc, _, doc := newAccessFixture(t)
	ctx := context.Background()

	admin, err := svc.IssueAccess(ctx, doc.ID, RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, int64(600), admin.ExpiresIn)
	require.NotEmpty(t, admin.URL)

	guardian, err := svc.IssueAccess(ctx, doc.ID, RoleGuardian)
	require.NoError(t, err)
	require.Equal(t, int64(120), guardian.ExpiresIn)

	// Same document, different roles, independent windows.
	require.Greater(t, admin.ExpiresIn, guardian.ExpiresIn)
	require.WithinDuration(t, time.Now().Add(2*time.Minute), guardian.ExpiresAt, 2*time.Second)
}

func TestIssueAccessGrantsAreIndependent(t *testing.T) {
	svc, _, doc := newAccessFixture(t)
	ctx := context.Background()

	first, err := svc.IssueAccess(ctx, doc.ID, RoleTeacher)
	require.NoError(t, err)

	second, err := svc.IssueAccess(ctx, doc.ID, RoleTeacher)
	require.NoError(t, err)

	// A second call mints a brand-new grant with its own TTL window.
	require.Equal(t, first.ExpiresIn, second.ExpiresIn)
	require.False(t, second.ExpiresAt.Before(first.ExpiresAt))
}

func TestIssueAccessUnknownRoleGetsLowestPrivilegeTTL(t *testing.T) {
	svc, db, doc := newAccessFixture(t)
	ctx := context.Background()

	// Profile images are readable by every role, so the unknown role is
	// exercised purely through the TTL fallback.
	photo := &models.Document{
		SchoolID:   doc.SchoolID,
		OwnerID:    "owner-1",
		Category:   models.DocumentCategoryProfileImage,
		StorageKey: "docs/photo.jpg",
		FileName:   "photo.jpg",
		MimeType:   "image/jpeg",
	}
	require.NoError(t, db.Create(photo).Error)

	grant, err := svc.IssueAccess(ctx, photo.ID, Role("auditor"))
	require.Error(t, err) // auditor is not in the category matrix either
	require.Equal(t, http.StatusForbidden, apperrors.FromError(err).StatusCode)
	require.Nil(t, grant)

	require.Equal(t, fallbackGrantTTL, GrantTTL(Role("auditor")))
}

func TestIssueAccessForbiddenCategory(t *testing.T) {
	svc, db, doc := newAccessFixture(t)

	record := &models.Document{
		SchoolID:   doc.SchoolID,
		OwnerID:    "owner-1",
		Category:   models.DocumentCategoryAdminRecord,
		StorageKey: "docs/internal.pdf",
		FileName:   "internal.pdf",
		MimeType:   "application/pdf",
	}
	require.NoError(t, db.Create(record).Error)

	_, err := svc.IssueAccess(context.Background(), record.ID, RoleStudent)
	require.Error(t, err)
	require.Equal(t, http.StatusForbidden, apperrors.FromError(err).StatusCode)

	_, err = svc.IssueAccess(context.Background(), record.ID, RoleStaff)
	require.NoError(t, err)
}

func TestIssueAccessUnknownDocument(t *testing.T) {
	svc, _, _ := newAccessFixture(t)

	_, err := svc.IssueAccess(context.Background(), "11111111-1111-4111-8111-111111111111", RoleAdmin)
	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, apperrors.FromError(err).StatusCode)
}

func TestIssueAccessSignerFailureIsRetryable(t *testing.T) {
	_, db, doc := newAccessFixture(t)

	svc, err := NewDocumentAccessService(db, failingSigner{})
	require.NoError(t, err)

	_, err = svc.IssueAccess(context.Background(), doc.ID, RoleAdmin)
	require.Error(t, err)

	appErr := apperrors.FromError(err)
	require.Equal(t, http.StatusServiceUnavailable, appErr.StatusCode)
	require.True(t, apperrors.IsRetryable(err))
}

func TestIssueAccessURLVerifiesAgainstSigner(t *testing.T) {
	svc, _, doc := newAccessFixture(t)

	grant, err := svc.IssueAccess(context.Background(), doc.ID, RoleStudent)
	require.NoError(t, err)
	require.Contains(t, grant.URL, "sig=")
	require.Contains(t, grant.URL, "expires=")
}
