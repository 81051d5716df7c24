package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/nadiaputeri/campuscore/internal/models"
	"github.com/nadiaputeri/campuscore/internal/storage"
	apperrors "github.com/nadiaputeri/campuscore/pkg/errors"
	"github.com/nadiaputeri/campuscore/pkg/logger"
	"github.com/nadiaputeri/campuscore/pkg/metrics"

	"go.uber.org/zap"
)

// Role identifies the caller categories the access gateway recognises.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleTeacher  Role = "teacher"
	RoleStudent  Role = "student"
	RoleGuardian Role = "guardian"
)

// grantTTLByRole is the closed role to TTL table. Unrecognised roles fall
// back to fallbackGrantTTL, the lowest privilege in the table, never to an
// unbounded value.
var grantTTLByRole = map[Role]time.Duration{
	RoleAdmin:    10 * time.Minute,
	RoleStaff:    10 * time.Minute,
	RoleTeacher:  5 * time.Minute,
	RoleStudent:  2 * time.Minute,
	RoleGuardian: 2 * time.Minute,
}

const fallbackGrantTTL = time.Minute

// categoryAccess maps each document category to the roles allowed to fetch
// it. Profile images are visible to everyone; administrative records only to
// back-office roles.
var categoryAccess = map[models.DocumentCategory][]Role{
	models.DocumentCategoryProfileImage: {RoleAdmin, RoleStaff, RoleTeacher, RoleStudent, RoleGuardian},
	models.DocumentCategoryCertificate:  {RoleAdmin, RoleStaff, RoleTeacher, RoleStudent, RoleGuardian},
	models.DocumentCategoryReportCard:   {RoleAdmin, RoleStaff, RoleTeacher, RoleStudent, RoleGuardian},
	models.DocumentCategoryAdminRecord:  {RoleAdmin, RoleStaff},
}

// AccessGrant is an ephemeral, non-renewable permission to fetch one
// document. It is never persisted; it simply stops working at ExpiresAt.
type AccessGrant struct {
	DocumentID string        `json:"document_id"`
	URL        string        `json:"url"`
	ExpiresIn  int64         `json:"expires_in"` // seconds
	ExpiresAt  time.Time     `json:"expires_at"`
	IssuedAt   time.Time     `json:"issued_at"`
	Role       Role          `json:"role"`
	TTL        time.Duration `json:"-"`
}

// DocumentAccessService issues short-lived signed URLs for stored documents.
// The TTL depends only on the requester's role; a second call mints a fresh
// grant with its own window. Expiry enforcement belongs to whatever serves
// the bytes (the object store for presigned URLs, the local file server for
// HMAC URLs); this service's contract is a correct expires_at at issuance.
type DocumentAccessService struct {
	db     *gorm.DB
	signer storage.URLSigner
	log    *zap.Logger
	now    func() time.Time
}

// NewDocumentAccessService constructs the gateway.
func NewDocumentAccessService(db *gorm.DB, signer storage.URLSigner) (*DocumentAccessService, error) {
	if db == nil {
		return nil, errors.New("document access service: db is required")
	}
	if signer == nil {
		return nil, errors.New("document access service: signer is required")
	}
	return &DocumentAccessService{
		db:     db,
		signer: signer,
		log:    logger.WithModule("document-access"),
		now:    time.Now,
	}, nil
}

// GrantTTL returns the TTL the given role receives.
func GrantTTL(role Role) time.Duration {
	if ttl, ok := grantTTLByRole[role]; ok {
		return ttl
	}
	return fallbackGrantTTL
}

// RoleCanAccess reports whether a role may fetch documents of a category.
func RoleCanAccess(role Role, category models.DocumentCategory) bool {
	for _, allowed := range categoryAccess[category] {
		if allowed == role {
			return true
		}
	}
	return false
}

// IssueAccess issues a fresh grant for the document, scoped to the caller's
// role. Returns NotFound when the document does not exist, Forbidden when the
// role has no access to the document's category, and a retryable
// ServiceUnavailable when the signer cannot produce a URL.
func (s *DocumentAccessService) IssueAccess(ctx context.Context, documentID string, role Role) (*AccessGrant, error) {
	ctx = ensureContext(ctx)

	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return nil, apperrors.NewBadRequest("document id is required")
	}
	role = Role(strings.ToLower(strings.TrimSpace(string(role))))

	var doc models.Document
	err := s.db.WithContext(ctx).First(&doc, "id = ?", documentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound.WithInternal(fmt.Errorf("document %s", documentID))
	}
	if err != nil {
		return nil, apperrors.ErrServiceUnavailable.WithInternal(err)
	}

	if !RoleCanAccess(role, doc.Category) {
		return nil, apperrors.ErrForbidden.WithInternal(
			fmt.Errorf("role %q has no access to category %q", role, doc.Category))
	}

	ttl := GrantTTL(role)
	issuedAt := s.now()

	signed, err := s.signer.SignGetURL(ctx, doc.StorageKey, ttl)
	if err != nil {
		s.log.Warn("signer failed to produce url",
			zap.String("document_id", documentID),
			zap.Error(err))
		return nil, apperrors.ErrServiceUnavailable.WithInternal(err)
	}

	metrics.AccessGrants.WithLabelValues(string(role)).Inc()

	return &AccessGrant{
		DocumentID: doc.ID,
		URL:        signed.URL,
		ExpiresIn:  int64(ttl / time.Second),
		ExpiresAt:  signed.ExpiresAt,
		IssuedAt:   issuedAt,
		Role:       role,
		TTL:        ttl,
	}, nil
}
