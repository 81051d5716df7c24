package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/nadiaputeri/campuscore/internal/cache"
	"github.com/nadiaputeri/campuscore/internal/models"
)

var (
	// ErrDocumentNotFound indicates the requested document does not exist.
	ErrDocumentNotFound = errors.New("document service: document not found")
	// ErrDocumentKeyTaken indicates the storage key is already registered.
	ErrDocumentKeyTaken = errors.New("document service: storage key already registered")
	// ErrUnknownCategory indicates the category is outside the closed set.
	ErrUnknownCategory = errors.New("document service: unknown document category")
)

// RegisterDocumentInput captures the metadata recorded for an uploaded file.
// The bytes themselves are written to object storage by the caller; this
// service tracks the record only.
type RegisterDocumentInput struct {
	SchoolID   string
	OwnerID    string
	Category   models.DocumentCategory
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
	Metadata   map[string]any
}

// DocumentService manages document metadata records.
type DocumentService struct {
	db          *gorm.DB
	cache       *cache.Facade
	invalidator *cache.Invalidator
}

// NewDocumentService constructs a DocumentService instance.
func NewDocumentService(db *gorm.DB, facade *cache.Facade, invalidator *cache.Invalidator) (*DocumentService, error) {
	if db == nil {
		return nil, errors.New("document service: db is required")
	}
	return &DocumentService{
		db:          db,
		cache:       facade,
		invalidator: invalidator,
	}, nil
}

func documentScope(schoolID string) cache.Scope {
	return cache.NewScope("document", schoolID)
}

// Register records metadata for an uploaded document.
func (s *DocumentService) Register(ctx context.Context, input RegisterDocumentInput) (*models.Document, error) {
	ctx = ensureContext(ctx)

	doc := &models.Document{
		SchoolID:   strings.TrimSpace(input.SchoolID),
		OwnerID:    strings.TrimSpace(input.OwnerID),
		Category:   input.Category,
		StorageKey: strings.TrimSpace(input.StorageKey),
		FileName:   input.FileName,
		MimeType:   strings.TrimSpace(input.MimeType),
		SizeBytes:  input.SizeBytes,
	}
	doc.Normalise()

	switch {
	case doc.SchoolID == "":
		return nil, errors.New("document service: school id is required")
	case doc.OwnerID == "":
		return nil, errors.New("document service: owner id is required")
	case doc.StorageKey == "":
		return nil, errors.New("document service: storage key is required")
	case doc.FileName == "":
		return nil, errors.New("document service: file name is required")
	case doc.SizeBytes < 0:
		return nil, errors.New("document service: size must not be negative")
	}
	if !doc.KnownCategory() {
		return nil, ErrUnknownCategory
	}

	if input.Metadata != nil {
		data, err := json.Marshal(input.Metadata)
		if err != nil {
			return nil, fmt.Errorf("document service: marshal metadata: %w", err)
		}
		doc.Metadata = datatypes.JSON(data)
	}

	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDocumentKeyTaken
		}
		return nil, fmt.Errorf("document service: register document: %w", err)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateScope(ctx, documentScope(doc.SchoolID))
	}
	return doc, nil
}

// GetByID loads a document record through the cache facade.
func (s *DocumentService) GetByID(ctx context.Context, schoolID, id string) (*models.Document, error) {
	ctx = ensureContext(ctx)

	key := documentScope(schoolID).Key("id", id)
	return cache.GetOrLoad(ctx, s.cache, key, cache.DefaultTTL, func(ctx context.Context) (*models.Document, error) {
		var doc models.Document
		err := s.db.WithContext(ctx).First(&doc, "id = ? AND school_id = ?", id, schoolID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("document service: get document: %w", err)
		}
		return &doc, nil
	})
}

// ListByOwner returns the documents an owner holds in a school.
func (s *DocumentService) ListByOwner(ctx context.Context, schoolID, ownerID string) ([]models.Document, error) {
	ctx = ensureContext(ctx)

	key := documentScope(schoolID).Key("owner", ownerID)
	return cache.GetOrLoad(ctx, s.cache, key, cache.DefaultTTL, func(ctx context.Context) ([]models.Document, error) {
		var docs []models.Document
		if err := s.db.WithContext(ctx).
			Where("school_id = ? AND owner_id = ?", schoolID, ownerID).
			Order("created_at DESC").
			Find(&docs).Error; err != nil {
			return nil, fmt.Errorf("document service: list documents: %w", err)
		}
		return docs, nil
	})
}

// MarkVerified flags a document as checked by staff.
func (s *DocumentService) MarkVerified(ctx context.Context, schoolID, id string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("id = ? AND school_id = ?", id, schoolID).
		Update("verified", true)
	if result.Error != nil {
		return fmt.Errorf("document service: mark verified: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateScope(ctx, documentScope(schoolID))
	}
	return nil
}

// Delete removes a document record. The stored object is left for the
// storage lifecycle policy to reap.
func (s *DocumentService) Delete(ctx context.Context, schoolID, id string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Delete(&models.Document{}, "id = ? AND school_id = ?", id, schoolID)
	if result.Error != nil {
		return fmt.Errorf("document service: delete document: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateScope(ctx, documentScope(schoolID))
	}
	return nil
}
