package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/nadiaputeri/campuscore/internal/cache"
	"github.com/nadiaputeri/campuscore/internal/models"
)

var (
	// ErrSubjectNotFound indicates the requested subject does not exist.
	ErrSubjectNotFound = errors.New("subject service: subject not found")
	// ErrSubjectCodeTaken indicates the code is already registered for the school.
	ErrSubjectCodeTaken = errors.New("subject service: code already in use")
)

// CreateSubjectInput captures the attributes required to register a subject.
type CreateSubjectInput struct {
	SchoolID string
	Code     string
	Name     string
}

// SubjectService manages taught disciplines within a school.
type SubjectService struct {
	db          *gorm.DB
	cache       *cache.Facade
	invalidator *cache.Invalidator
}

// NewSubjectService constructs a SubjectService instance.
func NewSubjectService(db *gorm.DB, facade *cache.Facade, invalidator *cache.Invalidator) (*SubjectService, error) {
	if db == nil {
		return nil, errors.New("subject service: db is required")
	}
	return &SubjectService{
		db:          db,
		cache:       facade,
		invalidator: invalidator,
	}, nil
}

func subjectScope(schoolID string) cache.Scope {
	return cache.NewScope("subject", schoolID)
}

// Create registers a new subject for a school.
func (s *SubjectService) Create(ctx context.Context, input CreateSubjectInput) (*models.Subject, error) {
	ctx = ensureContext(ctx)

	subject := &models.Subject{
		SchoolID: strings.TrimSpace(input.SchoolID),
		Code:     strings.ToUpper(strings.TrimSpace(input.Code)),
		Name:     strings.TrimSpace(input.Name),
	}
	if subject.SchoolID == "" {
		return nil, errors.New("subject service: school id is required")
	}
	if subject.Code == "" {
		return nil, errors.New("subject service: code is required")
	}
	if subject.Name == "" {
		return nil, errors.New("subject service: name is required")
	}

	if err := s.db.WithContext(ctx).Create(subject).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrSubjectCodeTaken
		}
		return nil, fmt.Errorf("subject service: create subject: %w", err)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateScope(ctx, subjectScope(subject.SchoolID))
	}
	return subject, nil
}

// GetByID loads a subject through the cache facade.
func (s *SubjectService) GetByID(ctx context.Context, schoolID, id string) (*models.Subject, error) {
	ctx = ensureContext(ctx)

	key := subjectScope(schoolID).Key("id", id)
	return cache.GetOrLoad(ctx, s.cache, key, cache.DefaultTTL, func(ctx context.Context) (*models.Subject, error) {
		var subject models.Subject
		err := s.db.WithContext(ctx).First(&subject, "id = ? AND school_id = ?", id, schoolID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("subject service: get subject: %w", err)
		}
		return &subject, nil
	})
}

// List returns every subject for a school, ordered by code.
func (s *SubjectService) List(ctx context.Context, schoolID string) ([]models.Subject, error) {
	ctx = ensureContext(ctx)

	key := subjectScope(schoolID).Key("list")
	return cache.GetOrLoad(ctx, s.cache, key, cache.DefaultTTL, func(ctx context.Context) ([]models.Subject, error) {
		var subjects []models.Subject
		if err := s.db.WithContext(ctx).
			Where("school_id = ?", schoolID).
			Order("code ASC").
			Find(&subjects).Error; err != nil {
			return nil, fmt.Errorf("subject service: list subjects: %w", err)
		}
		return subjects, nil
	})
}

// Delete removes a subject record.
func (s *SubjectService) Delete(ctx context.Context, schoolID, id string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Delete(&models.Subject{}, "id = ? AND school_id = ?", id, schoolID)
	if result.Error != nil {
		return fmt.Errorf("subject service: delete subject: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSubjectNotFound
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateScope(ctx, subjectScope(schoolID))
	}
	return nil
}
