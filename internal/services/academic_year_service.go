package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/nadiaputeri/campuscore/internal/cache"
	"github.com/nadiaputeri/campuscore/internal/models"
)

// ErrYearLabelTaken indicates the label is already used by the school.
var ErrYearLabelTaken = errors.New("academic year service: label already in use")

// CreateAcademicYearInput captures the attributes of a school year.
type CreateAcademicYearInput struct {
	SchoolID string
	Label    string
	StartsOn time.Time
	EndsOn   time.Time
	Active   bool
}

// AcademicYearService manages school-year records.
type AcademicYearService struct {
	db          *gorm.DB
	cache       *cache.Facade
	invalidator *cache.Invalidator
}

// NewAcademicYearService constructs an AcademicYearService instance.
func NewAcademicYearService(db *gorm.DB, facade *cache.Facade, invalidator *cache.Invalidator) (*AcademicYearService, error) {
	if db == nil {
		return nil, errors.New("academic year service: db is required")
	}
	return &AcademicYearService{
		db:          db,
		cache:       facade,
		invalidator: invalidator,
	}, nil
}

func yearScope(schoolID string) cache.Scope {
	return cache.NewScope("year", schoolID)
}

// Create registers a school year. Marking it active deactivates the previous
// active year in the same transaction.
func (s *AcademicYearService) Create(ctx context.Context, input CreateAcademicYearInput) (*models.AcademicYear, error) {
	ctx = ensureContext(ctx)

	year := &models.AcademicYear{
		SchoolID: strings.TrimSpace(input.SchoolID),
		Label:    strings.TrimSpace(input.Label),
		StartsOn: input.StartsOn,
		EndsOn:   input.EndsOn,
		Active:   input.Active,
	}
	if year.SchoolID == "" {
		return nil, errors.New("academic year service: school id is required")
	}
	if year.Label == "" {
		return nil, errors.New("academic year service: label is required")
	}
	if !year.EndsOn.IsZero() && year.EndsOn.Before(year.StartsOn) {
		return nil, errors.New("academic year service: end date precedes start date")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if year.Active {
			if err := tx.Model(&models.AcademicYear{}).
				Where("school_id = ? AND active = ?", year.SchoolID, true).
				Update("active", false).Error; err != nil {
				return fmt.Errorf("academic year service: deactivate previous year: %w", err)
			}
		}
		return tx.Create(year).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrYearLabelTaken
		}
		return nil, fmt.Errorf("academic year service: create year: %w", err)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateScope(ctx, yearScope(year.SchoolID))
	}
	return year, nil
}

// List returns every year for a school, newest first.
func (s *AcademicYearService) List(ctx context.Context, schoolID string) ([]models.AcademicYear, error) {
	ctx = ensureContext(ctx)

	key := yearScope(schoolID).Key("list")
	return cache.GetOrLoad(ctx, s.cache, key, cache.DefaultTTL, func(ctx context.Context) ([]models.AcademicYear, error) {
		var years []models.AcademicYear
		if err := s.db.WithContext(ctx).
			Where("school_id = ?", schoolID).
			Order("starts_on DESC").
			Find(&years).Error; err != nil {
			return nil, fmt.Errorf("academic year service: list years: %w", err)
		}
		return years, nil
	})
}

// Active returns the school's currently active year.
func (s *AcademicYearService) Active(ctx context.Context, schoolID string) (*models.AcademicYear, error) {
	ctx = ensureContext(ctx)

	key := yearScope(schoolID).Key("active")
	return cache.GetOrLoad(ctx, s.cache, key, cache.DefaultTTL, func(ctx context.Context) (*models.AcademicYear, error) {
		var year models.AcademicYear
		err := s.db.WithContext(ctx).First(&year, "school_id = ? AND active = ?", schoolID, true).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAcademicYearNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("academic year service: active year: %w", err)
		}
		return &year, nil
	})
}
