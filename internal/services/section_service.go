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
	// ErrSectionNotFound indicates the requested class section does not exist.
	ErrSectionNotFound = errors.New("section service: section not found")
	// ErrSectionNameTaken indicates the name is already used in the school year.
	ErrSectionNameTaken = errors.New("section service: section name already in use")
	// ErrAcademicYearNotFound indicates the referenced academic year does not exist.
	ErrAcademicYearNotFound = errors.New("section service: academic year not found")
)

// CreateSectionInput captures the attributes required to register a class section.
type CreateSectionInput struct {
	SchoolID       string
	AcademicYearID string
	Name           string
	GradeLevel     int
	HomeroomID     *string
}

// SectionService manages class sections within a school and academic year.
type SectionService struct {
	db          *gorm.DB
	cache       *cache.Facade
	invalidator *cache.Invalidator
}

// NewSectionService constructs a SectionService instance.
func NewSectionService(db *gorm.DB, facade *cache.Facade, invalidator *cache.Invalidator) (*SectionService, error) {
	if db == nil {
		return nil, errors.New("section service: db is required")
	}
	return &SectionService{
		db:          db,
		cache:       facade,
		invalidator: invalidator,
	}, nil
}

func sectionScope(schoolID string) cache.Scope {
	return cache.NewScope("section", schoolID)
}

// Create registers a new class section.
func (s *SectionService) Create(ctx context.Context, input CreateSectionInput) (*models.ClassSection, error) {
	ctx = ensureContext(ctx)

	section := &models.ClassSection{
		SchoolID:       strings.TrimSpace(input.SchoolID),
		AcademicYearID: strings.TrimSpace(input.AcademicYearID),
		Name:           strings.TrimSpace(input.Name),
		GradeLevel:     input.GradeLevel,
		HomeroomID:     input.HomeroomID,
	}
	if section.SchoolID == "" {
		return nil, errors.New("section service: school id is required")
	}
	if section.AcademicYearID == "" {
		return nil, errors.New("section service: academic year id is required")
	}
	if section.Name == "" {
		return nil, errors.New("section service: name is required")
	}

	var year models.AcademicYear
	err := s.db.WithContext(ctx).First(&year, "id = ? AND school_id = ?", section.AcademicYearID, section.SchoolID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAcademicYearNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("section service: load academic year: %w", err)
	}

	if err := s.db.WithContext(ctx).Create(section).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrSectionNameTaken
		}
		return nil, fmt.Errorf("section service: create section: %w", err)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateScope(ctx, sectionScope(section.SchoolID))
	}
	return section, nil
}

// GetByID loads a section through the cache facade.
func (s *SectionService) GetByID(ctx context.Context, schoolID, id string) (*models.ClassSection, error) {
	ctx = ensureContext(ctx)

	key := sectionScope(schoolID).Key("id", id)
	return cache.GetOrLoad(ctx, s.cache, key, cache.DefaultTTL, func(ctx context.Context) (*models.ClassSection, error) {
		var section models.ClassSection
		err := s.db.WithContext(ctx).First(&section, "id = ? AND school_id = ?", id, schoolID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("section service: get section: %w", err)
		}
		return &section, nil
	})
}

// ListByYear returns every section in an academic year, ordered by name.
func (s *SectionService) ListByYear(ctx context.Context, schoolID, yearID string) ([]models.ClassSection, error) {
	ctx = ensureContext(ctx)

	key := sectionScope(schoolID).Key("year", yearID, "list")
	return cache.GetOrLoad(ctx, s.cache, key, cache.DefaultTTL, func(ctx context.Context) ([]models.ClassSection, error) {
		var sections []models.ClassSection
		if err := s.db.WithContext(ctx).
			Where("school_id = ? AND academic_year_id = ?", schoolID, yearID).
			Order("name ASC").
			Find(&sections).Error; err != nil {
			return nil, fmt.Errorf("section service: list sections: %w", err)
		}
		return sections, nil
	})
}

// Delete removes a class section and its timetable rows.
func (s *SectionService) Delete(ctx context.Context, schoolID, id string) error {
	ctx = ensureContext(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Timetable rows reference the section, so they go first.
		if err := tx.Delete(&models.TimeSlotAssignment{}, "section_id = ?", id).Error; err != nil {
			return fmt.Errorf("section service: delete section timetable: %w", err)
		}
		result := tx.Delete(&models.ClassSection{}, "id = ? AND school_id = ?", id, schoolID)
		if result.Error != nil {
			return fmt.Errorf("section service: delete section: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrSectionNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateScope(ctx, sectionScope(schoolID))
		s.invalidator.InvalidateScope(ctx, timetableScope(schoolID).Narrow(id))
	}
	return nil
}
