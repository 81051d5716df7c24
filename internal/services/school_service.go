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
	// ErrSchoolNotFound indicates the requested school does not exist.
	ErrSchoolNotFound = errors.New("school service: school not found")
	// ErrSchoolSlugTaken indicates the slug is already registered.
	ErrSchoolSlugTaken = errors.New("school service: slug already in use")
)

// CreateSchoolInput captures the attributes required to register a school.
type CreateSchoolInput struct {
	Name    string
	Slug    string
	Address string
	Phone   string
}

// UpdateSchoolInput represents mutable school fields.
type UpdateSchoolInput struct {
	Name    *string
	Address *string
	Phone   *string
	Active  *bool
}

// SchoolService manages lifecycle operations for tenant schools. Reads go
// through the cache facade; writes invalidate the school scope afterwards.
type SchoolService struct {
	db          *gorm.DB
	cache       *cache.Facade
	invalidator *cache.Invalidator
}

// NewSchoolService constructs a SchoolService instance.
func NewSchoolService(db *gorm.DB, facade *cache.Facade, invalidator *cache.Invalidator) (*SchoolService, error) {
	if db == nil {
		return nil, errors.New("school service: db is required")
	}
	return &SchoolService{
		db:          db,
		cache:       facade,
		invalidator: invalidator,
	}, nil
}

func schoolScope() cache.Scope {
	return cache.NewScope("school", "")
}

// Create registers a new school.
func (s *SchoolService) Create(ctx context.Context, input CreateSchoolInput) (*models.School, error) {
	ctx = ensureContext(ctx)

	school := &models.School{
		Name:    input.Name,
		Slug:    input.Slug,
		Address: strings.TrimSpace(input.Address),
		Phone:   strings.TrimSpace(input.Phone),
		Active:  true,
	}
	school.Normalise()
	if school.Name == "" {
		return nil, errors.New("school service: name is required")
	}
	if school.Slug == "" {
		return nil, errors.New("school service: slug is required")
	}

	if err := s.db.WithContext(ctx).Create(school).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrSchoolSlugTaken
		}
		return nil, fmt.Errorf("school service: create school: %w", err)
	}

	s.invalidate(ctx)
	return school, nil
}

// GetByID loads a school through the cache facade.
func (s *SchoolService) GetByID(ctx context.Context, id string) (*models.School, error) {
	ctx = ensureContext(ctx)

	key := schoolScope().Key("id", id)
	return cache.GetOrLoad(ctx, s.cache, key, cache.DefaultTTL, func(ctx context.Context) (*models.School, error) {
		var school models.School
		err := s.db.WithContext(ctx).First(&school, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchoolNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("school service: get school: %w", err)
		}
		return &school, nil
	})
}

// GetBySlug resolves a school by its public slug.
func (s *SchoolService) GetBySlug(ctx context.Context, slug string) (*models.School, error) {
	ctx = ensureContext(ctx)
	slug = strings.ToLower(strings.TrimSpace(slug))

	key := schoolScope().Key("slug", slug)
	return cache.GetOrLoad(ctx, s.cache, key, cache.DefaultTTL, func(ctx context.Context) (*models.School, error) {
		var school models.School
		err := s.db.WithContext(ctx).First(&school, "slug = ?", slug).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchoolNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("school service: get school by slug: %w", err)
		}
		return &school, nil
	})
}

// List returns all schools ordered by creation date from the cached view.
func (s *SchoolService) List(ctx context.Context) ([]models.School, error) {
	ctx = ensureContext(ctx)

	key := schoolScope().Key("list")
	return cache.GetOrLoad(ctx, s.cache, key, cache.DefaultTTL, func(ctx context.Context) ([]models.School, error) {
		var schools []models.School
		if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&schools).Error; err != nil {
			return nil, fmt.Errorf("school service: list schools: %w", err)
		}
		return schools, nil
	})
}

// Update modifies metadata for a school.
func (s *SchoolService) Update(ctx context.Context, id string, input UpdateSchoolInput) (*models.School, error) {
	ctx = ensureContext(ctx)

	var school models.School
	err := s.db.WithContext(ctx).First(&school, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSchoolNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("school service: load school: %w", err)
	}

	if input.Name != nil {
		school.Name = strings.TrimSpace(*input.Name)
	}
	if input.Address != nil {
		school.Address = strings.TrimSpace(*input.Address)
	}
	if input.Phone != nil {
		school.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Active != nil {
		school.Active = *input.Active
	}

	if err := s.db.WithContext(ctx).Save(&school).Error; err != nil {
		return nil, fmt.Errorf("school service: update school: %w", err)
	}

	s.invalidate(ctx)
	return &school, nil
}

// Delete removes a school record.
func (s *SchoolService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Delete(&models.School{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("school service: delete school: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSchoolNotFound
	}

	s.invalidate(ctx)
	return nil
}

func (s *SchoolService) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.InvalidateScope(ctx, schoolScope())
	}
}
