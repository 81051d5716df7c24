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
	// ErrTeacherNotFound indicates the requested teacher does not exist.
	ErrTeacherNotFound = errors.New("teacher service: teacher not found")
	// ErrTeacherEmailTaken indicates the email is already registered.
	ErrTeacherEmailTaken = errors.New("teacher service: email already in use")
)

// CreateTeacherInput captures the attributes required to register a teacher.
type CreateTeacherInput struct {
	SchoolID string
	Name     string
	Email    string
	NIP      string
}

// UpdateTeacherInput represents mutable teacher fields.
type UpdateTeacherInput struct {
	Name   *string
	NIP    *string
	Active *bool
}

// TeacherService manages teaching staff records for a school.
type TeacherService struct {
	db          *gorm.DB
	cache       *cache.Facade
	invalidator *cache.Invalidator
}

// NewTeacherService constructs a TeacherService instance.
func NewTeacherService(db *gorm.DB, facade *cache.Facade, invalidator *cache.Invalidator) (*TeacherService, error) {
	if db == nil {
		return nil, errors.New("teacher service: db is required")
	}
	return &TeacherService{
		db:          db,
		cache:       facade,
		invalidator: invalidator,
	}, nil
}

func teacherScope(schoolID string) cache.Scope {
	return cache.NewScope("teacher", schoolID)
}

// Create registers a new teacher for a school.
func (s *TeacherService) Create(ctx context.Context, input CreateTeacherInput) (*models.Teacher, error) {
	ctx = ensureContext(ctx)

	teacher := &models.Teacher{
		SchoolID: strings.TrimSpace(input.SchoolID),
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		NIP:      strings.TrimSpace(input.NIP),
		Active:   true,
	}
	if teacher.SchoolID == "" {
		return nil, errors.New("teacher service: school id is required")
	}
	if teacher.Name == "" {
		return nil, errors.New("teacher service: name is required")
	}
	if teacher.Email == "" {
		return nil, errors.New("teacher service: email is required")
	}

	if err := s.db.WithContext(ctx).Create(teacher).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrTeacherEmailTaken
		}
		return nil, fmt.Errorf("teacher service: create teacher: %w", err)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateScope(ctx, teacherScope(teacher.SchoolID))
	}
	return teacher, nil
}

// GetByID loads a teacher through the cache facade.
func (s *TeacherService) GetByID(ctx context.Context, schoolID, id string) (*models.Teacher, error) {
	ctx = ensureContext(ctx)

	key := teacherScope(schoolID).Key("id", id)
	return cache.GetOrLoad(ctx, s.cache, key, cache.DefaultTTL, func(ctx context.Context) (*models.Teacher, error) {
		var teacher models.Teacher
		err := s.db.WithContext(ctx).First(&teacher, "id = ? AND school_id = ?", id, schoolID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("teacher service: get teacher: %w", err)
		}
		return &teacher, nil
	})
}

// List returns every teacher for a school, ordered by name.
func (s *TeacherService) List(ctx context.Context, schoolID string) ([]models.Teacher, error) {
	ctx = ensureContext(ctx)

	key := teacherScope(schoolID).Key("list")
	return cache.GetOrLoad(ctx, s.cache, key, cache.DefaultTTL, func(ctx context.Context) ([]models.Teacher, error) {
		var teachers []models.Teacher
		if err := s.db.WithContext(ctx).
			Where("school_id = ?", schoolID).
			Order("name ASC").
			Find(&teachers).Error; err != nil {
			return nil, fmt.Errorf("teacher service: list teachers: %w", err)
		}
		return teachers, nil
	})
}

// Update modifies metadata for a teacher.
func (s *TeacherService) Update(ctx context.Context, schoolID, id string, input UpdateTeacherInput) (*models.Teacher, error) {
	ctx = ensureContext(ctx)

	var teacher models.Teacher
	err := s.db.WithContext(ctx).First(&teacher, "id = ? AND school_id = ?", id, schoolID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTeacherNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("teacher service: load teacher: %w", err)
	}

	if input.Name != nil {
		teacher.Name = strings.TrimSpace(*input.Name)
	}
	if input.NIP != nil {
		teacher.NIP = strings.TrimSpace(*input.NIP)
	}
	if input.Active != nil {
		teacher.Active = *input.Active
	}

	if err := s.db.WithContext(ctx).Save(&teacher).Error; err != nil {
		return nil, fmt.Errorf("teacher service: update teacher: %w", err)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateScope(ctx, teacherScope(schoolID))
	}
	return &teacher, nil
}
