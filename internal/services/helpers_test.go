package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nadiaputeri/campuscore/internal/cache"
	"github.com/nadiaputeri/campuscore/internal/database/testutil"
	"github.com/nadiaputeri/campuscore/internal/models"
)

type serviceTestEnv struct {
	db          *gorm.DB
	facade      *cache.Facade
	invalidator *cache.Invalidator
}

// newServiceTestEnv opens an isolated database and wires the cache facade to
// the database-backed store so cached reads and invalidation are exercised
// end to end.
func newServiceTestEnv(t *testing.T) serviceTestEnv {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	store := cache.NewDatabaseStore(db)
	return serviceTestEnv{
		db:          db,
		facade:      cache.NewFacade(store),
		invalidator: cache.NewInvalidator(store),
	}
}

func createTestSchool(t *testing.T, db *gorm.DB, slug string) *models.School {
	t.Helper()

	school := &models.School{Name: "SMA " + slug, Slug: slug, Active: true}
	require.NoError(t, db.Create(school).Error)
	return school
}

func createTestYear(t *testing.T, db *gorm.DB, schoolID, label string) *models.AcademicYear {
	t.Helper()

	year := &models.AcademicYear{
		SchoolID: schoolID,
		Label:    label,
		StartsOn: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		EndsOn:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		Active:   true,
	}
	require.NoError(t, db.Create(year).Error)
	return year
}

func createTestSection(t *testing.T, db *gorm.DB, schoolID, yearID, name string) *models.ClassSection {
	t.Helper()

	section := &models.ClassSection{
		SchoolID:       schoolID,
		AcademicYearID: yearID,
		Name:           name,
		GradeLevel:     7,
	}
	require.NoError(t, db.Create(section).Error)
	return section
}

func createTestTeacher(t *testing.T, db *gorm.DB, schoolID, name, email string) *models.Teacher {
	t.Helper()

	teacher := &models.Teacher{SchoolID: schoolID, Name: name, Email: email, Active: true}
	require.NoError(t, db.Create(teacher).Error)
	return teacher
}

func createTestSubject(t *testing.T, db *gorm.DB, schoolID, code, name string) *models.Subject {
	t.Helper()

	subject := &models.Subject{SchoolID: schoolID, Code: code, Name: name}
	require.NoError(t, db.Create(subject).Error)
	return subject
}
