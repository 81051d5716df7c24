package database

import (
	"gorm.io/gorm"

	"github.com/nadiaputeri/campuscore/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.School{},
		&models.AcademicYear{},
		&models.ClassSection{},
		&models.Subject{},
		&models.Teacher{},
		&models.TimeSlotAssignment{},
		&models.Document{},
		&models.CacheEntry{},
	)
}

// SeedData populates a default demo school so a fresh install is navigable.
func SeedData(db *gorm.DB) error {
	school := models.School{
		BaseModel: models.BaseModel{ID: "default"},
		Name:      "Default School",
		Slug:      "default",
		Active:    true,
	}

	return db.
		Where(models.School{Slug: school.Slug}).
		Attrs(school).
		FirstOrCreate(&models.School{}).Error
}
