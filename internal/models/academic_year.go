package models

import "time"

// AcademicYear represents one school year (e.g. "2025/2026") for a school.
type AcademicYear struct {
	BaseModel

	SchoolID string    `gorm:"type:uuid;not null;uniqueIndex:idx_academic_year_school_label,priority:1" json:"school_id"`
	Label    string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_academic_year_school_label,priority:2" json:"label"`
	StartsOn time.Time `json:"starts_on"`
	EndsOn   time.Time `json:"ends_on"`
	Active   bool      `gorm:"not null;default:false;index" json:"active"`

	School *School `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
}
