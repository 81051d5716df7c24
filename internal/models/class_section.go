package models

// ClassSection is a named group of students (e.g. "7A") within a school and academic year.
type ClassSection struct {
	BaseModel

	SchoolID       string `gorm:"type:uuid;not null;index;uniqueIndex:idx_section_school_year_name,priority:1" json:"school_id"`
	AcademicYearID string `gorm:"type:uuid;not null;uniqueIndex:idx_section_school_year_name,priority:2" json:"academic_year_id"`
	Name           string `gorm:"type:varchar(60);not null;uniqueIndex:idx_section_school_year_name,priority:3" json:"name"`
	GradeLevel     int    `gorm:"not null" json:"grade_level"`
	HomeroomID     *string `gorm:"type:uuid" json:"homeroom_teacher_id,omitempty"`

	School       *School       `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
	AcademicYear *AcademicYear `gorm:"foreignKey:AcademicYearID" json:"academic_year,omitempty"`
}
