package models

// Subject is a taught discipline within a school (mathematics, biology, ...).
type Subject struct {
	BaseModel

	SchoolID string `gorm:"type:uuid;not null;uniqueIndex:idx_subject_school_code,priority:1" json:"school_id"`
	Code     string `gorm:"type:varchar(20);not null;uniqueIndex:idx_subject_school_code,priority:2" json:"code"`
	Name     string `gorm:"type:varchar(120);not null" json:"name"`

	School *School `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
}
