package models

// Teacher is a staff member who can be assigned to timetable slots.
type Teacher struct {
	BaseModel

	SchoolID string `gorm:"type:uuid;not null;index" json:"school_id"`
	Name     string `gorm:"type:varchar(160);not null" json:"name"`
	Email    string `gorm:"type:varchar(160);not null;uniqueIndex" json:"email"`
	NIP      string `gorm:"type:varchar(32)" json:"nip,omitempty"`
	Active   bool   `gorm:"not null;default:true" json:"active"`

	School *School `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
}
