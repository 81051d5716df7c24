package models

import "strings"

// School is the tenant boundary: every record below belongs to exactly one school.
type School struct {
	BaseModel

	Name    string `gorm:"type:varchar(160);not null" json:"name"`
	Slug    string `gorm:"type:varchar(80);not null;uniqueIndex" json:"slug"`
	Address string `gorm:"type:text" json:"address,omitempty"`
	Phone   string `gorm:"type:varchar(32)" json:"phone,omitempty"`
	Active  bool   `gorm:"not null;default:true" json:"active"`

	Sections []ClassSection `gorm:"foreignKey:SchoolID" json:"sections,omitempty"`
	Subjects []Subject      `gorm:"foreignKey:SchoolID" json:"subjects,omitempty"`
	Teachers []Teacher      `gorm:"foreignKey:SchoolID" json:"teachers,omitempty"`
}

// Normalise lower-cases and trims the slug.
func (s *School) Normalise() {
	s.Slug = strings.ToLower(strings.TrimSpace(s.Slug))
	s.Name = strings.TrimSpace(s.Name)
}
