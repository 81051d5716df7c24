package models

import (
	"strings"

	"gorm.io/datatypes"
)

// DocumentCategory buckets documents for access control purposes.
type DocumentCategory string

const (
	DocumentCategoryProfileImage DocumentCategory = "profile_image"
	DocumentCategoryCertificate  DocumentCategory = "certificate"
	DocumentCategoryReportCard   DocumentCategory = "report_card"
	DocumentCategoryAdminRecord  DocumentCategory = "admin_record"
)

// Document is metadata for an uploaded file. The bytes themselves live in
// object storage under StorageKey; this record is never mutated by the access
// gateway.
type Document struct {
	BaseModel

	SchoolID   string           `gorm:"type:uuid;not null;index" json:"school_id"`
	OwnerID    string           `gorm:"type:uuid;not null;index" json:"owner_id"`
	Category   DocumentCategory `gorm:"type:varchar(40);not null;index" json:"category"`
	StorageKey string           `gorm:"type:varchar(512);not null;uniqueIndex" json:"-"`
	FileName   string           `gorm:"type:varchar(255);not null" json:"file_name"`
	MimeType   string           `gorm:"type:varchar(100);not null" json:"mime_type"`
	SizeBytes  int64            `gorm:"not null" json:"size_bytes"`
	Verified   bool             `gorm:"not null;default:false" json:"verified"`
	Metadata   datatypes.JSON   `json:"metadata,omitempty"`

	School *School `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
}

// Normalise trims identifying fields and lower-cases the category.
func (d *Document) Normalise() {
	d.FileName = strings.TrimSpace(d.FileName)
	d.Category = DocumentCategory(strings.ToLower(strings.TrimSpace(string(d.Category))))
}

// KnownCategory reports whether the category is one of the closed set.
func (d *Document) KnownCategory() bool {
	switch d.Category {
	case DocumentCategoryProfileImage, DocumentCategoryCertificate,
		DocumentCategoryReportCard, DocumentCategoryAdminRecord:
		return true
	}
	return false
}
