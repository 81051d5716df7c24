package models

// TimeSlotAssignment places one teacher with one subject in front of one
// section during a weekly period. The composite unique index on
// (academic_year_id, day_of_week, slot_id, teacher_id) is the authoritative
// guard against double-booking a teacher; the application-level pre-check in
// the timetable service exists only to reject conflicting batches with a
// friendly error before the database does.
type TimeSlotAssignment struct {
	BaseModel

	SectionID      string `gorm:"type:uuid;not null;index:idx_assignment_section_year,priority:1" json:"section_id"`
	AcademicYearID string `gorm:"type:uuid;not null;index:idx_assignment_section_year,priority:2;uniqueIndex:idx_assignment_teacher_slot,priority:1" json:"academic_year_id"`
	DayOfWeek      int    `gorm:"not null;uniqueIndex:idx_assignment_teacher_slot,priority:2" json:"day_of_week"`
	SlotID         string `gorm:"type:varchar(40);not null;uniqueIndex:idx_assignment_teacher_slot,priority:3" json:"slot_id"`
	TeacherID      string `gorm:"type:uuid;not null;uniqueIndex:idx_assignment_teacher_slot,priority:4" json:"teacher_id"`
	SubjectID      string `gorm:"type:uuid;not null" json:"subject_id"`

	Section *ClassSection `gorm:"foreignKey:SectionID" json:"section,omitempty"`
	Teacher *Teacher      `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Subject *Subject      `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
}
