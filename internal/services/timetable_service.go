package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/nadiaputeri/campuscore/internal/cache"
	"github.com/nadiaputeri/campuscore/internal/models"
	apperrors "github.com/nadiaputeri/campuscore/pkg/errors"
	"github.com/nadiaputeri/campuscore/pkg/logger"
	"github.com/nadiaputeri/campuscore/pkg/metrics"
	"github.com/nadiaputeri/campuscore/pkg/validator"

	"go.uber.org/zap"
)

// AssignmentInput is one proposed timetable entry for a section.
type AssignmentInput struct {
	DayOfWeek int    `validate:"required,gte=1,lte=7"`
	SlotID    string `validate:"required,max=40"`
	SubjectID string `validate:"required,uuid4"`
	TeacherID string `validate:"required,uuid4"`
}

// SlotConflict names one double-booked (day, slot, teacher) tuple and the
// section already holding it. A full replacement reports every conflict at
// once so the caller can fix the whole batch in one pass.
type SlotConflict struct {
	DayOfWeek   int    `json:"day_of_week"`
	SlotID      string `json:"slot_id"`
	TeacherID   string `json:"teacher_id"`
	TeacherName string `json:"teacher_name,omitempty"`
	SectionID   string `json:"section_id"`
	SectionName string `json:"section_name"`
}

// TimetableService atomically replaces a section's weekly timetable while
// refusing to double-book a teacher across sections. The application-level
// conflict pre-check produces friendly rejections; the composite unique index
// on time_slot_assignments is the authoritative guard that closes the
// check-then-commit race between concurrent submissions.
type TimetableService struct {
	db          *gorm.DB
	cache       *cache.Facade
	invalidator *cache.Invalidator
	log         *zap.Logger
}

// NewTimetableService constructs a TimetableService instance.
func NewTimetableService(db *gorm.DB, facade *cache.Facade, invalidator *cache.Invalidator) (*TimetableService, error) {
	if db == nil {
		return nil, errors.New("timetable service: db is required")
	}
	return &TimetableService{
		db:          db,
		cache:       facade,
		invalidator: invalidator,
		log:         logger.WithModule("timetable"),
	}, nil
}

func timetableScope(schoolID string) cache.Scope {
	return cache.NewScope("timetable", schoolID)
}

// sectionYearScope narrows the timetable scope to one section+year view so a
// commit does not evict the rest of the tenant's cached timetables.
func sectionYearScope(schoolID, sectionID, yearID string) cache.Scope {
	return timetableScope(schoolID).Narrow(sectionID + ":" + yearID)
}

// ReplaceTimetable validates the proposed batch, rejects it with the full
// conflict list if any tuple would double-book a teacher in another section,
// and otherwise commits it atomically: prior assignments for the section+year
// are deleted and the proposed set inserted in one transaction. An empty
// batch clears the timetable. A storage failure is retryable because nothing
// partial is ever persisted.
func (s *TimetableService) ReplaceTimetable(ctx context.Context, sectionID, yearID string, proposed []AssignmentInput) ([]models.TimeSlotAssignment, error) {
	ctx = ensureContext(ctx)

	section, err := s.loadSection(ctx, sectionID, yearID)
	if err != nil {
		return nil, err
	}

	if err := s.validateBatch(proposed); err != nil {
		metrics.TimetableCommits.WithLabelValues("rejected").Inc()
		return nil, err
	}

	conflicts, err := s.findCrossSectionConflicts(ctx, sectionID, yearID, proposed)
	if err != nil {
		metrics.TimetableCommits.WithLabelValues("error").Inc()
		return nil, apperrors.ErrServiceUnavailable.WithInternal(err)
	}
	if len(conflicts) > 0 {
		metrics.TimetableCommits.WithLabelValues("rejected").Inc()
		return nil, conflictError(conflicts)
	}

	assignments := make([]models.TimeSlotAssignment, 0, len(proposed))
	for _, in := range proposed {
		assignments = append(assignments, models.TimeSlotAssignment{
			SectionID:      sectionID,
			AcademicYearID: yearID,
			DayOfWeek:      in.DayOfWeek,
			SlotID:         strings.TrimSpace(in.SlotID),
			SubjectID:      in.SubjectID,
			TeacherID:      in.TeacherID,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.TimeSlotAssignment{},
			"section_id = ? AND academic_year_id = ?", sectionID, yearID).Error; err != nil {
			return err
		}
		if len(assignments) == 0 {
			return nil
		}
		return tx.Create(&assignments).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			// Another section won the conflict window between our
			// pre-check and this commit. Re-run the check to name
			// the winner; the transaction rolled back, so nothing
			// partial persisted.
			metrics.TimetableCommits.WithLabelValues("rejected").Inc()
			if conflicts, cerr := s.findCrossSectionConflicts(ctx, sectionID, yearID, proposed); cerr == nil && len(conflicts) > 0 {
				return nil, conflictError(conflicts)
			}
			return nil, apperrors.ErrConflict.WithInternal(err)
		}
		metrics.TimetableCommits.WithLabelValues("error").Inc()
		return nil, apperrors.ErrServiceUnavailable.WithInternal(err)
	}

	metrics.TimetableCommits.WithLabelValues("committed").Inc()
	s.log.Info("timetable replaced",
		zap.String("section_id", sectionID),
		zap.String("year_id", yearID),
		zap.Int("entries", len(assignments)))

	if s.invalidator != nil {
		s.invalidator.InvalidateScope(ctx, sectionYearScope(section.SchoolID, sectionID, yearID))
	}
	return assignments, nil
}

// GetTimetable returns the section's timetable for a year through the cache
// facade, ordered day-then-slot.
func (s *TimetableService) GetTimetable(ctx context.Context, sectionID, yearID string) ([]models.TimeSlotAssignment, error) {
	ctx = ensureContext(ctx)

	section, err := s.loadSection(ctx, sectionID, yearID)
	if err != nil {
		return nil, err
	}

	key := sectionYearScope(section.SchoolID, sectionID, yearID).Key("view")
	return cache.GetOrLoad(ctx, s.cache, key, cache.DefaultTTL, func(ctx context.Context) ([]models.TimeSlotAssignment, error) {
		var rows []models.TimeSlotAssignment
		if err := s.db.WithContext(ctx).
			Where("section_id = ? AND academic_year_id = ?", sectionID, yearID).
			Order("day_of_week ASC, slot_id ASC").
			Find(&rows).Error; err != nil {
			return nil, apperrors.ErrServiceUnavailable.WithInternal(err)
		}
		return rows, nil
	})
}

func (s *TimetableService) loadSection(ctx context.Context, sectionID, yearID string) (*models.ClassSection, error) {
	if strings.TrimSpace(sectionID) == "" || strings.TrimSpace(yearID) == "" {
		return nil, apperrors.NewBadRequest("section id and academic year id are required")
	}

	var section models.ClassSection
	err := s.db.WithContext(ctx).First(&section, "id = ?", sectionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound.WithInternal(fmt.Errorf("section %s", sectionID))
	}
	if err != nil {
		return nil, apperrors.ErrServiceUnavailable.WithInternal(err)
	}
	if section.AcademicYearID != yearID {
		return nil, apperrors.NewBadRequest("section does not belong to the academic year")
	}
	return &section, nil
}

// validateBatch checks every proposed entry and rejects duplicate
// (day, slot, teacher) tuples within the batch itself, before any query runs.
func (s *TimetableService) validateBatch(proposed []AssignmentInput) error {
	seen := make(map[string]struct{}, len(proposed))
	for i, in := range proposed {
		if err := validator.ValidateStruct(in); err != nil {
			return apperrors.NewBadRequest(fmt.Sprintf("assignment %d: %v", i, err))
		}
		tuple := fmt.Sprintf("%d|%s|%s", in.DayOfWeek, strings.TrimSpace(in.SlotID), in.TeacherID)
		if _, dup := seen[tuple]; dup {
			return apperrors.NewBadRequest(fmt.Sprintf(
				"assignment %d: teacher %s is booked twice at day %d slot %s within this batch",
				i, in.TeacherID, in.DayOfWeek, in.SlotID))
		}
		seen[tuple] = struct{}{}
	}
	return nil
}

// findCrossSectionConflicts queries, for every proposed tuple, assignments in
// the same year holding the same (day, slot, teacher) but in a different
// section. All conflicts are collected so the rejection names every problem.
func (s *TimetableService) findCrossSectionConflicts(ctx context.Context, sectionID, yearID string, proposed []AssignmentInput) ([]SlotConflict, error) {
	var conflicts []SlotConflict
	for _, in := range proposed {
		var existing []models.TimeSlotAssignment
		err := s.db.WithContext(ctx).
			Preload("Section").
			Preload("Teacher").
			Where("academic_year_id = ? AND day_of_week = ? AND slot_id = ? AND teacher_id = ? AND section_id <> ?",
				yearID, in.DayOfWeek, strings.TrimSpace(in.SlotID), in.TeacherID, sectionID).
			Find(&existing).Error
		if err != nil {
			return nil, fmt.Errorf("timetable service: conflict query: %w", err)
		}
		for _, row := range existing {
			conflict := SlotConflict{
				DayOfWeek: row.DayOfWeek,
				SlotID:    row.SlotID,
				TeacherID: row.TeacherID,
				SectionID: row.SectionID,
			}
			if row.Section != nil {
				conflict.SectionName = row.Section.Name
			}
			if row.Teacher != nil {
				conflict.TeacherName = row.Teacher.Name
			}
			conflicts = append(conflicts, conflict)
		}
	}
	return conflicts, nil
}

func conflictError(conflicts []SlotConflict) error {
	first := conflicts[0]
	msg := fmt.Sprintf("teacher already booked in section %s at day %d slot %s",
		first.SectionName, first.DayOfWeek, first.SlotID)
	if len(conflicts) > 1 {
		msg = fmt.Sprintf("%s (and %d more conflicts)", msg, len(conflicts)-1)
	}
	return apperrors.New(apperrors.ErrConflict.Code, msg, apperrors.ErrConflict.StatusCode).
		WithDetails(conflicts)
}
