package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nadiaputeri/campuscore/internal/cache"
	"github.com/nadiaputeri/campuscore/internal/services"
	"github.com/nadiaputeri/campuscore/pkg/response"
)

type TimetableHandler struct {
	svc *services.TimetableService
}

func NewTimetableHandler(db *gorm.DB, facade *cache.Facade, invalidator *cache.Invalidator) (*TimetableHandler, error) {
	svc, err := services.NewTimetableService(db, facade, invalidator)
	if err != nil {
		return nil, err
	}
	return &TimetableHandler{svc: svc}, nil
}

type assignmentRequest struct {
	DayOfWeek int    `json:"day_of_week" validate:"required,gte=1,lte=7"`
	SlotID    string `json:"slot_id" validate:"required,max=40"`
	SubjectID string `json:"subject_id" validate:"required,uuid4"`
	TeacherID string `json:"teacher_id" validate:"required,uuid4"`
}

type replaceTimetableRequest struct {
	AcademicYearID string              `json:"academic_year_id" validate:"required,uuid4"`
	Assignments    []assignmentRequest `json:"assignments" validate:"dive"`
}

// GET /api/sections/:sectionID/timetable?year=<id>
func (h *TimetableHandler) Get(c *gin.Context) {
	entries, err := h.svc.GetTimetable(requestContext(c), c.Param("sectionID"), c.Query("year"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, entries)
}

// PUT /api/sections/:sectionID/timetable
//
// The request body replaces the section's whole timetable for the year. A
// conflict response carries every offending (day, slot, teacher) tuple in its
// details so the client can surface all problems at once.
func (h *TimetableHandler) Replace(c *gin.Context) {
	var body replaceTimetableRequest
	if !bindAndValidate(c, &body) {
		return
	}

	proposed := make([]services.AssignmentInput, 0, len(body.Assignments))
	for _, in := range body.Assignments {
		proposed = append(proposed, services.AssignmentInput{
			DayOfWeek: in.DayOfWeek,
			SlotID:    in.SlotID,
			SubjectID: in.SubjectID,
			TeacherID: in.TeacherID,
		})
	}

	entries, err := h.svc.ReplaceTimetable(requestContext(c), c.Param("sectionID"), body.AcademicYearID, proposed)
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"committed": true,
		"entries":   entries,
	})
}
