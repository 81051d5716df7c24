package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nadiaputeri/campuscore/internal/cache"
	"github.com/nadiaputeri/campuscore/internal/services"
	"github.com/nadiaputeri/campuscore/pkg/response"
)

type SectionHandler struct {
	svc *services.SectionService
}

func NewSectionHandler(db *gorm.DB, facade *cache.Facade, invalidator *cache.Invalidator) (*SectionHandler, error) {
	svc, err := services.NewSectionService(db, facade, invalidator)
	if err != nil {
		return nil, err
	}
	return &SectionHandler{svc: svc}, nil
}

type createSectionRequest struct {
	AcademicYearID string  `json:"academic_year_id" validate:"required,uuid4"`
	Name           string  `json:"name" validate:"required,min=1,max=60"`
	GradeLevel     int     `json:"grade_level" validate:"required,gte=1,lte=13"`
	HomeroomID     *string `json:"homeroom_teacher_id" validate:"omitempty,uuid4"`
}

// GET /api/schools/:id/sections?year=<id>
func (h *SectionHandler) ListByYear(c *gin.Context) {
	sections, err := h.svc.ListByYear(requestContext(c), c.Param("id"), c.Query("year"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, sections)
}

// GET /api/schools/:id/sections/:sectionID
func (h *SectionHandler) Get(c *gin.Context) {
	section, err := h.svc.GetByID(requestContext(c), c.Param("id"), c.Param("sectionID"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, section)
}

// POST /api/schools/:id/sections
func (h *SectionHandler) Create(c *gin.Context) {
	var body createSectionRequest
	if !bindAndValidate(c, &body) {
		return
	}

	section, err := h.svc.Create(requestContext(c), services.CreateSectionInput{
		SchoolID:       c.Param("id"),
		AcademicYearID: body.AcademicYearID,
		Name:           body.Name,
		GradeLevel:     body.GradeLevel,
		HomeroomID:     body.HomeroomID,
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusCreated, section)
}

// DELETE /api/schools/:id/sections/:sectionID
func (h *SectionHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("id"), c.Param("sectionID")); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
