package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nadiaputeri/campuscore/internal/cache"
	"github.com/nadiaputeri/campuscore/internal/services"
	"github.com/nadiaputeri/campuscore/pkg/response"
)

type AcademicYearHandler struct {
	svc *services.AcademicYearService
}

func NewAcademicYearHandler(db *gorm.DB, facade *cache.Facade, invalidator *cache.Invalidator) (*AcademicYearHandler, error) {
	svc, err := services.NewAcademicYearService(db, facade, invalidator)
	if err != nil {
		return nil, err
	}
	return &AcademicYearHandler{svc: svc}, nil
}

type createYearRequest struct {
	Label    string    `json:"label" validate:"required,min=4,max=20"`
	StartsOn time.Time `json:"starts_on"`
	EndsOn   time.Time `json:"ends_on"`
	Active   bool      `json:"active"`
}

// GET /api/schools/:id/years
func (h *AcademicYearHandler) List(c *gin.Context) {
	years, err := h.svc.List(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, years)
}

// GET /api/schools/:id/years/active
func (h *AcademicYearHandler) Active(c *gin.Context) {
	year, err := h.svc.Active(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, year)
}

// POST /api/schools/:id/years
func (h *AcademicYearHandler) Create(c *gin.Context) {
	var body createYearRequest
	if !bindAndValidate(c, &body) {
		return
	}

	year, err := h.svc.Create(requestContext(c), services.CreateAcademicYearInput{
		SchoolID: c.Param("id"),
		Label:    body.Label,
		StartsOn: body.StartsOn,
		EndsOn:   body.EndsOn,
		Active:   body.Active,
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusCreated, year)
}
