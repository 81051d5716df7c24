package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nadiaputeri/campuscore/internal/cache"
	"github.com/nadiaputeri/campuscore/internal/services"
	"github.com/nadiaputeri/campuscore/pkg/response"
)

type SchoolHandler struct {
	svc *services.SchoolService
}

func NewSchoolHandler(db *gorm.DB, facade *cache.Facade, invalidator *cache.Invalidator) (*SchoolHandler, error) {
	svc, err := services.NewSchoolService(db, facade, invalidator)
	if err != nil {
		return nil, err
	}
	return &SchoolHandler{svc: svc}, nil
}

type createSchoolRequest struct {
	Name    string `json:"name" validate:"required,min=3,max=160"`
	Slug    string `json:"slug" validate:"required,min=2,max=80"`
	Address string `json:"address" validate:"omitempty,max=512"`
	Phone   string `json:"phone" validate:"omitempty,max=32"`
}

type updateSchoolRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=3,max=160"`
	Address *string `json:"address" validate:"omitempty,max=512"`
	Phone   *string `json:"phone" validate:"omitempty,max=32"`
	Active  *bool   `json:"active"`
}

// GET /api/schools
func (h *SchoolHandler) List(c *gin.Context) {
	schools, err := h.svc.List(requestContext(c))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, schools)
}

// GET /api/schools/:id
func (h *SchoolHandler) Get(c *gin.Context) {
	school, err := h.svc.GetByID(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, school)
}

// POST /api/schools
func (h *SchoolHandler) Create(c *gin.Context) {
	var body createSchoolRequest
	if !bindAndValidate(c, &body) {
		return
	}

	school, err := h.svc.Create(requestContext(c), services.CreateSchoolInput{
		Name:    body.Name,
		Slug:    body.Slug,
		Address: body.Address,
		Phone:   body.Phone,
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusCreated, school)
}

// PATCH /api/schools/:id
func (h *SchoolHandler) Update(c *gin.Context) {
	var body updateSchoolRequest
	if !bindAndValidate(c, &body) {
		return
	}

	school, err := h.svc.Update(requestContext(c), c.Param("id"), services.UpdateSchoolInput{
		Name:    body.Name,
		Address: body.Address,
		Phone:   body.Phone,
		Active:  body.Active,
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, school)
}

// DELETE /api/schools/:id
func (h *SchoolHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
