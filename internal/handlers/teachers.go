package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nadiaputeri/campuscore/internal/cache"
	"github.com/nadiaputeri/campuscore/internal/services"
	"github.com/nadiaputeri/campuscore/pkg/response"
)

type TeacherHandler struct {
	svc *services.TeacherService
}

func NewTeacherHandler(db *gorm.DB, facade *cache.Facade, invalidator *cache.Invalidator) (*TeacherHandler, error) {
	svc, err := services.NewTeacherService(db, facade, invalidator)
	if err != nil {
		return nil, err
	}
	return &TeacherHandler{svc: svc}, nil
}

type createTeacherRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=160"`
	Email string `json:"email" validate:"required,email,max=160"`
	NIP   string `json:"nip" validate:"omitempty,max=32"`
}

type updateTeacherRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=2,max=160"`
	NIP    *string `json:"nip" validate:"omitempty,max=32"`
	Active *bool   `json:"active"`
}

// GET /api/schools/:id/teachers
func (h *TeacherHandler) List(c *gin.Context) {
	teachers, err := h.svc.List(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, teachers)
}

// GET /api/schools/:id/teachers/:teacherID
func (h *TeacherHandler) Get(c *gin.Context) {
	teacher, err := h.svc.GetByID(requestContext(c), c.Param("id"), c.Param("teacherID"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, teacher)
}

// POST /api/schools/:id/teachers
func (h *TeacherHandler) Create(c *gin.Context) {
	var body createTeacherRequest
	if !bindAndValidate(c, &body) {
		return
	}

	teacher, err := h.svc.Create(requestContext(c), services.CreateTeacherInput{
		SchoolID: c.Param("id"),
		Name:     body.Name,
		Email:    body.Email,
		NIP:      body.NIP,
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusCreated, teacher)
}

// PATCH /api/schools/:id/teachers/:teacherID
func (h *TeacherHandler) Update(c *gin.Context) {
	var body updateTeacherRequest
	if !bindAndValidate(c, &body) {
		return
	}

	teacher, err := h.svc.Update(requestContext(c), c.Param("id"), c.Param("teacherID"), services.UpdateTeacherInput{
		Name:   body.Name,
		NIP:    body.NIP,
		Active: body.Active,
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, teacher)
}
