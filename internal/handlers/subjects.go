package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nadiaputeri/campuscore/internal/cache"
	"github.com/nadiaputeri/campuscore/internal/services"
	"github.com/nadiaputeri/campuscore/pkg/response"
)

type SubjectHandler struct {
	svc *services.SubjectService
}

func NewSubjectHandler(db *gorm.DB, facade *cache.Facade, invalidator *cache.Invalidator) (*SubjectHandler, error) {
	svc, err := services.NewSubjectService(db, facade, invalidator)
	if err != nil {
		return nil, err
	}
	return &SubjectHandler{svc: svc}, nil
}

type createSubjectRequest struct {
	Code string `json:"code" validate:"required,min=2,max=20"`
	Name string `json:"name" validate:"required,min=2,max=120"`
}

// GET /api/schools/:id/subjects
func (h *SubjectHandler) List(c *gin.Context) {
	subjects, err := h.svc.List(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, subjects)
}

// GET /api/schools/:id/subjects/:subjectID
func (h *SubjectHandler) Get(c *gin.Context) {
	subject, err := h.svc.GetByID(requestContext(c), c.Param("id"), c.Param("subjectID"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, subject)
}

// POST /api/schools/:id/subjects
func (h *SubjectHandler) Create(c *gin.Context) {
	var body createSubjectRequest
	if !bindAndValidate(c, &body) {
		return
	}

	subject, err := h.svc.Create(requestContext(c), services.CreateSubjectInput{
		SchoolID: c.Param("id"),
		Code:     body.Code,
		Name:     body.Name,
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusCreated, subject)
}

// DELETE /api/schools/:id/subjects/:subjectID
func (h *SubjectHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("id"), c.Param("subjectID")); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
