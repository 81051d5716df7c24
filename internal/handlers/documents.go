package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nadiaputeri/campuscore/internal/cache"
	"github.com/nadiaputeri/campuscore/internal/middleware"
	"github.com/nadiaputeri/campuscore/internal/models"
	"github.com/nadiaputeri/campuscore/internal/services"
	"github.com/nadiaputeri/campuscore/internal/storage"
	"github.com/nadiaputeri/campuscore/pkg/response"
)

type DocumentHandler struct {
	svc    *services.DocumentService
	access *services.DocumentAccessService
}

func NewDocumentHandler(db *gorm.DB, facade *cache.Facade, invalidator *cache.Invalidator, signer storage.URLSigner) (*DocumentHandler, error) {
	svc, err := services.NewDocumentService(db, facade, invalidator)
	if err != nil {
		return nil, err
	}
	access, err := services.NewDocumentAccessService(db, signer)
	if err != nil {
		return nil, err
	}
	return &DocumentHandler{svc: svc, access: access}, nil
}

type registerDocumentRequest struct {
	OwnerID    string         `json:"owner_id" validate:"required,max=64"`
	Category   string         `json:"category" validate:"required,max=40"`
	StorageKey string         `json:"storage_key" validate:"required,max=512"`
	FileName   string         `json:"file_name" validate:"required,max=255"`
	MimeType   string         `json:"mime_type" validate:"required,max=100"`
	SizeBytes  int64          `json:"size_bytes" validate:"gte=0"`
	Metadata   map[string]any `json:"metadata"`
}

// GET /api/schools/:id/documents?owner=<id>
func (h *DocumentHandler) ListByOwner(c *gin.Context) {
	docs, err := h.svc.ListByOwner(requestContext(c), c.Param("id"), c.Query("owner"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, docs)
}

// GET /api/schools/:id/documents/:documentID
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.svc.GetByID(requestContext(c), c.Param("id"), c.Param("documentID"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, doc)
}

// POST /api/schools/:id/documents
func (h *DocumentHandler) Register(c *gin.Context) {
	var body registerDocumentRequest
	if !bindAndValidate(c, &body) {
		return
	}

	doc, err := h.svc.Register(requestContext(c), services.RegisterDocumentInput{
		SchoolID:   c.Param("id"),
		OwnerID:    body.OwnerID,
		Category:   models.DocumentCategory(body.Category),
		StorageKey: body.StorageKey,
		FileName:   body.FileName,
		MimeType:   body.MimeType,
		SizeBytes:  body.SizeBytes,
		Metadata:   body.Metadata,
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusCreated, doc)
}

// POST /api/schools/:id/documents/:documentID/verify
func (h *DocumentHandler) MarkVerified(c *gin.Context) {
	if err := h.svc.MarkVerified(requestContext(c), c.Param("id"), c.Param("documentID")); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"verified": true})
}

// DELETE /api/schools/:id/documents/:documentID
func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("id"), c.Param("documentID")); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// POST /api/documents/:documentID/access
//
// Issues an ephemeral signed URL for the document, with a TTL determined by
// the authenticated caller's role.
func (h *DocumentHandler) IssueAccess(c *gin.Context) {
	role := services.Role(c.GetString(middleware.CtxRoleKey))

	grant, err := h.access.IssueAccess(requestContext(c), c.Param("documentID"), role)
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, grant)
}
