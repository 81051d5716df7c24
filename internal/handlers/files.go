package handlers

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nadiaputeri/campuscore/internal/storage"
	apperrors "github.com/nadiaputeri/campuscore/pkg/errors"
	"github.com/nadiaputeri/campuscore/pkg/response"
)

// FileHandler serves locally stored document bytes behind HMAC-signed URLs.
// It is only mounted when the local storage backend is active; presigned S3
// URLs bypass the application entirely.
type FileHandler struct {
	signer *storage.LocalSigner
	root   string
}

func NewFileHandler(signer *storage.LocalSigner, root string) (*FileHandler, error) {
	if signer == nil {
		return nil, errors.New("file handler: signer is required")
	}
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("file handler: root directory is required")
	}
	return &FileHandler{signer: signer, root: root}, nil
}

// GET /files/*key?expires={unix}&sig={hex}
//
// The signature is verified before any disk access. An expired link answers
// 410 so clients can distinguish "request a new grant" from a forged URL.
func (h *FileHandler) Serve(c *gin.Context) {
	key := strings.Trim(c.Param("key"), "/")
	if key == "" {
		response.Error(c, apperrors.NewBadRequest("file key is required"))
		return
	}

	expires, err := strconv.ParseInt(c.Query("expires"), 10, 64)
	if err != nil {
		response.Error(c, apperrors.NewBadRequest("expires must be a unix timestamp"))
		return
	}

	if err := h.signer.Verify(key, expires, c.Query("sig")); err != nil {
		if errors.Is(err, storage.ErrLinkExpired) {
			response.Error(c, apperrors.ErrLinkExpired)
			return
		}
		response.Error(c, apperrors.ErrForbidden)
		return
	}

	// Clean against the root so a crafted key cannot escape the directory.
	path := filepath.Join(h.root, filepath.Clean("/"+key))
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		response.Error(c, apperrors.ErrNotFound)
		return
	}

	c.File(path)
}
