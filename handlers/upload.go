package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"quill/apperr"
	"quill/media"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxCoverSize = 10 << 20

type UploadHandler struct {
	base
	uploader media.Uploader
}

func NewUploadHandler(uploader media.Uploader, log *zap.Logger, timeout time.Duration) *UploadHandler {
	return &UploadHandler{base: base{log: log, timeout: timeout}, uploader: uploader}
}

// POST /api/uploads/cover
func (h *UploadHandler) Cover(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxCoverSize+1<<20)
	header, err := c.FormFile("image")
	if err != nil {
		h.fail(c, apperr.Wrap(apperr.KindValidationFailed, "No image file provided", err))
		return
	}
	if header.Size > maxCoverSize {
		h.fail(c, apperr.Validation("Image must be at most 10MB"))
		return
	}
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		h.fail(c, apperr.Validation("File must be an image"))
		return
	}

	file, err := header.Open()
	if err != nil {
		h.fail(c, apperr.Wrap(apperr.KindValidationFailed, "Could not read image", err))
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*h.timeout)
	defer cancel()

	url, err := h.uploader.UploadCover(ctx, userID, file)
	if err != nil {
		h.fail(c, apperr.Storage(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
