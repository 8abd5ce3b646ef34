package handlers

import (
	"net/http"
	"time"

	"quill/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ContactHandler struct {
	base
	contacts *service.ContactService
}

func NewContactHandler(contacts *service.ContactService, log *zap.Logger, timeout time.Duration) *ContactHandler {
	return &ContactHandler{base: base{log: log, timeout: timeout}, contacts: contacts}
}

// POST /api/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var req service.ContactInput
	if !h.bindJSON(c, &req) {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.contacts.Submit(ctx, req); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Contact form submitted successfully"})
}
