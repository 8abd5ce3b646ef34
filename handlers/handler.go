// Package handlers binds HTTP requests to the service layer.
package handlers

import (
	"context"
	"time"

	"quill/apperr"
	"quill/middleware"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// base carries what every handler group needs.
type base struct {
	log     *zap.Logger
	timeout time.Duration
}

// requestContext bounds storage work for one request.
func (b base) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), b.timeout)
}

func (b base) fail(c *gin.Context, err error) {
	apperr.Respond(c, b.log, err)
}

// caller returns the session user. Routes using it sit behind
// RequireSession, so a missing id is treated as unauthenticated.
func (b base) caller(c *gin.Context) (primitive.ObjectID, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		b.fail(c, apperr.Unauthenticated("No token, authorization denied"))
	}
	return id, ok
}

func (b base) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		b.fail(c, apperr.Wrap(apperr.KindValidationFailed, "Invalid request body", err))
		return false
	}
	return true
}
