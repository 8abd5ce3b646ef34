package middleware

import (
	"errors"
	"runtime/debug"

	"quill/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errPanic = errors.New("panic recovered")

// Recovery turns a panic in a handler into a 500 response and logs the
// stack.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic",
					zap.Any("error", r),
					zap.String("path", c.Request.URL.Path),
					zap.String("stack", string(debug.Stack())))

				apperr.Respond(c, log, apperr.Storage(errPanic))
			}
		}()
		c.Next()
	}
}
