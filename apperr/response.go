package apperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var statusByKind = map[Kind]int{
	KindStorageFailure:     http.StatusInternalServerError,
	KindUnauthenticated:    http.StatusUnauthorized,
	KindInvalidToken:       http.StatusUnauthorized,
	KindInvalidCredentials: http.StatusUnauthorized,
	KindForbidden:          http.StatusForbidden,
	KindNotFound:           http.StatusNotFound,
	KindConflict:           http.StatusConflict,
	KindValidationFailed:   http.StatusBadRequest,
}

// Status returns the HTTP status code for kind.
func Status(kind Kind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Respond writes err as a JSON error response and aborts the chain.
// Storage failures are logged with their cause and answered with a
// generic message.
func Respond(c *gin.Context, log *zap.Logger, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = Storage(err)
	}

	if appErr.Kind == KindStorageFailure {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(appErr.Err))
		appErr = &AppError{Kind: KindStorageFailure, Message: genericStorageMessage}
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(Status(appErr.Kind), ErrorResponse{
		Error:   appErr.Kind.String(),
		Message: appErr.Message,
	})
}
