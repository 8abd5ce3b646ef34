package middleware

import (
	"net/http"

	"quill/apperr"
	"quill/session"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const userIDKey = "userId"

// RequireSession verifies the session cookie and stores the caller's id
// in the context. Requests without a valid session are aborted with 401.
func RequireSession(sessions *session.Manager, cookieName string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip CORS preflight
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			apperr.Respond(c, log, apperr.Unauthenticated("No token, authorization denied"))
			return
		}

		userID, err := sessions.Verify(token)
		if err != nil {
			log.Debug("session rejected", zap.Error(err))
			apperr.Respond(c, log, apperr.InvalidToken(err))
			return
		}

		id, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			apperr.Respond(c, log, apperr.InvalidToken(err))
			return
		}

		c.Set(userIDKey, id)
		c.Next()
	}
}

// CurrentUserID returns the id stored by RequireSession.
func CurrentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	v, exists := c.Get(userIDKey)
	if !exists {
		return primitive.NilObjectID, false
	}
	id, ok := v.(primitive.ObjectID)
	return id, ok
}
