package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	base
	db Pinger
}

// NewHealthHandler takes a nil db when no external store is in use.
func NewHealthHandler(db Pinger, log *zap.Logger) *HealthHandler {
	return &HealthHandler{base: base{log: log, timeout: 2 * time.Second}, db: db}
}

// GET /api/health
func (h *HealthHandler) Health(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := h.requestContext(c)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			h.log.Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
