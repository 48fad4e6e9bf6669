package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports process liveness and cache freshness.
type HealthHandler struct {
	startedAt time.Time
	fetchedAt func() time.Time
}

// NewHealthHandler creates the health handler; fetchedAt reports when the
// workspace cache was last populated.
func NewHealthHandler(fetchedAt func() time.Time) *HealthHandler {
	return &HealthHandler{startedAt: time.Now(), fetchedAt: fetchedAt}
}

// Health returns liveness and cache freshness.
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "ok",
		"uptime":           time.Since(h.startedAt).String(),
		"cache_fetched_at": h.fetchedAt(),
	})
}
