package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/pagefields/cache"
	"github.com/use-agent/pagefields/models"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Health returns a handler for GET /api/v1/health.
//
// Reports cache size and degrades status when the cache cannot be read.
func Health(counter cache.Counter, backend string, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		entries := 0
		if counter != nil {
			n, err := counter.Len(c.Request.Context())
			if err != nil {
				slog.Warn("cache size unavailable", "error", err)
				status = "degraded"
			}
			entries = n
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:       status,
			Uptime:       time.Since(startTime).Round(time.Second).String(),
			CacheBackend: backend,
			CacheEntries: entries,
			Version:      Version,
		})
	}
}
