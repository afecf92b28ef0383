package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"blog-api/api/trace"
	"blog-api/internal/logger"
)

// HealthHandler godoc
// @Summary      Health check
// @Description  Pings MongoDB
// @Tags         health
// @Produce      json
// @Success      200  {object}  object{status=string}
// @Failure      503  {object}  object{status=string,mongo=string}
// @Router       /health [get]
func HealthHandler(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := ping(ctx); err != nil {
			logger.ErrorWithFields("health check failed", logger.Fields{
				"request_id": trace.RequestIDFromContext(c.Request.Context()),
				"error":      err.Error(),
			})
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "mongo": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
