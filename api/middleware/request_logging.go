package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"blog-api/api/trace"
	"blog-api/internal/logger"
)

// RequestLogging 은 요청 하나당 한 줄의 구조화 로그를 남긴다.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := logger.Fields{
			"method":      c.Request.Method,
			"path":        path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  trace.RequestIDFromContext(c.Request.Context()),
		}
		if route := c.FullPath(); route != "" {
			fields["route"] = route
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		logger.InfoWithFields("completed request", fields)
	}
}
