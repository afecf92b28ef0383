package middleware

import (
	"github.com/gin-gonic/gin"

	"blog-api/api/trace"
)

const HeaderRequestID = "X-Request-Id"

// RequestTrace 는 모든 요청에 Request ID 를 보장하고 컨텍스트와 응답 헤더에 싣는다.
// 클라이언트가 보낸 X-Request-Id 가 있으면 그대로 쓴다.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = trace.GenerateID()
		}

		c.Request = c.Request.WithContext(trace.WithRequestID(c.Request.Context(), requestID))
		c.Writer.Header().Set(HeaderRequestID, requestID)

		c.Next()
	}
}
