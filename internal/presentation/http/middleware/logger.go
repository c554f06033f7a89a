package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmacy-api/pkg/utils"
)

// RequestIDKey is the context key holding the request ID
const RequestIDKey = "request_id"

// LoggerMiddleware logs one line per request, tagged with a request ID
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = utils.NewRequestID()
			c.Request.Header.Set("X-Request-ID", requestID)
		}
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		tag := shortID(requestID)
		log.Printf("[%s] %s | %d | %v | %s | %s",
			tag,
			c.Request.Method,
			c.Writer.Status(),
			time.Since(start),
			c.ClientIP(),
			path,
		)

		for _, e := range c.Errors {
			log.Printf("[%s] Error: %v", tag, e.Err)
		}
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
