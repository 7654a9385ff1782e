package monitoring

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request id on requests and responses.
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	slowRequest     = 2 * time.Second
)

// RequestID returns the request id assigned by RequestIDMiddleware.
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// RequestIDMiddleware reuses an incoming X-Request-ID or assigns a new one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
			c.Request.Header.Set(RequestIDHeader, id)
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// MonitoringMiddleware creates Gin middleware for request monitoring
func MonitoringMiddleware(metrics *Metrics, logger *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.IncrementRequest()

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		metrics.RecordResponseTime(duration)
		metrics.RecordRequestByStatus(statusCode)
		if statusCode >= 400 {
			metrics.IncrementError()
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		logger.RequestLogger(RequestID(c), c.Request.Method, path, c.ClientIP(), statusCode, duration)

		for _, err := range c.Errors {
			logger.Error("Request error",
				"request_id", RequestID(c),
				"path", path,
				"error", err.Err,
			)
		}

		if duration > slowRequest {
			logger.Warn("Slow request",
				"request_id", RequestID(c),
				"path", path,
				"duration_ms", duration.Milliseconds(),
			)
		}
	}
}
