package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/supermercado/api-supermercado/pkg/logger"
	"github.com/supermercado/api-supermercado/pkg/metrics"
)

const (
	// RequestIDKey is the gin context key holding the request id.
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
	JSONContentType = "application/json; charset=utf-8"
)

// RequestID propagates X-Request-ID or generates a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(RequestIDKey, rid)
		c.Writer.Header().Set(RequestIDHeader, rid)
		c.Next()
	}
}

// JSONContent sets the JSON content type on every response up front.
// Renderers only fill Content-Type when it is unset, so plain-text bodies keep it too.
func JSONContent() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", JSONContentType)
		c.Next()
	}
}

// RequestLogger logs each request with method, path, status, latency and request id.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()

		lvl := logger.LevelInfo
		if status >= 500 {
			lvl = logger.LevelError
		}
		logger.WithFields(lvl, "request", map[string]interface{}{
			"request_id": c.GetString(RequestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
		})
	}
}
