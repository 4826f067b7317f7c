package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"resume-maker/internal/shared/server/respond"
	"resume-maker/internal/shared/telemetry"
)

// Logging emits a structured log per request. Handlers may set "style" and
// "documentKind" on the context to have them included.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        respond.LogPath(c),
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"bytes":       c.Writer.Size(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if style := c.GetString("style"); style != "" {
			fields["style"] = style
		}
		if kind := c.GetString("documentKind"); kind != "" {
			fields["document_kind"] = kind
		}
		telemetry.Info("request.complete", fields)
	}
}
