package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"resume-maker/internal/shared/apperr"
	"resume-maker/internal/shared/server/respond"
	"resume-maker/internal/shared/telemetry"
)

// Recovery recovers from panics and returns a plain 500.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				telemetry.Error("panic", map[string]any{
					"request_id": RequestIDFromContext(c),
					"error":      fmt.Sprint(rec),
					"stack":      string(debug.Stack()),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
				})
				respond.Error(c, apperr.New(apperr.KindInternal, "Unexpected server error"))
			}
		}()
		c.Next()
	}
}
