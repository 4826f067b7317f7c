package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-maker/internal/shared/server/form"
	"resume-maker/internal/shared/server/respond"
)

// BodyLimit rejects bodies larger than limit bytes. Declared lengths are
// checked up front; chunked bodies are capped while being read.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			respond.Error(c, form.ErrTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
