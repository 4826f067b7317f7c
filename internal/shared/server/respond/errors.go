package respond

import (
	"strings"

	"github.com/gin-gonic/gin"

	"resume-maker/internal/shared/apperr"
	"resume-maker/internal/shared/telemetry"
)

// Error maps err to its HTTP status and writes the public message as plain text.
func Error(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := apperr.Status(kind)
	fields := map[string]any{
		"status":     status,
		"kind":       string(kind),
		"error":      err.Error(),
		"path":       LogPath(c),
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if status >= 500 {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Info("http.error", fields)
	}

	c.Abort()
	c.String(status, apperr.Message(err))
}

// LogPath is the request path with any :token route segment masked. Download
// tokens act as bearer credentials and stay out of logs.
func LogPath(c *gin.Context) string {
	path := c.Request.URL.Path
	token := c.Param("token")
	if token == "" {
		return path
	}
	if i := strings.LastIndex(path, token); i >= 0 {
		path = path[:i] + ":token" + path[i+len(token):]
	}
	return path
}
