package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health writes a liveness report. Probes get 503 whenever report["ok"] is
// false, and the answer is never cached.
func Health(c *gin.Context, report map[string]bool) {
	status := http.StatusOK
	if !report["ok"] {
		status = http.StatusServiceUnavailable
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(status, report)
}
