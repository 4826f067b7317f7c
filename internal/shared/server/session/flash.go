package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	flashCookie = "flash"
	flashKey    = "sessionFlashes"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// AddFlash queues a message for the next page the client renders.
func AddFlash(c *gin.Context, category, message string) {
	pending := append(pendingFlashes(c), Flash{Category: category, Message: message})
	c.Set(flashKey, pending)
	raw, err := json.Marshal(pending)
	if err != nil {
		return
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlashes returns queued messages and clears them.
func PopFlashes(c *gin.Context) []Flash {
	pending := pendingFlashes(c)
	var out []Flash
	hadCookie := false
	if cookie, err := c.Request.Cookie(flashCookie); err == nil && cookie.Value != "" {
		hadCookie = true
		if raw, err := base64.RawURLEncoding.DecodeString(cookie.Value); err == nil {
			_ = json.Unmarshal(raw, &out)
		}
	}
	out = append(out, pending...)
	if hadCookie || len(pending) > 0 {
		http.SetCookie(c.Writer, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	}
	c.Set(flashKey, []Flash(nil))
	return out
}

func pendingFlashes(c *gin.Context) []Flash {
	if v, ok := c.Get(flashKey); ok {
		if flashes, ok := v.([]Flash); ok {
			return flashes
		}
	}
	return nil
}
