package respond

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-maker/internal/render"
	"resume-maker/internal/shared/apperr"
	"resume-maker/internal/shared/server/session"
	"resume-maker/internal/shared/util"
)

// Page renders a page with the caller's identity and pending flash messages.
func Page(c *gin.Context, r *render.Renderer, status int, name, title string, data any) {
	pd := render.PageData{Title: title, Data: data}
	if id, ok := session.FromContext(c.Request.Context()); ok {
		pd.LoggedIn = true
		pd.UserName = id.Name
	}
	for _, f := range session.PopFlashes(c) {
		pd.Flashes = append(pd.Flashes, render.Flash{Category: f.Category, Message: f.Message})
	}
	out, err := r.Page(name, pd)
	if err != nil {
		Error(c, apperr.Wrap(apperr.KindInternal, "render page", err))
		return
	}
	HTML(c, status, out)
}

// HTML writes an already rendered document.
func HTML(c *gin.Context, status int, body []byte) {
	c.Data(status, "text/html; charset=utf-8", body)
}

// Redirect sends a 303 so the browser follows with GET.
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// Attachment sends body as a file download. Non-ASCII names get an ASCII
// filename plus an RFC 6266 filename* carrying the UTF-8 original.
func Attachment(c *gin.Context, contentType, filename string, body []byte) {
	c.Header("Content-Disposition", ContentDisposition(filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentType, body)
}

// ContentDisposition builds an attachment header value for filename.
func ContentDisposition(filename string) string {
	fallback := util.ASCIIFold(strings.NewReplacer(`"`, "", "\\", "").Replace(filename))
	v := `attachment; filename="` + fallback + `"`
	if fallback != filename {
		v += "; filename*=UTF-8''" + url.PathEscape(filename)
	}
	return v
}
