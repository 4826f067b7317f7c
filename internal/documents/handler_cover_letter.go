package documents

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-maker/internal/payload"
	"resume-maker/internal/render"
	"resume-maker/internal/shared/server/form"
	"resume-maker/internal/shared/server/middleware"
	"resume-maker/internal/shared/server/respond"
	"resume-maker/internal/shared/server/session"
	"resume-maker/internal/styles"
)

const coverLetterPath = "/cover_letter"

// CoverLetterHandler serves the cover letter form, previews and downloads.
// Cover letter tokens are not bound to a user.
type CoverLetterHandler struct {
	Svc   *Service[payload.CoverLetter]
	Views *render.Renderer
	Now   func() time.Time
}

func NewCoverLetterHandler(svc *Service[payload.CoverLetter], views *render.Renderer) *CoverLetterHandler {
	return &CoverLetterHandler{Svc: svc, Views: views, Now: time.Now}
}

func (h *CoverLetterHandler) RegisterRoutes(rg gin.IRoutes) {
	rg.GET(coverLetterPath, h.formPage)
	rg.POST(coverLetterPath, h.preview)
	rg.GET(coverLetterPath+"/download/:token", h.download)
	rg.POST(coverLetterPath+"/download/:token", h.download)
}

func (h *CoverLetterHandler) formPage(c *gin.Context) {
	respond.Page(c, h.Views, http.StatusOK, "cover_letter_form", "Cover letter", render.CoverLetterFormView{
		Styles: h.Svc.Styles.All(),
		Name:   middleware.UserNameFromContext(c),
	})
}

func (h *CoverLetterHandler) preview(c *gin.Context) {
	c.Set("documentKind", string(h.Svc.Styles.Kind()))
	values, err := form.Parse(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	letter, err := payload.BuildCoverLetter(values, styles.DefaultCoverLetter, h.Now())
	if err != nil {
		if errors.Is(err, payload.ErrCoverLetterFields) {
			session.AddFlash(c, "error", payload.ErrCoverLetterFields.Message)
			respond.Redirect(c, coverLetterPath)
			return
		}
		respond.Error(c, err)
		return
	}
	style, err := h.Svc.Style(letter.Style)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.Set("style", style.Key)

	out, err := h.Svc.Preview(c.Request.Context(), "", style, letter)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.HTML(c, http.StatusOK, out.HTML)
}

func (h *CoverLetterHandler) download(c *gin.Context) {
	c.Set("documentKind", string(h.Svc.Styles.Kind()))
	file, err := h.Svc.Download(c.Request.Context(), "", c.Param("token"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.Set("style", file.Style.Key)
	respond.Attachment(c, "application/pdf", file.Name, file.Body)
}
