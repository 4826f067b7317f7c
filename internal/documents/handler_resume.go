package documents

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-maker/internal/payload"
	"resume-maker/internal/render"
	"resume-maker/internal/shared/server/form"
	"resume-maker/internal/shared/server/middleware"
	"resume-maker/internal/shared/server/respond"
)

const (
	defaultResumeStyle = "modern"
	builderRows        = 3
)

// ResumeHandler serves the builder, previews and PDF downloads for resumes.
type ResumeHandler struct {
	Svc   *Service[payload.Resume]
	Views *render.Renderer
}

func NewResumeHandler(svc *Service[payload.Resume], views *render.Renderer) *ResumeHandler {
	return &ResumeHandler{Svc: svc, Views: views}
}

// RegisterPublicRoutes attaches routes that work without a session.
func (h *ResumeHandler) RegisterPublicRoutes(rg gin.IRoutes) {
	rg.GET("/resume/preview_templates", h.templates)
	rg.GET("/form", func(c *gin.Context) { respond.Redirect(c, "/resume/builder") })
}

// RegisterRoutes attaches routes that need a signed-in user.
func (h *ResumeHandler) RegisterRoutes(rg gin.IRoutes) {
	rg.GET("/resume/builder", h.builder)
	rg.POST("/resume/preview/:style", h.preview)
	rg.GET("/resume/download/:token", h.download)
	rg.POST("/resume/download/:token", h.download)
}

func (h *ResumeHandler) builder(c *gin.Context) {
	key := strings.TrimSpace(c.Query("style"))
	if key == "" {
		key = defaultResumeStyle
	}
	style, err := h.Svc.Style(key)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Page(c, h.Views, http.StatusOK, "resume_builder", "Resume builder", render.BuilderView{
		Style:          style,
		Styles:         h.Svc.Styles.All(),
		Name:           middleware.UserNameFromContext(c),
		SkillRows:      render.Rows(builderRows * 2),
		ExperienceRows: render.Rows(builderRows),
		EducationRows:  render.Rows(builderRows - 1),
	})
}

func (h *ResumeHandler) templates(c *gin.Context) {
	respond.Page(c, h.Views, http.StatusOK, "preview_templates", "Resume templates", render.StylesView{
		Styles: h.Svc.Styles.All(),
	})
}

func (h *ResumeHandler) preview(c *gin.Context) {
	c.Set("documentKind", string(h.Svc.Styles.Kind()))
	style, err := h.Svc.Style(c.Param("style"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.Set("style", style.Key)

	values, err := form.Parse(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	resume, err := payload.BuildResume(values)
	if err != nil {
		respond.Error(c, err)
		return
	}
	out, err := h.Svc.Preview(c.Request.Context(), middleware.UserIDFromContext(c), style, resume)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.HTML(c, http.StatusOK, out.HTML)
}

func (h *ResumeHandler) download(c *gin.Context) {
	c.Set("documentKind", string(h.Svc.Styles.Kind()))
	file, err := h.Svc.Download(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("token"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.Set("style", file.Style.Key)
	respond.Attachment(c, "application/pdf", file.Name, file.Body)
}
