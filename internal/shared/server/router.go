package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "resume-maker/internal/auth"
	"resume-maker/internal/documents"
	"resume-maker/internal/render"
	"resume-maker/internal/services/health"
	"resume-maker/internal/shared/config"
	"resume-maker/internal/shared/metrics"
	"resume-maker/internal/shared/server/middleware"
	"resume-maker/internal/shared/server/respond"
	"resume-maker/internal/shared/server/session"
	"resume-maker/internal/users"
)

// downloadRoutes start a PDF conversion and share one rate limit.
var downloadRoutes = []string{"/resume/download/:token", "/cover_letter/download/:token"}

// RouterDeps carries everything NewRouter registers.
type RouterDeps struct {
	Config             config.Config
	Views              *render.Renderer
	Sessions           *session.Manager
	UserHandler        *users.Handler
	ResumeHandler      *documents.ResumeHandler
	CoverLetterHandler *documents.CoverLetterHandler
	GoogleAuth         *googleauth.GoogleService
	Health             *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	limiter := middleware.NewRateLimiter(middleware.Rule{
		Rate:  deps.Config.PDF.RatePerSec,
		Burst: deps.Config.PDF.Burst,
	}, nil)

	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.BodyLimit(deps.Config.MaxBodyBytes),
		middleware.Session(deps.Sessions),
		middleware.RateLimit(limiter, downloadRoutes...),
	)
	r.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}
	r.GET("/healthz", func(c *gin.Context) {
		respond.Health(c, healthSvc.Status(c.Request.Context()))
	})
	r.GET("/metrics", metrics.Handler())
	r.GET("/", func(c *gin.Context) {
		respond.Page(c, deps.Views, http.StatusOK, "index", "Resume Maker", nil)
	})

	deps.UserHandler.RegisterRoutes(r)
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(r)
	}
	deps.ResumeHandler.RegisterPublicRoutes(r)
	deps.CoverLetterHandler.RegisterRoutes(r)

	private := r.Group("/", middleware.RequireLogin(deps.Sessions, func(ctx context.Context, userID string) error {
		_, err := deps.UserHandler.Svc.GetByID(ctx, userID)
		return err
	}))
	deps.ResumeHandler.RegisterRoutes(private)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
