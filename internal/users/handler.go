package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-maker/internal/render"
	"resume-maker/internal/shared/server/form"
	"resume-maker/internal/shared/server/respond"
	"resume-maker/internal/shared/server/session"
	"resume-maker/internal/shared/telemetry"
)

// HomePath is where a fresh login lands.
const HomePath = "/resume/builder"

type Handler struct {
	Svc           *Service
	Sessions      *session.Manager
	Views         *render.Renderer
	GoogleEnabled bool
}

func NewHandler(svc *Service, sessions *session.Manager, views *render.Renderer) *Handler {
	return &Handler{Svc: svc, Sessions: sessions, Views: views}
}

func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.GET("/signup", h.signupPage)
	rg.POST("/signup", h.signup)
	rg.GET("/login", h.loginPage)
	rg.POST("/login", h.login)
	rg.GET("/logout", h.logout)
	rg.POST("/logout", h.logout)
}

func (h *Handler) signupPage(c *gin.Context) {
	respond.Page(c, h.Views, http.StatusOK, "signup", "Sign up", nil)
}

func (h *Handler) signup(c *gin.Context) {
	values, err := form.Parse(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	user, err := h.Svc.Signup(c.Request.Context(), SignupInput{
		Name:     values.Get("name"),
		Email:    values.Get("email"),
		Password: values.Get("password"),
	})
	switch {
	case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrMissingFields):
		session.AddFlash(c, "error", err.Error())
		respond.Redirect(c, "/signup")
		return
	case err != nil:
		respond.Error(c, err)
		return
	}
	telemetry.Info("user.signup", map[string]any{"user_id": user.ID})
	session.AddFlash(c, "success", "Signup successful! Please login.")
	respond.Redirect(c, "/login")
}

func (h *Handler) loginPage(c *gin.Context) {
	respond.Page(c, h.Views, http.StatusOK, "login", "Log in", render.LoginView{GoogleEnabled: h.GoogleEnabled})
}

func (h *Handler) login(c *gin.Context) {
	values, err := form.Parse(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	email := values.Get("email")
	user, err := h.Svc.Authenticate(c.Request.Context(), email, values.Get("password"))
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			respond.Error(c, err)
			return
		}
		telemetry.Info("user.login_failed", map[string]any{"request_id": c.GetString("requestId")})
		session.AddFlash(c, "error", "Invalid credentials")
		respond.Page(c, h.Views, http.StatusUnauthorized, "login", "Log in", render.LoginView{
			Email:         email,
			GoogleEnabled: h.GoogleEnabled,
		})
		return
	}
	if err := h.StartSession(c, user); err != nil {
		respond.Error(c, err)
		return
	}
	respond.Redirect(c, HomePath)
}

// StartSession issues the session cookie for user and greets them.
func (h *Handler) StartSession(c *gin.Context, user User) error {
	if err := h.Sessions.Issue(c, session.Identity{UserID: user.ID, Name: user.Name, Email: user.Email}); err != nil {
		return err
	}
	telemetry.Info("user.login", map[string]any{"user_id": user.ID})
	session.AddFlash(c, "success", "Welcome back, "+user.Name+"!")
	return nil
}

func (h *Handler) logout(c *gin.Context) {
	h.Sessions.Clear(c)
	session.AddFlash(c, "info", "You have been logged out.")
	respond.Redirect(c, "/login")
}
