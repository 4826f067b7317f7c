package session

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"resume-maker/internal/shared/auth"
)

const cookieName = "session"

// Identity is the authenticated user carried through a request.
type Identity struct {
	UserID string
	Name   string
	Email  string
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored in ctx, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, false
	}
	return id, true
}

// Manager issues and reads the signed session cookie.
type Manager struct {
	signer *auth.Signer
	secure bool
}

func NewManager(signer *auth.Signer, secure bool) *Manager {
	return &Manager{signer: signer, secure: secure}
}

// Issue establishes a session for id.
func (m *Manager) Issue(c *gin.Context, id Identity) error {
	token, err := m.signer.Sign(auth.Claims{
		Name:             id.Name,
		Email:            id.Email,
		RegisteredClaims: jwt.RegisteredClaims{Subject: id.UserID},
	})
	if err != nil {
		return err
	}
	m.setCookie(c, cookieName, token, int(m.signer.TTL().Seconds()))
	return nil
}

// Read returns the identity from the request cookie. Invalid or expired
// cookies read as anonymous.
func (m *Manager) Read(r *http.Request) (Identity, bool) {
	cookie, err := r.Cookie(cookieName)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return Identity{}, false
	}
	claims, err := m.signer.Verify(cookie.Value)
	if err != nil {
		return Identity{}, false
	}
	return Identity{UserID: claims.Subject, Name: claims.Name, Email: claims.Email}, true
}

// Clear drops all session state.
func (m *Manager) Clear(c *gin.Context) {
	m.setCookie(c, cookieName, "", -1)
}

func (m *Manager) setCookie(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
