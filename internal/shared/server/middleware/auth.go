package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"resume-maker/internal/shared/apperr"
	"resume-maker/internal/shared/server/respond"
	"resume-maker/internal/shared/server/session"
)

const (
	userIDKey   = "userId"
	userNameKey = "userName"
)

// LoginPath is where RequireLogin sends anonymous visitors.
const LoginPath = "/login"

// Session reads the session cookie and stores the identity on both the gin
// and request contexts. Invalid or expired cookies are treated as anonymous.
func Session(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := mgr.Read(c.Request)
		if ok {
			c.Set(userIDKey, id.UserID)
			c.Set(userNameKey, id.Name)
			c.Request = c.Request.WithContext(session.WithIdentity(c.Request.Context(), id))
		}
		c.Next()
	}
}

// AccountLookup reports whether the account behind a session still exists.
// A not_found error ends the session.
type AccountLookup func(ctx context.Context, userID string) error

// RequireLogin redirects anonymous visitors, and sessions whose account is
// gone, to the login page. A nil lookup trusts the signed cookie.
func RequireLogin(mgr *session.Manager, lookup AccountLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserIDFromContext(c)
		if userID != "" && lookup != nil {
			err := lookup(c.Request.Context(), userID)
			if err != nil && apperr.KindOf(err) != apperr.KindNotFound {
				respond.Error(c, err)
				return
			}
			if err != nil {
				mgr.Clear(c)
				userID = ""
			}
		}
		if userID != "" {
			c.Next()
			return
		}
		session.AddFlash(c, "info", "Please log in to continue.")
		respond.Redirect(c, LoginPath)
		c.Abort()
	}
}

// UserIDFromContext fetches the user ID set by the session middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userIDKey)
}

// UserNameFromContext fetches the display name set by the session middleware.
func UserNameFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userNameKey)
}
