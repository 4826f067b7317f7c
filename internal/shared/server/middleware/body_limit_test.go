package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-maker/internal/shared/server/form"
	"resume-maker/internal/shared/server/respond"
)

func newLimitedRouter(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(BodyLimit(limit))
	router.POST("/submit", func(c *gin.Context) {
		values, err := form.Parse(c)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.String(http.StatusOK, values.Get("name"))
	})
	return router
}

func TestBodyLimitRejectsDeclaredLength(t *testing.T) {
	router := newLimitedRouter(16)
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader("name="+strings.Repeat("a", 64)))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", resp.Code)
	}
	if body := resp.Body.String(); body != "Payload too large" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestBodyLimitRejectsUndeclaredLength(t *testing.T) {
	router := newLimitedRouter(16)
	body := io.NopCloser(strings.NewReader("name=" + strings.Repeat("a", 64)))
	req := httptest.NewRequest(http.MethodPost, "/submit", body)
	req.ContentLength = -1
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", resp.Code)
	}
}

func TestBodyLimitAllowsSmallBodies(t *testing.T) {
	router := newLimitedRouter(1024)
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader("name=Ada"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK || resp.Body.String() != "Ada" {
		t.Fatalf("unexpected response %d %q", resp.Code, resp.Body.String())
	}
}
