package users

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"resume-maker/internal/render"
	"resume-maker/internal/shared/auth"
	"resume-maker/internal/shared/server/middleware"
	"resume-maker/internal/shared/server/session"
	"resume-maker/internal/styles"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	views, err := render.New(styles.Resume, styles.CoverLetter)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	signer, err := auth.NewSigner("users-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	mgr := session.NewManager(signer, false)
	svc := NewService(NewMemoryRepo())
	svc.Cost = bcrypt.MinCost

	router := gin.New()
	router.Use(middleware.Session(mgr))
	NewHandler(svc, mgr, views).RegisterRoutes(router)
	return router, svc
}

func postForm(router http.Handler, path string, values url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func cookieNamed(resp *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, ck := range resp.Result().Cookies() {
		if ck.Name == name {
			found = ck
		}
	}
	return found
}

func TestSignupRedirectsToLogin(t *testing.T) {
	router, _ := newTestRouter(t)
	resp := postForm(router, "/signup", url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "password": {"pw"}})

	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.Code)
	}
	if loc := resp.Header().Get("Location"); loc != "/login" {
		t.Fatalf("unexpected location %q", loc)
	}
	flash := cookieNamed(resp, "flash")
	if flash == nil || flash.Value == "" {
		t.Fatalf("expected flash cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(flash)
	page := httptest.NewRecorder()
	router.ServeHTTP(page, req)
	if !strings.Contains(page.Body.String(), "Signup successful! Please login.") {
		t.Fatalf("expected signup flash on login page")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	router, _ := newTestRouter(t)
	form := url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "password": {"pw"}}
	postForm(router, "/signup", form)
	resp := postForm(router, "/signup", form)

	if resp.Code != http.StatusSeeOther || resp.Header().Get("Location") != "/signup" {
		t.Fatalf("expected redirect back to signup, got %d %q", resp.Code, resp.Header().Get("Location"))
	}
}

func TestLoginSuccessIssuesSession(t *testing.T) {
	router, svc := newTestRouter(t)
	if _, err := svc.Signup(t.Context(), SignupInput{Name: "Ada", Email: "ada@example.com", Password: "pw"}); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	resp := postForm(router, "/login", url.Values{"email": {"ada@example.com"}, "password": {"pw"}})
	if resp.Code != http.StatusSeeOther || resp.Header().Get("Location") != HomePath {
		t.Fatalf("expected redirect to builder, got %d %q", resp.Code, resp.Header().Get("Location"))
	}
	if ck := cookieNamed(resp, "session"); ck == nil || ck.Value == "" {
		t.Fatalf("expected session cookie")
	}
}

func TestLoginFailureRerendersForm(t *testing.T) {
	router, _ := newTestRouter(t)
	resp := postForm(router, "/login", url.Values{"email": {"ghost@example.com"}, "password": {"nope"}})

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	body := resp.Body.String()
	if !strings.Contains(body, "Invalid credentials") || !strings.Contains(body, `value="ghost@example.com"`) {
		t.Fatalf("unexpected body: %s", body)
	}
	if ck := cookieNamed(resp, "session"); ck != nil && ck.Value != "" {
		t.Fatalf("failed login must not issue a session")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusSeeOther || resp.Header().Get("Location") != "/login" {
		t.Fatalf("unexpected response %d %q", resp.Code, resp.Header().Get("Location"))
	}
	ck := cookieNamed(resp, "session")
	if ck == nil || ck.MaxAge >= 0 {
		t.Fatalf("expected session cookie to be expired")
	}
}
