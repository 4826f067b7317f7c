package form

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-maker/internal/shared/apperr"
)

func newContext(req *http.Request) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestParseURLEncodedKeepsRepeatedFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("name=Ada&skills[]=Go&skills[]=SQL"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	values, err := Parse(newContext(req))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := values["skills[]"]; len(got) != 2 || got[0] != "Go" || got[1] != "SQL" {
		t.Fatalf("unexpected skills %v", got)
	}
}

func TestParseMultipart(t *testing.T) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	_ = w.WriteField("name", "Ada")
	_ = w.WriteField("exp_company[]", "Acme")
	_ = w.Close()
	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	values, err := Parse(newContext(req))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if values.Get("name") != "Ada" || values.Get("exp_company[]") != "Acme" {
		t.Fatalf("unexpected values %v", values)
	}
}

func TestParseMapsMaxBytesToTooLarge(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("name="+strings.Repeat("x", 128)))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Body = http.MaxBytesReader(rec, req.Body, 32)

	_, err := Parse(newContext(req))
	if apperr.KindOf(err) != apperr.KindTooLarge {
		t.Fatalf("expected too_large, got %v", err)
	}
}
