package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimitOnlyThrottlesListedRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(Rule{Rate: 1, Burst: 2}, func() time.Time { return now })

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(userIDKey, "u-1")
		c.Next()
	})
	r.Use(RateLimit(limiter, "/resume/download/:token"))
	r.POST("/resume/download/:token", func(c *gin.Context) {
		c.String(http.StatusOK, "pdf")
	})
	r.GET("/resume/builder", func(c *gin.Context) {
		c.String(http.StatusOK, "builder")
	})

	for i := 0; i < 5; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/resume/builder", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("builder request %d expected 200, got %d", i+1, resp.Code)
		}
	}
	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/resume/download/abc", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("download request %d expected 200, got %d", i+1, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/resume/download/abc", nil))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("download request 3 expected 429, got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") != "1" {
		t.Fatalf("unexpected Retry-After %q", resp.Header().Get("Retry-After"))
	}
	if resp.Body.String() != ErrRateLimited.Message {
		t.Fatalf("unexpected body %q", resp.Body.String())
	}
}

func TestRateLimiterRefillsOverTime(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(Rule{Rate: 0.5, Burst: 1}, func() time.Time { return now })

	if ok, _ := limiter.Take("ip:1"); !ok {
		t.Fatalf("first call should pass")
	}
	ok, wait := limiter.Take("ip:1")
	if ok {
		t.Fatalf("second call should be limited")
	}
	if wait != 2*time.Second {
		t.Fatalf("expected 2s wait, got %s", wait)
	}

	now = now.Add(2 * time.Second)
	if ok, _ := limiter.Take("ip:1"); !ok {
		t.Fatalf("bucket should have refilled")
	}
	if ok, _ := limiter.Take("ip:2"); !ok {
		t.Fatalf("buckets are per principal")
	}
}

func TestRateLimiterZeroRuleAllowsEverything(t *testing.T) {
	limiter := NewRateLimiter(Rule{}, nil)
	for i := 0; i < 100; i++ {
		if ok, _ := limiter.Take("ip:1"); !ok {
			t.Fatalf("call %d limited with a zero rule", i)
		}
	}
	if limiter.Len() != 0 {
		t.Fatalf("zero rule must not track buckets")
	}
}

func TestRateLimiterPrunesIdleBuckets(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(Rule{Rate: 10, Burst: 1}, func() time.Time { return now })

	for i := 0; i < pruneEvery-1; i++ {
		limiter.Take("ip:" + strconv.Itoa(i))
	}
	if limiter.Len() != pruneEvery-1 {
		t.Fatalf("expected %d buckets, got %d", pruneEvery-1, limiter.Len())
	}
	now = now.Add(time.Minute)
	limiter.Take("ip:last")
	if limiter.Len() != 1 {
		t.Fatalf("expected idle buckets pruned, got %d", limiter.Len())
	}
}
