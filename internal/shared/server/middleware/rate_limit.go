package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"resume-maker/internal/shared/apperr"
	"resume-maker/internal/shared/server/respond"
)

// ErrRateLimited is written when a principal's bucket is empty.
var ErrRateLimited = apperr.New(apperr.KindRateLimited, "Too many requests, slow down")

// Rule is a token bucket refilled at Rate tokens per second up to Burst.
// A zero rule disables limiting.
type Rule struct {
	Rate  float64
	Burst int
}

func (r Rule) disabled() bool { return r.Rate <= 0 || r.Burst <= 0 }

// RateLimiter keeps one bucket per principal.
type RateLimiter struct {
	rule Rule
	now  func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
	calls   int
}

type bucket struct {
	tokens float64
	seen   time.Time
}

// pruneEvery controls how often idle, full buckets are dropped.
const pruneEvery = 1024

func NewRateLimiter(rule Rule, now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{rule: rule, now: now, buckets: make(map[string]*bucket)}
}

// Take spends one token for principal. When the bucket is empty it reports
// how long until the next token.
func (l *RateLimiter) Take(principal string) (bool, time.Duration) {
	if l == nil || l.rule.disabled() {
		return true, 0
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls++
	if l.calls%pruneEvery == 0 {
		l.prune(now)
	}

	b := l.buckets[principal]
	if b == nil {
		b = &bucket{tokens: float64(l.rule.Burst), seen: now}
		l.buckets[principal] = b
	}
	b.refill(now, l.rule)

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	wait := (1 - b.tokens) / l.rule.Rate
	return false, time.Duration(math.Ceil(wait*1000)) * time.Millisecond
}

func (b *bucket) refill(now time.Time, rule Rule) {
	if elapsed := now.Sub(b.seen).Seconds(); elapsed > 0 {
		b.tokens = math.Min(float64(rule.Burst), b.tokens+elapsed*rule.Rate)
		b.seen = now
	}
}

func (l *RateLimiter) prune(now time.Time) {
	for key, b := range l.buckets {
		b.refill(now, l.rule)
		if b.tokens >= float64(l.rule.Burst) {
			delete(l.buckets, key)
		}
	}
}

// Len reports the number of tracked principals.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// RateLimit throttles the listed route patterns (gin full paths). The signed-in
// user is the principal; anonymous callers are keyed by client IP.
func RateLimit(l *RateLimiter, routes ...string) gin.HandlerFunc {
	limited := make(map[string]struct{}, len(routes))
	for _, r := range routes {
		limited[r] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := limited[c.FullPath()]; !ok {
			c.Next()
			return
		}
		principal := "user:" + UserIDFromContext(c)
		if principal == "user:" {
			principal = "ip:" + c.ClientIP()
		}
		ok, wait := l.Take(principal)
		if ok {
			c.Next()
			return
		}
		c.Header("Retry-After", strconv.Itoa(max(1, int(math.Ceil(wait.Seconds())))))
		respond.Error(c, ErrRateLimited)
	}
}
