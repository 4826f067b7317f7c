package preview

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"resume-maker/internal/shared/apperr"
)

// ErrNotFound is returned for unknown, malformed or expired tokens.
var ErrNotFound = apperr.NotFound("Invalid or expired token")

const tokenBytes = 16

// Entry is what a token resolves to.
type Entry[P any] struct {
	Owner     string    `json:"owner,omitempty"`
	Style     string    `json:"style"`
	Payload   P         `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// Cache maps random tokens to payload/style pairs for one document kind.
type Cache[P any] struct {
	store  Store
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewCache builds a cache over store. prefix keeps caches sharing one store apart.
func NewCache[P any](store Store, prefix string, ttl time.Duration) *Cache[P] {
	return &Cache[P]{store: store, prefix: prefix, ttl: ttl, now: time.Now}
}

// Issue stores payload under a fresh token and returns the token.
func (c *Cache[P]) Issue(ctx context.Context, owner, style string, payload P) (string, error) {
	token, err := NewToken()
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(Entry[P]{Owner: owner, Style: style, Payload: payload, CreatedAt: c.now().UTC()})
	if err != nil {
		return "", fmt.Errorf("encode preview entry: %w", err)
	}
	if err := c.store.Set(ctx, c.prefix+token, raw, c.ttl); err != nil {
		return "", fmt.Errorf("store preview entry: %w", err)
	}
	return token, nil
}

// Lookup resolves token. Entries are kept after lookup so a preview can be
// downloaded more than once until it expires.
func (c *Cache[P]) Lookup(ctx context.Context, token string) (Entry[P], error) {
	if !ValidToken(token) {
		return Entry[P]{}, ErrNotFound
	}
	raw, err := c.store.Get(ctx, c.prefix+token)
	if err != nil {
		return Entry[P]{}, err
	}
	var entry Entry[P]
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry[P]{}, fmt.Errorf("decode preview entry: %w", err)
	}
	return entry, nil
}

// NewToken returns 128 random bits, hex encoded.
func NewToken() (string, error) {
	var b [tokenBytes]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}

// ValidToken reports whether s has the shape of a token from NewToken.
func ValidToken(s string) bool {
	if len(s) != tokenBytes*2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if !(ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'f') {
			return false
		}
	}
	return true
}
