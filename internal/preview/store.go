package preview

import (
	"context"
	"time"
)

// Store is a key/value store with per-entry expiry.
// Get returns ErrNotFound for missing or expired keys.
type Store interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
}
