package preview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-maker/internal/shared/apperr"
)

type doc struct {
	Name string `json:"name"`
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestIssueThenLookup(t *testing.T) {
	ctx := context.Background()
	cache := NewCache[doc](NewMemoryStore(nil), "resume:", time.Hour)

	token, err := cache.Issue(ctx, "user-1", "modern", doc{Name: "Jane"})
	require.NoError(t, err)
	assert.True(t, ValidToken(token))

	entry, err := cache.Lookup(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "Jane", entry.Payload.Name)
	assert.Equal(t, "modern", entry.Style)
	assert.Equal(t, "user-1", entry.Owner)

	again, err := cache.Lookup(ctx, token)
	require.NoError(t, err, "tokens stay valid after a lookup")
	assert.Equal(t, entry.Payload, again.Payload)
}

func TestLookupUnknownAndMalformedTokens(t *testing.T) {
	ctx := context.Background()
	cache := NewCache[doc](NewMemoryStore(nil), "resume:", time.Hour)

	random, err := NewToken()
	require.NoError(t, err)
	for _, token := range []string{random, "", "nope", "../../etc/passwd", "ABCDEF0123456789ABCDEF0123456789"} {
		_, err := cache.Lookup(ctx, token)
		assert.ErrorIs(t, err, ErrNotFound, "token %q", token)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	}
}

func TestCachesSharingAStoreStayIndependent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)
	resumes := NewCache[doc](store, "resume:", time.Hour)
	letters := NewCache[doc](store, "cover_letter:", time.Hour)

	token, err := resumes.Issue(ctx, "", "modern", doc{Name: "Jane"})
	require.NoError(t, err)

	_, err = letters.Lookup(ctx, token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntriesExpire(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(clock.Now)
	cache := NewCache[doc](store, "resume:", 10*time.Minute)
	cache.now = clock.Now

	token, err := cache.Issue(ctx, "", "modern", doc{Name: "Jane"})
	require.NoError(t, err)

	clock.Advance(9 * time.Minute)
	_, err = cache.Lookup(ctx, token)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	_, err = cache.Lookup(ctx, token)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 0, store.Len())
}

func TestConcurrentIssueAndLookup(t *testing.T) {
	ctx := context.Background()
	cache := NewCache[doc](NewMemoryStore(nil), "resume:", time.Hour)

	const workers = 32
	tokens := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token, err := cache.Issue(ctx, "", "modern", doc{Name: fmt.Sprintf("user-%d", i)})
			if err != nil {
				t.Errorf("Issue: %v", err)
				return
			}
			tokens[i] = token
			if _, err := cache.Lookup(ctx, token); err != nil {
				t.Errorf("Lookup: %v", err)
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, workers)
	for i, token := range tokens {
		require.False(t, seen[token], "duplicate token")
		seen[token] = true
		entry, err := cache.Lookup(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("user-%d", i), entry.Payload.Name)
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)
	value := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", value, 0))
	value[0] = 'x'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestMemoryStoreRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := NewMemoryStore(nil)
	done := make(chan error, 1)
	go func() { done <- store.Run(ctx, time.Millisecond) }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestMemoryStoreHonoursCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := NewMemoryStore(nil)
	err := store.Set(ctx, "k", []byte("v"), time.Minute)
	assert.True(t, errors.Is(err, context.Canceled))
}
