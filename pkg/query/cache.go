package query

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// FetchFunc loads a value from the outside world on a cache miss.
type FetchFunc func(ctx context.Context) (any, error)

// Entry is one cached result.
// Entries are created on first successful fetch, refreshed when stale
// and re-requested, and never explicitly evicted: a Cache lives for one
// request, so the request scope bounds its size.
type Entry struct {
	Key       string
	Value     any
	FetchedAt time.Time
	Retries   int
}

// Cache holds results keyed by a request descriptor (for example a
// username) with get-or-fetch semantics and a staleness window.
//
// Each server request gets its own Cache instance. Nothing in this
// package shares state between caches, which is what guarantees the
// no-cross-request-leakage invariant.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Entry

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewCache creates an empty per-request cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*Entry),
		now:     time.Now,
	}
}

// GetOrFetch returns the cached value for key if present and younger
// than staleTime. Otherwise it invokes fetch, stores the result with a
// fresh timestamp, and returns it. A failing fetch is retried exactly
// once before the failure surfaces to the caller.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch FetchFunc, staleTime time.Duration) (any, error) {
	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && !c.isStale(entry, staleTime) {
		c.mu.Unlock()
		return entry.Value, nil
	}
	c.mu.Unlock()

	value, retries, err := c.fetchWithRetry(ctx, fetch)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = &Entry{
		Key:       key,
		Value:     value,
		FetchedAt: c.now(),
		Retries:   retries,
	}
	c.mu.Unlock()

	return value, nil
}

// fetchWithRetry invokes fetch, retrying once on failure.
func (c *Cache) fetchWithRetry(ctx context.Context, fetch FetchFunc) (any, int, error) {
	value, err := fetch(ctx)
	if err == nil {
		return value, 0, nil
	}
	if ctx.Err() != nil {
		return nil, 0, err
	}

	value, retryErr := fetch(ctx)
	if retryErr != nil {
		return nil, 1, retryErr
	}
	return value, 1, nil
}

// Lookup returns the entry for key, if any.
func (c *Cache) Lookup(key string) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	return entry, ok
}

// Set stores a value directly with a fresh timestamp.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &Entry{
		Key:       key,
		Value:     value,
		FetchedAt: c.now(),
	}
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// isStale reports whether an entry has aged past the staleness window.
// Caller holds c.mu.
func (c *Cache) isStale(entry *Entry, staleTime time.Duration) bool {
	if staleTime <= 0 {
		return true
	}
	return c.now().Sub(entry.FetchedAt) >= staleTime
}

// Fetch is the typed variant of Cache.GetOrFetch. Values cached by an
// earlier typed fetch come back directly; values reconstructed from a
// dehydrated snapshot are unmarshaled into T on first access.
func Fetch[T any](ctx context.Context, c *Cache, key string, staleTime time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	value, err := c.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	}, staleTime)
	if err != nil {
		return zero, err
	}

	switch v := value.(type) {
	case T:
		return v, nil
	case json.RawMessage:
		var typed T
		if err := json.Unmarshal(v, &typed); err != nil {
			return zero, err
		}
		// Replace the raw entry so later reads skip the unmarshal.
		c.mu.Lock()
		if entry, ok := c.entries[key]; ok {
			entry.Value = typed
		}
		c.mu.Unlock()
		return typed, nil
	default:
		return zero, &TypeError{Key: key, Value: value}
	}
}
