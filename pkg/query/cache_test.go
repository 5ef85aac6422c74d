package query

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGetOrFetchCachesResult(t *testing.T) {
	c := NewCache()
	calls := 0

	fetch := func(ctx context.Context) (any, error) {
		calls++
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrFetch(context.Background(), "k", fetch, time.Minute)
		if err != nil {
			t.Fatalf("GetOrFetch: %v", err)
		}
		if v != "value" {
			t.Errorf("value = %v, want %q", v, "value")
		}
	}

	if calls != 1 {
		t.Errorf("fetch calls = %d, want 1", calls)
	}
}

func TestGetOrFetchStaleEntryRefetches(t *testing.T) {
	c := NewCache()
	now := time.Now()
	c.now = func() time.Time { return now }

	calls := 0
	fetch := func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	}

	if _, err := c.GetOrFetch(context.Background(), "k", fetch, time.Minute); err != nil {
		t.Fatal(err)
	}

	// Age the entry past the window.
	now = now.Add(2 * time.Minute)

	v, err := c.GetOrFetch(context.Background(), "k", fetch, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if v != 2 {
		t.Errorf("value = %v, want 2", v)
	}
	if calls != 2 {
		t.Errorf("fetch calls = %d, want 2", calls)
	}
}

func TestGetOrFetchZeroStaleTimeAlwaysFetches(t *testing.T) {
	c := NewCache()
	calls := 0
	fetch := func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	}

	c.GetOrFetch(context.Background(), "k", fetch, 0)
	c.GetOrFetch(context.Background(), "k", fetch, 0)

	if calls != 2 {
		t.Errorf("fetch calls = %d, want 2", calls)
	}
}

func TestGetOrFetchRetriesOnce(t *testing.T) {
	c := NewCache()
	calls := 0
	fetch := func(ctx context.Context) (any, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("transient")
		}
		return "ok", nil
	}

	v, err := c.GetOrFetch(context.Background(), "k", fetch, time.Minute)
	if err != nil {
		t.Fatalf("GetOrFetch: %v", err)
	}
	if v != "ok" {
		t.Errorf("value = %v, want %q", v, "ok")
	}
	if calls != 2 {
		t.Errorf("fetch calls = %d, want 2", calls)
	}

	entry, ok := c.Lookup("k")
	if !ok {
		t.Fatal("entry missing after retry")
	}
	if entry.Retries != 1 {
		t.Errorf("Retries = %d, want 1", entry.Retries)
	}
}

func TestGetOrFetchFailsAfterSecondError(t *testing.T) {
	c := NewCache()
	calls := 0
	fetchErr := errors.New("upstream down")
	fetch := func(ctx context.Context) (any, error) {
		calls++
		return nil, fetchErr
	}

	_, err := c.GetOrFetch(context.Background(), "k", fetch, time.Minute)
	if !errors.Is(err, fetchErr) {
		t.Fatalf("err = %v, want %v", err, fetchErr)
	}
	if calls != 2 {
		t.Errorf("fetch calls = %d, want 2 (one retry)", calls)
	}
	if c.Len() != 0 {
		t.Errorf("failed fetch must not store an entry, Len = %d", c.Len())
	}
}

func TestGetOrFetchNoRetryAfterCancel(t *testing.T) {
	c := NewCache()
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	fetch := func(ctx context.Context) (any, error) {
		calls++
		cancel()
		return nil, ctx.Err()
	}

	if _, err := c.GetOrFetch(ctx, "k", fetch, time.Minute); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("fetch calls = %d, want 1 (no retry after cancellation)", calls)
	}
}

func TestCachesAreIsolated(t *testing.T) {
	a := NewCache()
	b := NewCache()

	a.Set("shared-key", "from a")

	if _, ok := b.Lookup("shared-key"); ok {
		t.Error("entry leaked between cache instances")
	}
	if b.Len() != 0 {
		t.Errorf("b.Len() = %d, want 0", b.Len())
	}
}

func TestTypedFetch(t *testing.T) {
	type repo struct {
		Name  string `json:"name"`
		Stars int    `json:"stars"`
	}

	c := NewCache()
	calls := 0

	got, err := Fetch(context.Background(), c, "repos", time.Minute,
		func(ctx context.Context) ([]repo, error) {
			calls++
			return []repo{{Name: "strand", Stars: 7}}, nil
		})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 1 || got[0].Name != "strand" {
		t.Errorf("got = %+v", got)
	}

	// Second read hits the cache.
	got, err = Fetch(context.Background(), c, "repos", time.Minute,
		func(ctx context.Context) ([]repo, error) {
			calls++
			return nil, nil
		})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("fetch calls = %d, want 1", calls)
	}
	if got[0].Stars != 7 {
		t.Errorf("Stars = %d, want 7", got[0].Stars)
	}
}

func TestDehydrateHydrateRoundTrip(t *testing.T) {
	type repo struct {
		Name string `json:"name"`
	}

	src := NewCache()
	if _, err := Fetch(context.Background(), src, "repos:octocat", time.Minute,
		func(ctx context.Context) ([]repo, error) {
			return []repo{{Name: "hello-world"}}, nil
		}); err != nil {
		t.Fatal(err)
	}
	src.Set("greeting", "hi")

	data, err := src.Dehydrate()
	if err != nil {
		t.Fatalf("Dehydrate: %v", err)
	}

	dst := NewCache()
	if err := dst.Hydrate(data); err != nil {
		t.Fatalf("Hydrate: %v", err)
	}

	if dst.Len() != src.Len() {
		t.Fatalf("Len = %d, want %d", dst.Len(), src.Len())
	}

	// Timestamps survive at millisecond precision so the staleness
	// window carries across.
	srcEntry, _ := src.Lookup("repos:octocat")
	dstEntry, _ := dst.Lookup("repos:octocat")
	if dstEntry.FetchedAt.UnixMilli() != srcEntry.FetchedAt.UnixMilli() {
		t.Errorf("FetchedAt = %v, want %v", dstEntry.FetchedAt, srcEntry.FetchedAt)
	}

	// A typed Fetch on the hydrated cache must not re-fetch; the raw
	// value unmarshals in place.
	got, err := Fetch(context.Background(), dst, "repos:octocat", time.Minute,
		func(ctx context.Context) ([]repo, error) {
			t.Fatal("hydrated entry must not trigger a fetch")
			return nil, nil
		})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "hello-world" {
		t.Errorf("got = %+v", got)
	}
}

func TestDehydrateDeterministicOrder(t *testing.T) {
	c := NewCache()
	c.Set("b", 2)
	c.Set("a", 1)
	c.Set("c", 3)

	first, err := c.Dehydrate()
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Dehydrate()
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Errorf("Dehydrate output not deterministic:\n%s\n%s", first, second)
	}
}

func TestTypedFetchWrongType(t *testing.T) {
	c := NewCache()
	c.Set("k", 42)

	_, err := Fetch(context.Background(), c, "k", time.Minute,
		func(ctx context.Context) (string, error) {
			return "", nil
		})

	var te *TypeError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *TypeError", err)
	}
}
