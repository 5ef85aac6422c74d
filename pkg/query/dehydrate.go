package query

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// DehydratedEntry is the wire form of one cache entry.
type DehydratedEntry struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	FetchedAt int64           `json:"fetchedAt"` // Unix milliseconds
}

// DehydratedState is the wire form of a whole cache, embedded into the
// rendered HTML and read back by the client bootstrap.
type DehydratedState struct {
	Entries []DehydratedEntry `json:"entries"`
}

// Dehydrate serializes every entry for transmission to the client.
// Loader execution always completes before rendering, so by the time
// Dehydrate runs there are no in-flight fetches to race with.
func (c *Cache) Dehydrate() ([]byte, error) {
	c.mu.Lock()
	state := DehydratedState{Entries: make([]DehydratedEntry, 0, len(c.entries))}
	for _, entry := range c.entries {
		raw, err := json.Marshal(entry.Value)
		if err != nil {
			c.mu.Unlock()
			return nil, fmt.Errorf("dehydrate %q: %w", entry.Key, err)
		}
		state.Entries = append(state.Entries, DehydratedEntry{
			Key:       entry.Key,
			Value:     raw,
			FetchedAt: entry.FetchedAt.UnixMilli(),
		})
	}
	c.mu.Unlock()

	// Deterministic output keeps rendered pages byte-stable.
	sort.Slice(state.Entries, func(i, j int) bool {
		return state.Entries[i].Key < state.Entries[j].Key
	})

	return json.Marshal(state)
}

// Hydrate reconstructs entries from a dehydrated snapshot. Values are
// kept as raw JSON until a typed Fetch first reads them; timestamps are
// preserved so the staleness window carries across the round trip and
// no network fetch is re-issued for fresh entries.
func (c *Cache) Hydrate(data []byte) error {
	var state DehydratedState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("hydrate: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, de := range state.Entries {
		c.entries[de.Key] = &Entry{
			Key:       de.Key,
			Value:     json.RawMessage(de.Value),
			FetchedAt: time.UnixMilli(de.FetchedAt),
		}
	}
	return nil
}

// TypeError reports a cached value whose type does not match the
// requested one.
type TypeError struct {
	Key   string
	Value any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("query: cached value for %q has unexpected type %T", e.Key, e.Value)
}
