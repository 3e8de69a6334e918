package dataset

import (
	"context"
	"strings"
	"sync"
)

// Cache memoizes loaded tables, one entry per list of paths. An entry is
// reused while every source keeps its identity (size and modification
// time) and replaced when one changes. Cached tables are shared and must
// be treated as read-only.
type Cache struct {
	opts LoadOptions

	mu      sync.Mutex
	entries map[string]cacheEntry
	hits    int
	misses  int
}

type cacheEntry struct {
	identity string
	table    *Table
}

// NewCache creates an empty cache that loads with opts.
func NewCache(opts LoadOptions) *Cache {
	return &Cache{
		opts:    opts,
		entries: make(map[string]cacheEntry),
	}
}

// Load returns the cached table for paths or loads and stores it.
func (c *Cache) Load(ctx context.Context, paths ...string) (*Table, error) {
	if len(paths) == 0 {
		return nil, ErrNoSources
	}

	ids := make([]string, 0, len(paths))

	for _, p := range paths {
		id, err := SourceIdentity(p)
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	key := strings.Join(paths, "\x00")
	identity := strings.Join(ids, ";")

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && e.identity == identity {
		c.hits++
		c.mu.Unlock()

		return e.table, nil
	}
	c.mu.Unlock()

	t, err := Load(ctx, c.opts, paths...)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.misses++
	c.entries[key] = cacheEntry{identity: identity, table: t}

	return t, nil
}

// Len returns the number of cached tables.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Stats returns the number of cache hits and misses.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.hits, c.misses
}

// Purge drops every cached table.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]cacheEntry)
}
