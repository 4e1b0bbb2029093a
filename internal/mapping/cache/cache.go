// Package cache implements the MappingCache (§4.4.5): a content-addressed
// store of previously computed MappedComponents, keyed by the SHA-256
// content hash the mapping engine derives from a row's full column map.
// Caching is an optimization only; the idempotence invariant it relies on
// is that resolving the same content twice must always produce the same
// MappedComponent.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"dblibmigrate/internal/core"
)

// Stats reports cumulative hit/miss counters.
type Stats struct {
	Hits   int64
	Misses int64
}

// MappingCache is an in-memory cache with an optional on-disk backing
// file. The disk file, when configured, is loaded once at construction and
// rewritten wholesale by Flush; there is no incremental persistence, which
// keeps the on-disk format a single JSON document that is trivial to
// inspect.
type MappingCache struct {
	mu       sync.RWMutex
	entries  map[string]core.MappedComponent
	diskPath string
	hits     int64
	misses   int64
}

// New builds an empty in-memory-only cache.
func New() *MappingCache {
	return &MappingCache{entries: make(map[string]core.MappedComponent)}
}

// Open builds a cache backed by a disk file at path, loading any existing
// entries. A missing file is not an error; it is treated as an empty
// cache.
func Open(path string) (*MappingCache, error) {
	c := &MappingCache{entries: make(map[string]core.MappedComponent), diskPath: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		return nil, err
	}
	return c, nil
}

// Get looks up a key, recording a hit or miss.
func (c *MappingCache) Get(key string) (core.MappedComponent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	component, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return component, ok
}

// Put stores a resolved component under key, overwriting any existing
// entry (callers only ever write the same content-addressed value for a
// given key, so overwriting is harmless).
func (c *MappingCache) Put(key string, component core.MappedComponent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = component
}

// Stats returns the cumulative hit/miss counters.
func (c *MappingCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Hits: c.hits, Misses: c.misses}
}

// Len reports the number of distinct cached entries.
func (c *MappingCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Flush persists the current entry set to the configured disk path. It is
// a no-op for an in-memory-only cache built with New.
func (c *MappingCache) Flush() error {
	if c.diskPath == "" {
		return nil
	}
	c.mu.RLock()
	data, err := json.Marshal(c.entries)
	c.mu.RUnlock()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(c.diskPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(c.diskPath, data, 0o644)
}
