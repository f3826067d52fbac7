package geocode

import (
	"context"
	"sync"

	"github.com/Veraticus/four-pillars/internal/model"
)

// MemoryCache is a process-local PlaceCache. Entries never expire.
type MemoryCache struct {
	entries map[string]model.Location
	mu      sync.RWMutex
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]model.Location)}
}

// Get returns a copy of the cached location.
func (c *MemoryCache) Get(_ context.Context, key string) (*model.Location, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	loc, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	return &loc, true, nil
}

// Set stores loc under key, replacing any previous value.
func (c *MemoryCache) Set(_ context.Context, key string, loc *model.Location) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = *loc
	return nil
}

// Has reports whether key is cached.
func (c *MemoryCache) Has(_ context.Context, key string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[key]
	return ok, nil
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
