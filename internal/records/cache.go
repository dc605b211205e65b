package records

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// CachedLoader keeps the first successful load of every source until it is
// invalidated. Concurrent loads of one source share a single read.
//
// Every invalidation bumps a generation counter. A load only populates the
// cache if no invalidation happened while it was running, and callers
// arriving after an invalidation never join a read that started before it.
type CachedLoader struct {
	next       Loader
	mu         sync.RWMutex
	stores     map[string]*Store
	generation uint64
	group      singleflight.Group
}

// NewCachedLoader wraps next with a cache keyed by source location
func NewCachedLoader(next Loader) *CachedLoader {
	return &CachedLoader{
		next:   next,
		stores: make(map[string]*Store),
	}
}

// Load returns the cached store for source, loading it on a miss.
// Failed loads are not cached.
func (c *CachedLoader) Load(ctx context.Context, source string) (*Store, error) {
	c.mu.RLock()
	store, ok := c.stores[source]
	gen := c.generation
	c.mu.RUnlock()
	if ok {
		return store, nil
	}

	key := strconv.FormatUint(gen, 10) + "|" + source
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		cached, ok := c.stores[source]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		loaded, err := c.next.Load(ctx, source)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.generation == gen {
			c.stores[source] = loaded
		}
		c.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Store), nil
}

// Invalidate drops the cached store for source. Loads still running
// when it is called are not cached.
func (c *CachedLoader) Invalidate(source string) {
	c.mu.Lock()
	delete(c.stores, source)
	c.generation++
	c.mu.Unlock()
}

// InvalidateAll drops every cached store and returns how many were dropped
func (c *CachedLoader) InvalidateAll() int {
	c.mu.Lock()
	n := len(c.stores)
	c.stores = make(map[string]*Store)
	c.generation++
	c.mu.Unlock()
	return n
}

// Cached returns the number of cached sources
func (c *CachedLoader) Cached() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.stores)
}
