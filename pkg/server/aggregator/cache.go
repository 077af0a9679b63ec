package aggregator

import (
	"sync/atomic"
	"time"
)

// ResultCache is a single time-boxed slot holding the last computed result.
// The slot is replaced atomically, so concurrent aggregation cycles may race
// to overwrite it without coordination; the last writer wins and both results
// are equally valid for the same TTL window.
type ResultCache struct {
	ttl  time.Duration
	slot atomic.Pointer[cacheEntry]
}

type cacheEntry struct {
	result    Result
	expiresAt time.Time
}

// NewResultCache creates a cache with the given TTL.
func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{ttl: ttl}
}

// Get returns the stored result if it has not expired. A miss is a normal
// outcome, reported by the second return value.
func (c *ResultCache) Get() (Result, bool) {
	entry := c.slot.Load()
	if entry == nil || time.Now().After(entry.expiresAt) {
		return Result{}, false
	}
	return entry.result, true
}

// Set unconditionally overwrites the slot and resets the expiry.
func (c *ResultCache) Set(result Result) {
	c.slot.Store(&cacheEntry{
		result:    result,
		expiresAt: time.Now().Add(c.ttl),
	})
}
