// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache provides short-lived in-memory caches for API responses.
package cache

import (
	"sync"
	"time"
)

// =============================================================================
// TTL DEFAULTS
// =============================================================================

// Default lifetimes for the cached collections.
const (
	// SessionTTL bounds staleness of the cached session list.
	SessionTTL = 5 * time.Minute

	// SourceTTL bounds staleness of the cached external source list.
	SourceTTL = 5 * time.Minute

	// QueryTTL bounds staleness of cached query responses.
	QueryTTL = 10 * time.Minute
)

// =============================================================================
// TTL CACHE
// =============================================================================

// ttlEntry is a cached value with its expiry deadline.
type ttlEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// Stats holds cache hit/miss counters.
type Stats struct {
	Hits    int
	Misses  int
	Entries int
}

// HitRate returns the fraction of lookups that were hits.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// TTLCache is a time-bounded map. Expired entries are dropped lazily on
// read; there is no background sweeper. A lookup of an expired entry
// counts as a miss.
type TTLCache[V any] struct {
	mu      sync.RWMutex
	entries map[string]ttlEntry[V]
	ttl     time.Duration

	hits   int
	misses int

	// now is swappable for tests.
	now func() time.Time
}

// NewTTLCache creates a cache whose entries live for ttl after insertion.
func NewTTLCache[V any](ttl time.Duration) *TTLCache[V] {
	return &TTLCache[V]{
		entries: make(map[string]ttlEntry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached value for key if present and not expired.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return zero, false
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		c.misses++
		return zero, false
	}

	c.hits++
	return entry.value, true
}

// Set stores value under key, resetting its lifetime.
func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = ttlEntry[V]{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Invalidate removes a single key. Removing a missing key is a no-op.
func (c *TTLCache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes every entry. Counters are preserved.
func (c *TTLCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]ttlEntry[V])
}

// Len returns the number of stored entries, expired or not.
func (c *TTLCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a snapshot of the hit/miss counters.
func (c *TTLCache[V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Hits:    c.hits,
		Misses:  c.misses,
		Entries: len(c.entries),
	}
}
