// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache provides short-lived in-memory caches for API responses.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/gdchat-tui/internal/model"
	"github.com/jeranaias/gdchat-tui/internal/util"
)

// =============================================================================
// QUERY CACHE
// =============================================================================

// DefaultQueryCacheSize is the entry cap for the query cache.
const DefaultQueryCacheSize = 100

// QueryCache caches RAG query responses keyed by the normalized question
// plus the settings that affect the answer. It is bounded: when full, the
// oldest inserted entry is evicted first, regardless of access pattern.
// Entries also expire after a TTL.
type QueryCache[V any] struct {
	mu      sync.Mutex
	entries map[string]ttlEntry[V]
	order   []string // insertion order for eviction
	maxSize int
	ttl     time.Duration

	hits   int
	misses int

	now func() time.Time
}

// NewQueryCache creates a query cache with the given entry cap and TTL.
// Non-positive arguments fall back to the defaults.
func NewQueryCache[V any](maxSize int, ttl time.Duration) *QueryCache[V] {
	if maxSize <= 0 {
		maxSize = DefaultQueryCacheSize
	}
	if ttl <= 0 {
		ttl = QueryTTL
	}
	return &QueryCache[V]{
		entries: make(map[string]ttlEntry[V]),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached response for key if present and not expired.
func (c *QueryCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return zero, false
	}
	if c.now().After(entry.expiresAt) {
		c.removeLocked(key)
		c.misses++
		return zero, false
	}

	c.hits++
	return entry.value, true
}

// Set stores a response under key, evicting the oldest entry if the
// cache is at capacity. Overwriting an existing key keeps its original
// position in the eviction order.
func (c *QueryCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		for len(c.order) >= c.maxSize {
			c.removeLocked(c.order[0])
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = ttlEntry[V]{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Invalidate removes a single key.
func (c *QueryCache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(key)
}

// Clear removes every entry.
func (c *QueryCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]ttlEntry[V])
	c.order = c.order[:0]
}

// Len returns the number of stored entries.
func (c *QueryCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// Stats returns a snapshot of the hit/miss counters.
func (c *QueryCache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:    c.hits,
		Misses:  c.misses,
		Entries: len(c.order),
	}
}

func (c *QueryCache[V]) removeLocked(key string) {
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// =============================================================================
// KEY DERIVATION
// =============================================================================

// QueryKey derives a deterministic cache key from the question text and
// the settings fields that change the answer. The question is NFC
// normalized, lowercased, and whitespace collapsed, so trivially
// different spellings of the same question share one entry.
func QueryKey(question string, settings model.ChatSettings) string {
	q := norm.NFC.String(question)
	q = strings.ToLower(util.CollapseWhitespace(q))

	// Only sources that are enabled participate in the key, in a
	// stable order.
	var enabled []string
	for src, on := range settings.ExternalSources {
		if on {
			enabled = append(enabled, src)
		}
	}
	sort.Strings(enabled)

	parts := []string{
		q,
		settings.Model,
		strconv.FormatFloat(settings.Temperature, 'f', -1, 64),
		strconv.Itoa(settings.TopK),
		settings.MemoryService,
		settings.Category,
		settings.Subcategory,
		strings.Join(enabled, ","),
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}
