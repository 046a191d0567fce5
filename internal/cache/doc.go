// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache provides short-lived in-memory caches for API responses.
//
// Two shapes of cache live here:
//
//   - TTLCache: a generic time-bounded map used for the session list and
//     the external source list. Entries expire after a fixed TTL and are
//     dropped lazily on read. There is no size bound; the cached
//     collections are small and bounded by the backend.
//
//   - QueryCache: a bounded cache for RAG query responses. Entries expire
//     after a TTL and the cache holds at most a fixed number of entries,
//     evicting the oldest inserted entry first. Keys are derived
//     deterministically from the normalized query text plus the settings
//     that affect the answer, so the same question asked twice with the
//     same settings hits the cache.
//
// # Key Types
//
//   - TTLCache: generic TTL map
//   - QueryCache: bounded FIFO cache for query responses
//   - Stats: hit/miss counters
//
// # Usage
//
//	sessions := cache.NewTTLCache[[]model.ChatSession](cache.SessionTTL)
//	sessions.Set("all", list)
//	if list, ok := sessions.Get("all"); ok { ... }
//
// All caches are safe for concurrent use.
package cache
