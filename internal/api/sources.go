// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the client for the Godot documentation assistant backend.
package api

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// sourceListKey is the cache key for the source list.
const sourceListKey = "sources"

// =============================================================================
// SOURCE TYPES
// =============================================================================

// Source is one ingested external knowledge source.
type Source struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"` // reddit, stackoverflow, github, web
	URL       string    `json:"url,omitempty"`
	AddedAt   time.Time `json:"added_at"`
	ChunkSize int       `json:"chunk_size,omitempty"`
}

// =============================================================================
// SOURCE ENDPOINTS
// =============================================================================

// ListSources fetches the ingested external sources. Served from cache
// within the list TTL.
func (c *Client) ListSources(ctx context.Context) ([]Source, error) {
	if c.caching {
		if sources, ok := c.sources.Get(sourceListKey); ok {
			return sources, nil
		}
	}

	sources, err := doJSON[[]Source](ctx, c, http.MethodGet, "/sources", nil)
	if err != nil {
		return nil, err
	}

	if c.caching {
		c.sources.Set(sourceListKey, sources)
	}
	return sources, nil
}

// DeleteSource removes an ingested source.
func (c *Client) DeleteSource(ctx context.Context, id string) error {
	_, err := doJSON[struct{}](ctx, c, http.MethodDelete, "/sources/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	c.sources.Invalidate(sourceListKey)
	return nil
}
