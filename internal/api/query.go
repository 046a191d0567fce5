// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the client for the Godot documentation assistant backend.
package api

import (
	"context"
	"net/http"

	"github.com/jeranaias/gdchat-tui/internal/cache"
	"github.com/jeranaias/gdchat-tui/internal/model"
)

// =============================================================================
// QUERY TYPES
// =============================================================================

// QueryRequest is a question for the documentation assistant.
type QueryRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`

	Model         string  `json:"model,omitempty"`
	Temperature   float64 `json:"temperature,omitempty"`
	TopK          int     `json:"top_k,omitempty"`
	MemoryService string  `json:"memory_service,omitempty"`
	Category      string  `json:"category,omitempty"`
	Subcategory   string  `json:"subcategory,omitempty"`
}

// RedditQueryRequest is the Reddit-flavored query variant.
type RedditQueryRequest struct {
	QueryRequest
	RedditUsername string `json:"reddit_username,omitempty"`
	RedditSort     string `json:"reddit_sort,omitempty"`
}

// QueryResponse is the assistant's answer with its citations.
type QueryResponse struct {
	Answer    string            `json:"answer"`
	Sources   []model.SourceRef `json:"sources,omitempty"`
	MessageID string            `json:"message_id,omitempty"`
}

// newQueryRequest builds a request from a question and the current
// settings.
func newQueryRequest(question, sessionID string, settings model.ChatSettings) QueryRequest {
	return QueryRequest{
		Question:      question,
		SessionID:     sessionID,
		Model:         settings.Model,
		Temperature:   settings.Temperature,
		TopK:          settings.TopK,
		MemoryService: settings.MemoryService,
		Category:      settings.Category,
		Subcategory:   settings.Subcategory,
	}
}

// =============================================================================
// QUERY ENDPOINTS
// =============================================================================

// Query asks the assistant a question against the primary knowledge
// base. Identical questions with identical settings are served from
// the query cache within its TTL.
func (c *Client) Query(ctx context.Context, question, sessionID string, settings model.ChatSettings) (QueryResponse, error) {
	key := cache.QueryKey(question, settings)
	if c.caching {
		if resp, ok := c.queries.Get(key); ok {
			return resp, nil
		}
	}

	resp, err := doJSON[QueryResponse](ctx, c, http.MethodPost, "/query", newQueryRequest(question, sessionID, settings))
	if err != nil {
		return QueryResponse{}, err
	}

	if c.caching {
		c.queries.Set(key, resp)
	}
	return resp, nil
}

// QueryReddit asks the Reddit-flavored variant, used for the external
// source fallback path. Responses are not cached: community content
// changes too fast for the query TTL to be safe.
func (c *Client) QueryReddit(ctx context.Context, question, sessionID string, settings model.ChatSettings) (QueryResponse, error) {
	req := RedditQueryRequest{
		QueryRequest:   newQueryRequest(question, sessionID, settings),
		RedditUsername: settings.RedditUsername,
		RedditSort:     settings.RedditSort,
	}
	return doJSON[QueryResponse](ctx, c, http.MethodPost, "/query/reddit", req)
}

// InvalidateQueryCache drops all cached answers, used when the user
// changes settings that affect generation.
func (c *Client) InvalidateQueryCache() {
	c.queries.Clear()
}
