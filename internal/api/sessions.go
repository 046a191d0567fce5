// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the client for the Godot documentation assistant backend.
package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/jeranaias/gdchat-tui/internal/model"
)

// sessionListKey is the cache key for the session list.
const sessionListKey = "sessions"

// =============================================================================
// WIRE TYPES
// =============================================================================

// SessionRecord is a session as the backend returns it, without
// message bodies.
type SessionRecord struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	Tags                []string  `json:"tags,omitempty"`
	ExternalSourcesUsed bool      `json:"external_sources_used"`
	Pinned              bool      `json:"pinned"`
}

// MessageRecord is one remote Q/A record. The backend stores the
// question and answer as a single row; the client splits it into two
// local messages with composite IDs.
type MessageRecord struct {
	ID         string            `json:"id"`
	Question   string            `json:"question"`
	Answer     string            `json:"answer"`
	Sources    []model.SourceRef `json:"sources,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
	LikeStatus model.LikeStatus  `json:"like_status,omitempty"`
	Feedback   *model.Feedback   `json:"feedback,omitempty"`
}

// ToSession converts a wire record into the local session type.
func (r SessionRecord) ToSession() *model.ChatSession {
	return &model.ChatSession{
		ID:                  r.ID,
		Title:               r.Title,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
		Tags:                r.Tags,
		ExternalSourcesUsed: r.ExternalSourcesUsed,
		Pinned:              r.Pinned,
		Messages:            make([]model.Message, 0),
	}
}

// Split expands a Q/A record into its question and answer messages.
func (r MessageRecord) Split() []model.Message {
	out := make([]model.Message, 0, 2)
	if r.Question != "" {
		out = append(out, model.Message{
			ID:        model.QuestionID(r.ID),
			Content:   r.Question,
			IsUser:    true,
			Timestamp: r.Timestamp,
			RemoteID:  r.ID,
		})
	}
	if r.Answer != "" {
		out = append(out, model.Message{
			ID:         model.AnswerID(r.ID),
			Content:    r.Answer,
			IsUser:     false,
			Timestamp:  r.Timestamp,
			Sources:    r.Sources,
			RemoteID:   r.ID,
			LikeStatus: r.LikeStatus,
			Feedback:   r.Feedback,
		})
	}
	return out
}

// =============================================================================
// SESSION ENDPOINTS
// =============================================================================

// ListSessions fetches the session list, newest first. Served from
// cache within the list TTL.
func (c *Client) ListSessions(ctx context.Context) ([]*model.ChatSession, error) {
	if c.caching {
		if records, ok := c.sessions.Get(sessionListKey); ok {
			return recordsToSessions(records), nil
		}
	}

	records, err := doJSON[[]SessionRecord](ctx, c, http.MethodGet, "/sessions", nil)
	if err != nil {
		return nil, err
	}

	if c.caching {
		c.sessions.Set(sessionListKey, records)
	}
	return recordsToSessions(records), nil
}

// CreateSession mirrors a locally created session to the backend and
// returns the stored record. The client-generated ID is sent along so
// local and backend state agree on it.
func (c *Client) CreateSession(ctx context.Context, id, title string) (*model.ChatSession, error) {
	record, err := doJSON[SessionRecord](ctx, c, http.MethodPost, "/sessions", map[string]string{
		"id":    id,
		"title": title,
	})
	if err != nil {
		return nil, err
	}
	c.sessions.Invalidate(sessionListKey)
	return record.ToSession(), nil
}

// UpdateSessionRequest carries the mutable session fields.
type UpdateSessionRequest struct {
	Title  *string `json:"title,omitempty"`
	Pinned *bool   `json:"pinned,omitempty"`
}

// UpdateSession patches session metadata.
func (c *Client) UpdateSession(ctx context.Context, id string, req UpdateSessionRequest) error {
	_, err := doJSON[struct{}](ctx, c, http.MethodPatch, "/sessions/"+url.PathEscape(id), req)
	if err != nil {
		return err
	}
	c.sessions.Invalidate(sessionListKey)
	return nil
}

// DeleteSession removes a session and its messages on the backend.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	_, err := doJSON[struct{}](ctx, c, http.MethodDelete, "/sessions/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	c.sessions.Invalidate(sessionListKey)
	return nil
}

// ListMessages fetches a session's history, expanded into local
// question/answer messages. Not cached: history must be fresh after
// every switch.
func (c *Client) ListMessages(ctx context.Context, sessionID string) ([]model.Message, error) {
	records, err := doJSON[[]MessageRecord](ctx, c, http.MethodGet, "/sessions/"+url.PathEscape(sessionID)+"/messages", nil)
	if err != nil {
		return nil, err
	}

	messages := make([]model.Message, 0, len(records)*2)
	for _, r := range records {
		messages = append(messages, r.Split()...)
	}
	return messages, nil
}

// recordsToSessions converts wire records, preserving order.
func recordsToSessions(records []SessionRecord) []*model.ChatSession {
	out := make([]*model.ChatSession, len(records))
	for i, r := range records {
		out[i] = r.ToSession()
	}
	return out
}
