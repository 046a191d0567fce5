// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the client for the Godot documentation assistant backend.
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jeranaias/gdchat-tui/internal/model"
)

// =============================================================================
// REACTION ENDPOINTS
// =============================================================================

// SetLikeStatus records a like or dislike against a remote message.
func (c *Client) SetLikeStatus(ctx context.Context, remoteID string, status model.LikeStatus) error {
	_, err := doJSON[struct{}](ctx, c, http.MethodPost, "/messages/"+url.PathEscape(remoteID)+"/reaction", map[string]string{
		"status": string(status),
	})
	return err
}

// SubmitFeedback records free-text feedback with a star rating against
// a remote message. The rating is validated before any network call.
func (c *Client) SubmitFeedback(ctx context.Context, remoteID string, feedback model.Feedback) error {
	if err := feedback.Validate(); err != nil {
		return fmt.Errorf("validation: %w", err)
	}
	_, err := doJSON[struct{}](ctx, c, http.MethodPost, "/messages/"+url.PathEscape(remoteID)+"/feedback", feedback)
	return err
}
