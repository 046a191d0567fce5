// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// LIKE STATUS
// =============================================================================

// LikeStatus records the user's reaction to an assistant message.
type LikeStatus string

const (
	LikeStatusNone     LikeStatus = ""
	LikeStatusLiked    LikeStatus = "liked"
	LikeStatusDisliked LikeStatus = "disliked"
)

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single turn in a chat session.
//
// The backend stores one record per question/answer pair, so a message ID
// may be a composite of the remote record ID plus a "question" or "answer"
// suffix (see QuestionID/AnswerID). Locally created messages get a UUID.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"` // Markdown text
	IsUser  bool   `json:"is_user"` // Human turn vs assistant turn

	// Source citations attached to assistant answers
	Sources []SourceRef `json:"sources,omitempty"`

	// RemoteID is the backend record ID, used for like/dislike and
	// feedback calls. Empty for messages that only exist locally.
	RemoteID string `json:"remote_id,omitempty"`

	// Reaction state (assistant turns only). Attached after a follow-up
	// API round trip; messages are otherwise never mutated after append.
	LikeStatus LikeStatus `json:"like_status,omitempty"`
	Feedback   *Feedback  `json:"feedback,omitempty"`
}

// SourceRef is one citation backing an assistant answer: where it came
// from and the excerpt that was retrieved.
type SourceRef struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

// Feedback is free-text plus a 1-5 star rating for an assistant answer.
type Feedback struct {
	Text   string `json:"text,omitempty"`
	Rating int    `json:"rating"`
}

// Validate checks the feedback star rating is in the allowed range.
func (f *Feedback) Validate() error {
	if f.Rating < 1 || f.Rating > 5 {
		return fmt.Errorf("feedback rating must be in [1,5], got %d", f.Rating)
	}
	return nil
}

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// NewUserMessage creates a user message with a generated local ID.
func NewUserMessage(content string) Message {
	return Message{
		ID:        generateMessageID(),
		Content:   content,
		IsUser:    true,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage creates an assistant message with a generated local ID.
func NewAssistantMessage(content string, sources []SourceRef) Message {
	return Message{
		ID:        generateMessageID(),
		Content:   content,
		IsUser:    false,
		Sources:   sources,
		Timestamp: time.Now(),
	}
}

// QuestionID derives the composite local ID for the question half of a
// remote Q/A record.
func QuestionID(remoteID string) string {
	return remoteID + "-question"
}

// AnswerID derives the composite local ID for the answer half of a
// remote Q/A record.
func AnswerID(remoteID string) string {
	return remoteID + "-answer"
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// Preview returns a truncated one-line preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// HasSources returns true if the message carries source citations.
func (m *Message) HasSources() bool {
	return len(m.Sources) > 0
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateMessageID creates a unique local message ID.
func generateMessageID() string {
	return "msg_" + uuid.NewString()
}
