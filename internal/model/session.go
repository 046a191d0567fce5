// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/jeranaias/gdchat-tui/internal/util"
)

// DefaultTitle is the placeholder title for a session with no messages yet.
// A session still carrying it gets its title auto-derived from the first
// user message.
const DefaultTitle = "New Chat"

// TitleMaxRunes is the maximum auto-derived title length.
const TitleMaxRunes = 60

// =============================================================================
// CHAT SESSION TYPE
// =============================================================================

// ChatSession holds one conversation thread with history and metadata.
type ChatSession struct {
	// Identity. IDs are temporally sortable: newer sessions compare
	// greater under plain string ordering.
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Provenance markers, e.g. which external source answered a query.
	Tags []string `json:"tags,omitempty"`

	// ExternalSourcesUsed is set once the session has gone beyond the
	// primary knowledge base. It only transitions forward automatically.
	ExternalSourcesUsed bool `json:"external_sources_used"`

	Pinned bool `json:"pinned"`

	// Messages
	Messages []Message `json:"messages"`
}

// NewChatSession creates a new session with a generated ID and default title.
func NewChatSession() *ChatSession {
	now := time.Now()
	return &ChatSession{
		ID:        generateSessionID(now),
		Title:     DefaultTitle,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]Message, 0),
	}
}

// =============================================================================
// SESSION METHODS
// =============================================================================

// Touch bumps UpdatedAt. Every mutation to a session's content must call it.
func (s *ChatSession) Touch() {
	s.UpdatedAt = time.Now()
	if s.UpdatedAt.Before(s.CreatedAt) {
		s.UpdatedAt = s.CreatedAt
	}
}

// HasDefaultTitle reports whether the title is still the placeholder.
func (s *ChatSession) HasDefaultTitle() bool {
	return s.Title == "" || s.Title == DefaultTitle
}

// DeriveTitle sets the title from the given message content when the
// session is still untitled: the first TitleMaxRunes characters, with
// whitespace collapsed to one line. A second call is a no-op.
func (s *ChatSession) DeriveTitle(content string) {
	if !s.HasDefaultTitle() {
		return
	}
	title := util.CollapseWhitespace(content)
	title = util.TruncateRunesNoEllipsis(title, TitleMaxRunes)
	if title == "" {
		return
	}
	s.Title = title
}

// AddTag records a provenance tag if not already present. Tags accumulate;
// they are never removed automatically.
func (s *ChatSession) AddTag(tag string) {
	for _, t := range s.Tags {
		if t == tag {
			return
		}
	}
	s.Tags = append(s.Tags, tag)
	s.Touch()
}

// MarkExternalSourcesUsed flips the external-sources flag forward.
// There is deliberately no automatic way back.
func (s *ChatSession) MarkExternalSourcesUsed() {
	if s.ExternalSourcesUsed {
		return
	}
	s.ExternalSourcesUsed = true
	s.Touch()
}

// MessageCount returns the number of messages.
func (s *ChatSession) MessageCount() int {
	return len(s.Messages)
}

// IsEmpty returns true if there are no messages.
func (s *ChatSession) IsEmpty() bool {
	return len(s.Messages) == 0
}

// LastMessage returns the most recent message, or nil if empty.
func (s *ChatSession) LastMessage() *Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return &s.Messages[len(s.Messages)-1]
}

// Preview returns a one-line preview for session lists.
func (s *ChatSession) Preview() string {
	for i := range s.Messages {
		if s.Messages[i].IsUser {
			return s.Messages[i].Preview(80)
		}
	}
	return "Empty conversation"
}

// Clone creates a deep copy of the session.
func (s *ChatSession) Clone() *ChatSession {
	clone := *s
	clone.Messages = make([]Message, len(s.Messages))
	copy(clone.Messages, s.Messages)
	clone.Tags = append([]string(nil), s.Tags...)
	for i := range clone.Messages {
		clone.Messages[i].Sources = append([]SourceRef(nil), s.Messages[i].Sources...)
		if s.Messages[i].Feedback != nil {
			fb := *s.Messages[i].Feedback
			clone.Messages[i].Feedback = &fb
		}
	}
	return &clone
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateSessionID creates a temporally sortable session ID: a timestamp
// prefix keeps lexicographic order aligned with creation order, a random
// suffix keeps IDs unique within the same instant.
func generateSessionID(t time.Time) string {
	bytes := make([]byte, 4)
	rand.Read(bytes)
	return "sess_" + t.UTC().Format("20060102150405.000000000") + "_" + hex.EncodeToString(bytes)
}
