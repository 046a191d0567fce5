// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// SESSION TESTS
// =============================================================================

func TestNewChatSession(t *testing.T) {
	s := NewChatSession()

	if s.ID == "" {
		t.Error("Expected non-empty ID")
	}
	if !strings.HasPrefix(s.ID, "sess_") {
		t.Errorf("ID should start with 'sess_', got %q", s.ID)
	}
	if s.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", s.Title, DefaultTitle)
	}
	if s.UpdatedAt.Before(s.CreatedAt) {
		t.Error("UpdatedAt must not be before CreatedAt")
	}
	if len(s.Messages) != 0 {
		t.Errorf("New session should have no messages, got %d", len(s.Messages))
	}
}

func TestSessionIDsTemporallySortable(t *testing.T) {
	a := NewChatSession()
	time.Sleep(2 * time.Millisecond)
	b := NewChatSession()

	if !(a.ID < b.ID) {
		t.Errorf("later session ID should sort after earlier: %q vs %q", a.ID, b.ID)
	}
}

func TestDeriveTitle(t *testing.T) {
	s := NewChatSession()

	long := strings.Repeat("X", 100)
	s.DeriveTitle(long)
	if s.Title != strings.Repeat("X", TitleMaxRunes) {
		t.Errorf("Title length = %d, want %d", len(s.Title), TitleMaxRunes)
	}

	// Second derivation must not change the title again
	s.DeriveTitle("something else entirely")
	if s.Title != strings.Repeat("X", TitleMaxRunes) {
		t.Error("Title changed on second DeriveTitle call")
	}
}

func TestDeriveTitle_CollapsesWhitespace(t *testing.T) {
	s := NewChatSession()
	s.DeriveTitle("how do\nI use\t signals?")
	if s.Title != "how do I use signals?" {
		t.Errorf("Title = %q", s.Title)
	}
}

func TestTouch_BumpsUpdatedAt(t *testing.T) {
	s := NewChatSession()
	before := s.UpdatedAt
	time.Sleep(2 * time.Millisecond)

	s.Touch()
	if !s.UpdatedAt.After(before) {
		t.Error("Touch should bump UpdatedAt")
	}
}

func TestAddTag_Deduplicates(t *testing.T) {
	s := NewChatSession()
	s.AddTag("reddit")
	s.AddTag("reddit")
	s.AddTag("github")

	if len(s.Tags) != 2 {
		t.Errorf("Tags = %v, want 2 entries", s.Tags)
	}
}

func TestMarkExternalSourcesUsed_ForwardOnly(t *testing.T) {
	s := NewChatSession()
	if s.ExternalSourcesUsed {
		t.Fatal("new session should not have external sources used")
	}

	s.MarkExternalSourcesUsed()
	if !s.ExternalSourcesUsed {
		t.Error("flag should be set")
	}

	// Calling again is a no-op, not a toggle
	s.MarkExternalSourcesUsed()
	if !s.ExternalSourcesUsed {
		t.Error("flag must never clear automatically")
	}
}

func TestSessionClone_Independent(t *testing.T) {
	s := NewChatSession()
	s.Messages = append(s.Messages, NewUserMessage("original"))
	s.Tags = []string{"reddit"}

	clone := s.Clone()
	clone.Messages[0].Content = "mutated"
	clone.Tags[0] = "web"

	if s.Messages[0].Content != "original" {
		t.Error("clone mutation leaked into original messages")
	}
	if s.Tags[0] != "reddit" {
		t.Error("clone mutation leaked into original tags")
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	m := NewUserMessage("hello")

	if !m.IsUser {
		t.Error("Expected IsUser = true")
	}
	if !strings.HasPrefix(m.ID, "msg_") {
		t.Errorf("ID should start with 'msg_', got %q", m.ID)
	}
	if m.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestCompositeMessageIDs(t *testing.T) {
	if got := QuestionID("abc123"); got != "abc123-question" {
		t.Errorf("QuestionID = %q", got)
	}
	if got := AnswerID("abc123"); got != "abc123-answer" {
		t.Errorf("AnswerID = %q", got)
	}
}

func TestMessagePreview(t *testing.T) {
	m := NewUserMessage("a long message that needs truncation for the sidebar")
	got := m.Preview(20)
	if len([]rune(got)) > 20 {
		t.Errorf("Preview too long: %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected ellipsis, got %q", got)
	}
}

func TestFeedbackValidate(t *testing.T) {
	tests := []struct {
		rating  int
		wantErr bool
	}{
		{0, true},
		{1, false},
		{3, false},
		{5, false},
		{6, true},
		{-1, true},
	}

	for _, tt := range tests {
		fb := &Feedback{Rating: tt.rating}
		err := fb.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(rating=%d) error = %v, wantErr = %v", tt.rating, err, tt.wantErr)
		}
	}
}

// =============================================================================
// USER PROFILE TESTS
// =============================================================================

func TestUserProfileMergeFrom_StoreWins(t *testing.T) {
	store := UserProfile{ID: "u1", Username: "store-name"}
	auth := UserProfile{ID: "u1", Username: "auth-name", Email: "a@example.com"}

	merged := store.MergeFrom(auth)

	if merged.Username != "store-name" {
		t.Errorf("store value should win, got %q", merged.Username)
	}
	if merged.Email != "a@example.com" {
		t.Errorf("auth should fill gaps, got %q", merged.Email)
	}
}

// =============================================================================
// SETTINGS TESTS
// =============================================================================

func TestChatSettingsApply_Partial(t *testing.T) {
	s := DefaultChatSettings()
	temp := 0.9
	s2 := s.Apply(ChatSettingsPatch{Temperature: &temp})

	if s2.Temperature != 0.9 {
		t.Errorf("Temperature = %v, want 0.9", s2.Temperature)
	}
	if s2.Model != s.Model {
		t.Error("unpatched fields must be preserved")
	}
	// Original untouched (value semantics)
	if s.Temperature != 0.2 {
		t.Error("Apply must not mutate the receiver")
	}
}

func TestChatSettingsApply_ExternalSourcesMergedByKey(t *testing.T) {
	s := DefaultChatSettings()
	s2 := s.Apply(ChatSettingsPatch{ExternalSources: map[string]bool{SourceReddit: true}})

	if !s2.ExternalSources[SourceReddit] {
		t.Error("reddit should be enabled")
	}
	if s2.ExternalSources[SourceGitHub] {
		t.Error("github should remain disabled")
	}
	if s.ExternalSources[SourceReddit] {
		t.Error("Apply must not mutate the receiver's map")
	}
}

// =============================================================================
// INSUFFICIENCY PREDICATE TESTS
// =============================================================================

func TestDefaultInsufficiencyPredicate(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"I'm sorry, I couldn't find that in the Godot docs.", true},
		{"I am unable to answer that from the documentation.", true},
		{"Use get_node() to fetch a child node.", false},
		{"", false},
		{"There is NO INFORMATION about this in the manual.", true},
	}

	for _, tt := range tests {
		if got := DefaultInsufficiencyPredicate(tt.answer); got != tt.want {
			t.Errorf("DefaultInsufficiencyPredicate(%q) = %v, want %v", tt.answer, got, tt.want)
		}
	}
}
