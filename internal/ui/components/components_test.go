// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the gdchat TUI.
package components

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/gdchat-tui/internal/apperror"
	"github.com/jeranaias/gdchat-tui/internal/model"
	"github.com/jeranaias/gdchat-tui/internal/ui/styles"
)

// =============================================================================
// TOAST TESTS
// =============================================================================

func TestToastManager_AddAndRemove(t *testing.T) {
	m := NewToastManager()

	id := m.Add("saved", ToastKindSuccess)
	if !m.HasToasts() {
		t.Fatal("Expected an active toast")
	}

	m.Remove(id)
	if m.HasToasts() {
		t.Error("Toast should be removed")
	}
}

func TestToastManager_SeverityMapping(t *testing.T) {
	tests := []struct {
		severity apperror.Severity
		want     ToastKind
	}{
		{apperror.SeverityLow, ToastKindStatus},
		{apperror.SeverityMedium, ToastKindWarning},
		{apperror.SeverityHigh, ToastKindError},
		{apperror.SeverityCritical, ToastKindError},
	}

	for _, tt := range tests {
		m := NewToastManager()
		m.Notify("boom", tt.severity)
		toasts := m.Active()
		if len(toasts) != 1 {
			t.Fatalf("Active = %d, want 1", len(toasts))
		}
		if toasts[0].Kind != tt.want {
			t.Errorf("severity %v → kind %v, want %v", tt.severity, toasts[0].Kind, tt.want)
		}
	}
}

func TestToastManager_ErrorStaysLonger(t *testing.T) {
	if durationForKind(ToastKindError) <= durationForKind(ToastKindStatus) {
		t.Error("Error toasts should outlast status toasts")
	}
}

func TestToastManager_Expire(t *testing.T) {
	m := NewToastManager()
	m.Add("old", ToastKindStatus)
	// Age the toast past its duration
	m.toasts[0].CreatedAt = time.Now().Add(-DefaultToastDuration - time.Second)
	m.Add("fresh", ToastKindStatus)

	live := m.Expire()
	if len(live) != 1 || live[0].Message != "fresh" {
		t.Errorf("Live toasts = %+v, want only the fresh one", live)
	}
}

func TestRenderToast(t *testing.T) {
	out := RenderToast(Toast{Message: "Failed to load chat sessions. Please try again.", Kind: ToastKindError}, 60)
	if !strings.Contains(out, "Failed to load chat sessions") {
		t.Error("Rendered toast should contain the message")
	}
}

// =============================================================================
// MARKDOWN TESTS
// =============================================================================

func TestMarkdownRenderer_RendersContent(t *testing.T) {
	r, err := NewMarkdownRenderer(80, true)
	if err != nil {
		t.Fatalf("NewMarkdownRenderer failed: %v", err)
	}

	out := r.Render("# Signals\n\nUse `connect()`.")
	if out == "" {
		t.Error("Rendered output should not be empty")
	}
	if !strings.Contains(out, "Signals") {
		t.Error("Heading text should survive rendering")
	}
}

func TestMarkdownRenderer_MalformedInputDegrades(t *testing.T) {
	r, err := NewMarkdownRenderer(80, true)
	if err != nil {
		t.Fatal(err)
	}

	// Pathological input must never panic out of the boundary.
	malformed := "```gdscript\nfunc _ready():\n" + strings.Repeat("[", 500)
	out := r.Render(malformed)
	if out == "" {
		t.Error("Malformed input should degrade to something, not vanish")
	}
}

func TestMarkdownRenderer_NilRendererFallsBack(t *testing.T) {
	r := &MarkdownRenderer{}
	if got := r.Render("plain text"); got != "plain text" {
		t.Errorf("Render = %q, want passthrough", got)
	}
}

func TestHighlightCode_UnknownLanguageFallsBack(t *testing.T) {
	code := "definitely not valid anything"
	out := HighlightCode(code, "nosuchlang", true)
	if out == "" {
		t.Error("Fallback output should not be empty")
	}
}

func TestHighlightCode_DefaultsToGDScript(t *testing.T) {
	out := HighlightCode("func _ready():\n\tpass", "", true)
	if out == "" {
		t.Error("GDScript snippet should render")
	}
}

// =============================================================================
// SIDEBAR TESTS
// =============================================================================

func TestSidebar_PinnedFirst(t *testing.T) {
	a := model.NewChatSession()
	a.Title = "Unpinned"
	b := model.NewChatSession()
	b.Title = "Pinned"
	b.Pinned = true

	ordered := orderSessions([]*model.ChatSession{a, b})
	if !ordered[0].Pinned {
		t.Error("Pinned sessions should sort first")
	}
}

func TestSidebar_RenderHighlightsActive(t *testing.T) {
	theme := styles.NewTheme(styles.ModeDark)
	sb := NewSidebar(theme, 30)

	a := model.NewChatSession()
	a.Title = "Signals and slots"
	out := sb.Render([]*model.ChatSession{a}, a.ID, 10)

	if !strings.Contains(out, ">") {
		t.Error("Active session should carry the marker")
	}
	if !strings.Contains(out, "Signals") {
		t.Error("Title should render")
	}
}

func TestSidebar_EmptyState(t *testing.T) {
	theme := styles.NewTheme(styles.ModeDark)
	sb := NewSidebar(theme, 30)
	out := sb.Render(nil, "", 10)
	if !strings.Contains(out, "No chats yet") {
		t.Errorf("Empty state = %q", out)
	}
}

func TestRelativeAge(t *testing.T) {
	if got := relativeAge(time.Now().Add(-30 * time.Second)); got != "now" {
		t.Errorf("30s → %q, want now", got)
	}
	if got := relativeAge(time.Now().Add(-5 * time.Minute)); got != "5m" {
		t.Errorf("5min → %q, want 5m", got)
	}
	if got := relativeAge(time.Now().Add(-49 * time.Hour)); got != "2d" {
		t.Errorf("49h → %q, want 2d", got)
	}
}
