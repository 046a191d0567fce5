// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the gdchat TUI.
package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/gdchat-tui/internal/model"
	"github.com/jeranaias/gdchat-tui/internal/ui/styles"
	"github.com/jeranaias/gdchat-tui/internal/util"
)

// =============================================================================
// SESSION SIDEBAR
// =============================================================================

// Sidebar renders the session list. Pinned sessions sort first,
// then newest first (the store already keeps insertion order).
type Sidebar struct {
	theme *styles.Theme
	width int
}

// NewSidebar creates a sidebar renderer.
func NewSidebar(theme *styles.Theme, width int) *Sidebar {
	return &Sidebar{theme: theme, width: width}
}

// SetWidth updates the layout width.
func (s *Sidebar) SetWidth(width int) {
	s.width = width
}

// Render draws the session list with the active session highlighted.
func (s *Sidebar) Render(sessions []*model.ChatSession, activeID string, height int) string {
	if len(sessions) == 0 {
		return s.theme.Sidebar.Render(s.theme.SessionTimestamp.Render("No chats yet"))
	}

	ordered := orderSessions(sessions)

	var b strings.Builder
	rows := 0
	for _, sess := range ordered {
		if height > 0 && rows >= height {
			break
		}
		b.WriteString(s.renderItem(sess, sess.ID == activeID))
		b.WriteString("\n")
		rows++
	}
	return s.theme.Sidebar.Render(strings.TrimRight(b.String(), "\n"))
}

// renderItem draws one session row: marker, truncated title, age.
func (s *Sidebar) renderItem(sess *model.ChatSession, active bool) string {
	marker := "  "
	style := s.theme.SessionItem
	if active {
		marker = "> "
		style = s.theme.SessionItemActive
	}

	title := sess.Title
	if sess.Pinned {
		title = "* " + title
	}
	if sess.ExternalSourcesUsed {
		title = title + " +"
	}

	age := s.theme.SessionTimestamp.Render(relativeAge(sess.UpdatedAt))
	titleWidth := s.width - util.StringWidth(marker) - util.StringWidth(relativeAge(sess.UpdatedAt)) - 1
	if titleWidth < 4 {
		titleWidth = 4
	}

	row := marker + util.TruncateWidth(title, titleWidth)
	if sess.Pinned && !active {
		style = s.theme.SessionItemPinned
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, style.Render(row), " ", age)
}

// orderSessions puts pinned sessions first, preserving relative order
// within each group.
func orderSessions(sessions []*model.ChatSession) []*model.ChatSession {
	pinned := make([]*model.ChatSession, 0, len(sessions))
	rest := make([]*model.ChatSession, 0, len(sessions))
	for _, sess := range sessions {
		if sess.Pinned {
			pinned = append(pinned, sess)
		} else {
			rest = append(rest, sess)
		}
	}
	return append(pinned, rest...)
}

// relativeAge formats how long ago a session was touched.
func relativeAge(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return util.IntToString(int(d.Minutes())) + "m"
	case d < 24*time.Hour:
		return util.IntToString(int(d.Hours())) + "h"
	default:
		return util.IntToString(int(d.Hours()/24)) + "d"
	}
}
