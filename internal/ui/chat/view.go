// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the gdchat TUI.
//
// This file renders the chat layout: header, sidebar, transcript
// viewport, input line, and status bar, with toasts overlaid on top.
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/gdchat-tui/internal/model"
	"github.com/jeranaias/gdchat-tui/internal/ui/components"
	"github.com/jeranaias/gdchat-tui/internal/ui/styles"
	"github.com/jeranaias/gdchat-tui/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat screen.
func (m *Model) View() string {
	if m.width == 0 {
		return "Starting gdchat..."
	}

	snap := m.store.Snapshot()

	var columns []string
	if !snap.AppSettings.SidebarCollapsed {
		columns = append(columns, m.sidebar.Render(snap.ChatSessions, snap.ActiveChatID, m.viewport.Height+2))
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(snap.ActiveSession()),
		m.viewport.View(),
		m.renderInput(),
		m.renderStatusBar(snap.IsLoading),
	)
	columns = append(columns, main)

	screen := lipgloss.JoinHorizontal(lipgloss.Top, columns...)

	if toasts := m.toasts.Active(); len(toasts) > 0 {
		stack := components.RenderToastStack(toasts, m.width/2)
		screen = lipgloss.JoinVertical(lipgloss.Right, stack, screen)
	}
	return screen
}

// renderHeader shows the app name and the active chat title.
func (m *Model) renderHeader(active *model.ChatSession) string {
	title := "gdchat"
	if active != nil {
		title = active.Title
		if active.ExternalSourcesUsed {
			title += " " + m.theme.ExternalMarker.Render("[community]")
		}
	}
	return m.theme.Header.Width(m.viewport.Width).Render(
		m.theme.HeaderTitle.Render(title),
	)
}

// renderInput shows the prompt line, or the active dialog in its place.
func (m *Model) renderInput() string {
	switch m.state {
	case StateDelete:
		prompt := themeStyle(styles.Rose).Render("Delete this chat? (y/n)")
		return m.theme.InputContainer.Width(m.viewport.Width).Render(prompt)
	case StateFeedback:
		label := themeStyle(styles.Amber).Render("Rate: ")
		return m.theme.InputContainer.Width(m.viewport.Width).Render(label + m.input.View())
	}
	return m.theme.InputContainer.Width(m.viewport.Width).Render(
		m.theme.InputPrompt.Render("> ") + m.input.View(),
	)
}

// renderStatusBar shows the spinner while waiting plus the shortcut
// strip.
func (m *Model) renderStatusBar(loading bool) string {
	var left string
	switch {
	case loading:
		left = m.spinner.View() + " Thinking..."
	case m.offerExternal:
		left = themeStyle(styles.Amber).Render("No solid answer found. Press C-e to search community sources.")
	}

	var parts []string
	for _, sc := range m.keyMap.ShortcutHelp() {
		parts = append(parts,
			m.theme.ShortcutKey.Render(sc[0])+" "+m.theme.ShortcutDesc.Render(sc[1]))
	}
	right := strings.Join(parts, "  ")

	gap := m.viewport.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Width(m.viewport.Width).Render(
		left + strings.Repeat(" ", gap) + right,
	)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// renderTranscript renders the active conversation for the viewport.
func (m *Model) renderTranscript() string {
	snap := m.store.Snapshot()
	if len(snap.Messages) == 0 {
		return m.renderEmptyState()
	}

	var b strings.Builder
	for i, msg := range snap.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	return b.String()
}

// renderEmptyState greets a fresh chat.
func (m *Model) renderEmptyState() string {
	lines := []string{
		"",
		"  Ask anything about Godot: nodes, signals, GDScript,",
		"  shaders, physics, exporting.",
		"",
		"  Answers cite the documentation they came from.",
	}
	return themeStyle(styles.TextMuted).Render(strings.Join(lines, "\n"))
}

// renderMessage renders a single turn.
func (m *Model) renderMessage(msg model.Message) string {
	if msg.IsUser {
		return m.theme.UserBubble.Render("You: " + msg.Content)
	}

	body := m.renderMarkdown(msg.Content)
	out := m.theme.AssistantBubble.Render(body)

	if msg.HasSources() {
		out += "\n" + m.renderSources(msg.Sources)
	}
	if badge := m.renderReaction(msg); badge != "" {
		out += "\n" + badge
	}
	return out
}

// renderSources lists an answer's citations.
func (m *Model) renderSources(sources []model.SourceRef) string {
	var b strings.Builder
	b.WriteString("Sources:\n")
	for i, src := range sources {
		preview := util.TruncateWidth(util.CollapseWhitespace(src.Content), 70)
		b.WriteString(fmt.Sprintf("  [%d] %s: %s\n", i+1, src.Source, preview))
	}
	return m.theme.SourceBlock.Render(strings.TrimRight(b.String(), "\n"))
}

// renderReaction shows the like/dislike marker and any rating given.
func (m *Model) renderReaction(msg model.Message) string {
	var parts []string
	switch msg.LikeStatus {
	case model.LikeStatusLiked:
		parts = append(parts, m.theme.LikeActive.Render("[liked]"))
	case model.LikeStatusDisliked:
		parts = append(parts, m.theme.DislikeActive.Render("[disliked]"))
	}
	if msg.Feedback != nil && msg.Feedback.Rating > 0 {
		stars := strings.Repeat("*", msg.Feedback.Rating)
		parts = append(parts, m.theme.RatingStars.Render(stars))
	}
	return strings.Join(parts, " ")
}
