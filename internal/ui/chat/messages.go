// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the gdchat TUI.
//
// This file defines the Bubble Tea message types and the commands that
// produce them. Commands wrap API calls; every command that fetches
// for a specific session carries the session ID so stale results for
// an abandoned session can be dropped on arrival, and the fetch
// context is cancelled outright when the user switches away.
package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/gdchat-tui/internal/api"
	"github.com/jeranaias/gdchat-tui/internal/model"
)

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// SessionsLoadedMsg delivers the session list.
type SessionsLoadedMsg struct {
	Sessions []*model.ChatSession
	Err      error
}

// SessionCreatedMsg reports the backend mirror of a new chat.
type SessionCreatedMsg struct {
	Session *model.ChatSession
	Err     error
}

// SessionUpdatedMsg reports a metadata patch round trip.
type SessionUpdatedMsg struct {
	SessionID string
	Err       error
}

// SessionDeletedMsg reports a completed delete.
type SessionDeletedMsg struct {
	SessionID string
	Err       error
}

// MessagesLoadedMsg delivers a session's history.
type MessagesLoadedMsg struct {
	SessionID string
	Messages  []model.Message
	Err       error
}

// =============================================================================
// QUERY MESSAGES
// =============================================================================

// QueryResultMsg delivers the assistant's answer.
type QueryResultMsg struct {
	SessionID string
	Question  string
	Response  api.QueryResponse
	External  bool // answered via the external-source fallback
	Err       error
}

// ReactionSavedMsg reports a like/dislike round trip.
type ReactionSavedMsg struct {
	MessageID string
	Status    model.LikeStatus
	Err       error
}

// FeedbackSavedMsg reports a feedback submission.
type FeedbackSavedMsg struct {
	MessageID string
	Feedback  model.Feedback
	Err       error
}

// =============================================================================
// COMMANDS
// =============================================================================

// loadSessionsCmd fetches the session list.
func loadSessionsCmd(ctx context.Context, client *api.Client) tea.Cmd {
	return func() tea.Msg {
		sessions, err := client.ListSessions(ctx)
		return SessionsLoadedMsg{Sessions: sessions, Err: err}
	}
}

// createSessionCmd mirrors a new chat to the backend.
func createSessionCmd(ctx context.Context, client *api.Client, id, title string) tea.Cmd {
	return func() tea.Msg {
		sess, err := client.CreateSession(ctx, id, title)
		return SessionCreatedMsg{Session: sess, Err: err}
	}
}

// updateSessionCmd patches session metadata on the backend.
func updateSessionCmd(ctx context.Context, client *api.Client, id string, req api.UpdateSessionRequest) tea.Cmd {
	return func() tea.Msg {
		err := client.UpdateSession(ctx, id, req)
		return SessionUpdatedMsg{SessionID: id, Err: err}
	}
}

// deleteSessionCmd removes a session on the backend.
func deleteSessionCmd(ctx context.Context, client *api.Client, id string) tea.Cmd {
	return func() tea.Msg {
		err := client.DeleteSession(ctx, id)
		return SessionDeletedMsg{SessionID: id, Err: err}
	}
}

// loadMessagesCmd fetches a session's history. The ctx is the
// per-session fetch context: switching sessions cancels it.
func loadMessagesCmd(ctx context.Context, client *api.Client, sessionID string) tea.Cmd {
	return func() tea.Msg {
		messages, err := client.ListMessages(ctx, sessionID)
		return MessagesLoadedMsg{SessionID: sessionID, Messages: messages, Err: err}
	}
}

// queryCmd asks the assistant a question.
func queryCmd(ctx context.Context, client *api.Client, question, sessionID string, settings model.ChatSettings) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Query(ctx, question, sessionID, settings)
		return QueryResultMsg{SessionID: sessionID, Question: question, Response: resp, Err: err}
	}
}

// redditQueryCmd asks the Reddit-flavored fallback variant.
func redditQueryCmd(ctx context.Context, client *api.Client, question, sessionID string, settings model.ChatSettings) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.QueryReddit(ctx, question, sessionID, settings)
		return QueryResultMsg{SessionID: sessionID, Question: question, Response: resp, External: true, Err: err}
	}
}

// reactionCmd records a like/dislike.
func reactionCmd(ctx context.Context, client *api.Client, messageID, remoteID string, status model.LikeStatus) tea.Cmd {
	return func() tea.Msg {
		err := client.SetLikeStatus(ctx, remoteID, status)
		return ReactionSavedMsg{MessageID: messageID, Status: status, Err: err}
	}
}

// feedbackCmd submits star feedback.
func feedbackCmd(ctx context.Context, client *api.Client, messageID, remoteID string, fb model.Feedback) tea.Cmd {
	return func() tea.Msg {
		err := client.SubmitFeedback(ctx, remoteID, fb)
		return FeedbackSavedMsg{MessageID: messageID, Feedback: fb, Err: err}
	}
}
