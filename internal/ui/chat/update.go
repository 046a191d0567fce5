// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the gdchat TUI.
//
// This file contains the Bubble Tea update loop. Conversation state
// mutations go through the store; the update loop translates key
// presses and command results into store operations and follow-up
// commands.
package chat

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/gdchat-tui/internal/api"
	"github.com/jeranaias/gdchat-tui/internal/apperror"
	"github.com/jeranaias/gdchat-tui/internal/model"
	"github.com/jeranaias/gdchat-tui/internal/store"
	"github.com/jeranaias/gdchat-tui/internal/ui/components"
)

// =============================================================================
// UPDATE LOOP
// =============================================================================

// Update handles incoming messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case components.ToastTickMsg:
		m.toasts.Expire()
		return m, components.ToastTickCmd()

	case spinner.TickMsg:
		if m.state != StateWaiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case SessionsLoadedMsg:
		return m.handleSessionsLoaded(msg)

	case SessionCreatedMsg:
		return m.handleSessionCreated(msg)

	case SessionUpdatedMsg:
		if msg.Err != nil {
			m.reportError(msg.Err, apperror.ActionSessionUpdate)
		}
		return m, nil

	case SessionDeletedMsg:
		if msg.Err != nil {
			m.reportError(msg.Err, apperror.ActionSessionDelete)
		}
		return m, nil

	case MessagesLoadedMsg:
		return m.handleMessagesLoaded(msg)

	case QueryResultMsg:
		return m.handleQueryResult(msg)

	case ReactionSavedMsg:
		return m.handleReactionSaved(msg)

	case FeedbackSavedMsg:
		if msg.Err != nil {
			m.reportError(msg.Err, apperror.ActionFeedbackSubmit)
		} else {
			m.toasts.Add("Thanks for the feedback!", components.ToastKindSuccess)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Dialog modes capture the keyboard entirely.
	switch m.state {
	case StateFeedback:
		return m.handleFeedbackKey(msg)
	case StateDelete:
		return m.handleDeleteKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Submit):
		return m.handleSubmit()

	case key.Matches(msg, m.keyMap.NewChat):
		return m.handleNewChat()

	case key.Matches(msg, m.keyMap.NextSession):
		return m.switchSession(1)

	case key.Matches(msg, m.keyMap.PrevSession):
		return m.switchSession(-1)

	case key.Matches(msg, m.keyMap.DeleteChat):
		if m.store.Snapshot().ActiveChatID != "" {
			m.state = StateDelete
			m.store.SetDeleteDialogOpen(true)
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Like):
		return m.handleReaction(model.LikeStatusLiked)

	case key.Matches(msg, m.keyMap.Dislike):
		return m.handleReaction(model.LikeStatusDisliked)

	case key.Matches(msg, m.keyMap.Feedback):
		return m.openFeedback()

	case key.Matches(msg, m.keyMap.External):
		return m.handleExternalAccept()

	case key.Matches(msg, m.keyMap.Sidebar):
		m.store.ToggleSidebarCollapsed()
		m.SetSize(m.width, m.height)
		return m, nil

	case key.Matches(msg, m.keyMap.Theme):
		m.store.ToggleTheme()
		m.theme.Toggle()
		m.markdown = newMarkdown(m.viewport.Width-6, m.theme.IsDark)
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keyMap.Cancel):
		m.offerExternal = false
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp), key.Matches(msg, m.keyMap.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSubmit sends the typed question.
func (m *Model) handleSubmit() (tea.Model, tea.Cmd) {
	question := strings.TrimSpace(m.input.Value())
	if question == "" || m.state == StateWaiting {
		return m, nil
	}
	m.input.Reset()
	m.offerExternal = false

	snap := m.store.Snapshot()

	var cmds []tea.Cmd
	if snap.ActiveChatID == "" {
		// First message with no open chat: create one locally and
		// mirror it to the backend in the background.
		sess := model.NewChatSession()
		m.store.AddChatSession(sess)
		m.store.SetActiveChatID(sess.ID)
		snap = m.store.Snapshot()
		cmds = append(cmds, createSessionCmd(m.ctx, m.client, sess.ID, sess.Title))
	}

	m.store.AddMessage(model.NewUserMessage(question))
	m.store.SetIsLoading(true)
	m.store.SetPendingQuery(question)
	m.state = StateWaiting

	// The first message retitles the chat locally; tell the backend.
	if sess := m.store.Snapshot().ActiveSession(); sess != nil && !sess.HasDefaultTitle() && len(sess.Messages) == 1 {
		title := sess.Title
		cmds = append(cmds, updateSessionCmd(m.ctx, m.client, sess.ID, api.UpdateSessionRequest{Title: &title}))
	}

	cmds = append(cmds,
		queryCmd(m.ctx, m.client, question, snap.ActiveChatID, snap.ChatSettings),
		m.spinner.Tick,
	)
	m.refreshViewport()
	return m, tea.Batch(cmds...)
}

// handleNewChat opens a fresh session and makes it active.
func (m *Model) handleNewChat() (tea.Model, tea.Cmd) {
	sess := model.NewChatSession()
	m.store.AddChatSession(sess)
	m.store.SetActiveChatID(sess.ID)
	m.store.SetMessages(nil)
	m.offerExternal = false
	m.refreshViewport()
	return m, createSessionCmd(m.ctx, m.client, sess.ID, sess.Title)
}

// switchSession moves the active session by delta in sidebar order and
// aborts any history fetch still running for the old one.
func (m *Model) switchSession(delta int) (tea.Model, tea.Cmd) {
	snap := m.store.Snapshot()
	if len(snap.ChatSessions) < 2 {
		return m, nil
	}
	idx := 0
	for i, sess := range snap.ChatSessions {
		if sess.ID == snap.ActiveChatID {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(snap.ChatSessions)) % len(snap.ChatSessions)
	target := snap.ChatSessions[idx]

	m.store.SetActiveChatID(target.ID)
	m.store.SetMessages(cloneEmbedded(target))
	m.offerExternal = false
	m.refreshViewport()
	return m, m.fetchHistory(target.ID)
}

// cloneEmbedded copies a session's embedded messages for the flat list
// so history is visible immediately while the authoritative fetch runs.
func cloneEmbedded(sess *model.ChatSession) []model.Message {
	if sess == nil || len(sess.Messages) == 0 {
		return nil
	}
	out := make([]model.Message, len(sess.Messages))
	copy(out, sess.Messages)
	return out
}

// handleReaction toggles like/dislike on the newest answer.
func (m *Model) handleReaction(status model.LikeStatus) (tea.Model, tea.Cmd) {
	snap := m.store.Snapshot()
	answer := lastAnswer(snap.Messages)
	if answer == nil {
		return m, nil
	}
	if answer.LikeStatus == status {
		status = model.LikeStatusNone
	}
	m.store.UpdateMessage(answer.ID, store.MessagePatch{LikeStatus: &status})
	m.refreshViewport()
	if answer.RemoteID == "" {
		return m, nil
	}
	return m, reactionCmd(m.ctx, m.client, answer.ID, answer.RemoteID, status)
}

// openFeedback opens the rating dialog for the newest answer.
func (m *Model) openFeedback() (tea.Model, tea.Cmd) {
	answer := lastAnswer(m.store.Snapshot().Messages)
	if answer == nil || answer.RemoteID == "" {
		return m, nil
	}
	m.state = StateFeedback
	m.feedbackTarget = answer.ID
	m.feedbackRemote = answer.RemoteID
	m.store.SetFeedbackDialogOpen(true)
	m.input.Reset()
	m.input.Placeholder = "Rating 1-5, then an optional comment..."
	return m, nil
}

// handleFeedbackKey runs the feedback dialog. Input is "<stars>
// <comment>"; Esc cancels.
func (m *Model) handleFeedbackKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Cancel):
		m.closeFeedback()
		return m, nil

	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Submit):
		fb, ok := parseFeedback(m.input.Value())
		if !ok {
			m.toasts.Add("Enter a rating from 1 to 5.", components.ToastKindWarning)
			return m, nil
		}
		target, remote := m.feedbackTarget, m.feedbackRemote
		m.store.UpdateMessage(target, store.MessagePatch{Feedback: &fb})
		m.closeFeedback()
		m.refreshViewport()
		return m, feedbackCmd(m.ctx, m.client, target, remote, fb)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closeFeedback() {
	m.state = StateReady
	m.feedbackTarget = ""
	m.feedbackRemote = ""
	m.store.SetFeedbackDialogOpen(false)
	m.input.Reset()
	m.input.Placeholder = "Ask about Godot..."
}

// parseFeedback reads "<rating> <optional comment>" from the dialog
// input.
func parseFeedback(raw string) (model.Feedback, bool) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return model.Feedback{}, false
	}
	rating, err := strconv.Atoi(fields[0])
	if err != nil {
		return model.Feedback{}, false
	}
	fb := model.Feedback{Rating: rating, Text: strings.Join(fields[1:], " ")}
	if fb.Validate() != nil {
		return model.Feedback{}, false
	}
	return fb, true
}

// handleDeleteKey runs the delete confirmation dialog.
func (m *Model) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := m.store.Snapshot().ActiveChatID
		m.state = StateReady
		m.store.SetDeleteDialogOpen(false)
		if id == "" {
			return m, nil
		}
		m.store.DeleteChatSession(id)
		m.refreshViewport()
		return m, deleteSessionCmd(m.ctx, m.client, id)
	case "n", "N", "esc":
		m.state = StateReady
		m.store.SetDeleteDialogOpen(false)
		return m, nil
	}
	return m, nil
}

// handleExternalAccept re-runs the offered question against community
// sources and marks the session accordingly.
func (m *Model) handleExternalAccept() (tea.Model, tea.Cmd) {
	if !m.offerExternal || m.state == StateWaiting {
		return m, nil
	}
	question, sessionID := m.offerQuestion, m.offerSessionID
	m.offerExternal = false

	used := true
	m.store.UpdateChatSession(sessionID, store.SessionPatch{
		ExternalSourcesUsed: &used,
		Tags:                []string{"reddit"},
	})
	m.store.SetIsLoading(true)
	m.state = StateWaiting
	m.refreshViewport()

	settings := m.store.Snapshot().ChatSettings
	return m, tea.Batch(
		redditQueryCmd(m.ctx, m.client, question, sessionID, settings),
		m.spinner.Tick,
	)
}

// =============================================================================
// COMMAND RESULT HANDLING
// =============================================================================

func (m *Model) handleSessionsLoaded(msg SessionsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.reportError(msg.Err, apperror.ActionSessionLoad)
		return m, nil
	}
	m.store.SetChatSessions(msg.Sessions)
	snap := m.store.Snapshot()
	// A restored active ID that no longer exists on the backend is
	// dropped rather than pointed at a phantom chat.
	if snap.ActiveChatID != "" && snap.SessionByID(snap.ActiveChatID) == nil {
		m.store.SetActiveChatID("")
		m.store.SetMessages(nil)
	}
	m.refreshViewport()
	return m, nil
}

func (m *Model) handleSessionCreated(msg SessionCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		// The local session keeps working; history just won't sync.
		m.reportError(msg.Err, apperror.ActionSessionCreate)
	}
	return m, nil
}

func (m *Model) handleMessagesLoaded(msg MessagesLoadedMsg) (tea.Model, tea.Cmd) {
	m.fetches.done(msg.SessionID)
	if msg.Err != nil {
		if m.ctx.Err() == nil {
			m.reportError(msg.Err, apperror.ActionMessageLoad)
		}
		return m, nil
	}
	// Drop results for a session the user has already left.
	if m.store.Snapshot().ActiveChatID != msg.SessionID {
		return m, nil
	}
	m.store.SetMessages(msg.Messages)
	m.refreshViewport()
	return m, nil
}

func (m *Model) handleQueryResult(msg QueryResultMsg) (tea.Model, tea.Cmd) {
	m.state = StateReady
	m.store.SetIsLoading(false)
	m.store.SetPendingQuery("")

	if msg.Err != nil {
		m.reportError(msg.Err, apperror.ActionQuery)
		m.refreshViewport()
		return m, nil
	}

	answer := model.NewAssistantMessage(msg.Response.Answer, msg.Response.Sources)
	if msg.Response.MessageID != "" {
		answer.RemoteID = msg.Response.MessageID
	}
	if m.store.Snapshot().ActiveChatID == msg.SessionID {
		m.store.AddMessage(answer)
	}

	// An apologetic answer earns the one-shot community-source offer,
	// unless this session already went external.
	if !msg.External && m.insufficiency(msg.Response.Answer) {
		if sess := m.store.Snapshot().SessionByID(msg.SessionID); sess != nil && !sess.ExternalSourcesUsed {
			m.offerExternal = true
			m.offerQuestion = msg.Question
			m.offerSessionID = msg.SessionID
		}
	}

	m.refreshViewport()
	return m, nil
}

func (m *Model) handleReactionSaved(msg ReactionSavedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		// Roll the optimistic update back so the UI matches the backend.
		none := model.LikeStatusNone
		m.store.UpdateMessage(msg.MessageID, store.MessagePatch{LikeStatus: &none})
		m.refreshViewport()
		m.reportError(msg.Err, apperror.ActionMessageReact)
	}
	return m, nil
}
