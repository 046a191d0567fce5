// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the application state for gdchat.
package store

import (
	"sync"

	"github.com/jeranaias/gdchat-tui/internal/model"
)

// =============================================================================
// STORE
// =============================================================================

// Store is the state container. All action methods are synchronous,
// atomic with respect to each other, and cannot fail: fallibility
// lives in the remote-call layer around the store.
type Store struct {
	mu    sync.Mutex
	state State

	subscribers map[int]func(State)
	nextSubID   int
}

// NewStore creates a store holding the initial state.
func NewStore() *Store {
	return &Store{
		state:       initialState(),
		subscribers: make(map[int]func(State)),
	}
}

// Subscribe registers fn to run after every mutation with a snapshot
// of the new state. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Snapshot returns an independent copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// mutate runs fn under the lock, then notifies subscribers with a
// snapshot taken before the lock is released.
func (s *Store) mutate(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	snapshot := s.state.clone()
	subs := make([]func(State), 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot)
	}
}

// =============================================================================
// IDENTITY ACTIONS
// =============================================================================

// SetUser replaces the signed-in user wholesale. Nil signs out.
func (s *Store) SetUser(user *model.UserProfile) {
	s.mutate(func(st *State) {
		st.User = user
	})
}

// MergeUser reconciles identity from the auth collaborator with what
// the store already holds. Store values win; auth fills gaps. This is
// the single place the precedence rule is evaluated.
func (s *Store) MergeUser(auth model.UserProfile) {
	s.mutate(func(st *State) {
		if st.User == nil {
			u := auth
			st.User = &u
			return
		}
		merged := st.User.MergeFrom(auth)
		st.User = &merged
	})
}

// Reset restores the entire state to its initial shape, used on sign
// out. The persistence binding observes this like any other mutation,
// so a stale persisted session cannot resurrect after reset.
func (s *Store) Reset() {
	s.mutate(func(st *State) {
		*st = initialState()
	})
}

// =============================================================================
// SESSION ACTIONS
// =============================================================================

// SessionPatch carries optional session fields for a merge-style
// update. Only non-nil fields are applied.
type SessionPatch struct {
	Title               *string
	Pinned              *bool
	ExternalSourcesUsed *bool
	Tags                []string // appended, deduplicated
}

// SetChatSessions replaces the session list wholesale.
func (s *Store) SetChatSessions(sessions []*model.ChatSession) {
	s.mutate(func(st *State) {
		st.ChatSessions = sessions
	})
}

// AddChatSession prepends a session, keeping the list newest-first.
func (s *Store) AddChatSession(session *model.ChatSession) {
	s.mutate(func(st *State) {
		st.ChatSessions = append([]*model.ChatSession{session}, st.ChatSessions...)
	})
}

// UpdateChatSession merges fields into the session with the given ID
// and stamps its UpdatedAt. Unknown IDs are ignored.
func (s *Store) UpdateChatSession(id string, patch SessionPatch) {
	s.mutate(func(st *State) {
		sess := st.SessionByID(id)
		if sess == nil {
			return
		}
		if patch.Title != nil {
			sess.Title = *patch.Title
		}
		if patch.Pinned != nil {
			sess.Pinned = *patch.Pinned
		}
		if patch.ExternalSourcesUsed != nil && *patch.ExternalSourcesUsed {
			sess.ExternalSourcesUsed = true
		}
		for _, tag := range patch.Tags {
			sess.AddTag(tag)
		}
		sess.Touch()
	})
}

// DeleteChatSession removes the session with the given ID. If it was
// active, the first remaining session becomes active, or none when the
// list is empty. Recreating a session is the caller's responsibility.
func (s *Store) DeleteChatSession(id string) {
	s.mutate(func(st *State) {
		idx := -1
		for i, sess := range st.ChatSessions {
			if sess.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return
		}
		st.ChatSessions = append(st.ChatSessions[:idx], st.ChatSessions[idx+1:]...)

		if st.ActiveChatID != id {
			return
		}
		if len(st.ChatSessions) > 0 {
			st.ActiveChatID = st.ChatSessions[0].ID
			st.Messages = cloneMessages(st.ChatSessions[0].Messages)
		} else {
			st.ActiveChatID = ""
			st.Messages = nil
		}
	})
}

// SetActiveChatID switches the active session pointer. It deliberately
// does NOT populate the message list: message loading is an
// asynchronous follow-up owned by the remote-fetch layer, keyed off
// the ID change.
func (s *Store) SetActiveChatID(id string) {
	s.mutate(func(st *State) {
		st.ActiveChatID = id
	})
}

// =============================================================================
// MESSAGE ACTIONS
// =============================================================================

// syncActiveSession mirrors the flat message list into the active
// session's embedded list. Every message mutation routes through this
// one helper so the two collections can never diverge.
func (st *State) syncActiveSession() {
	sess := st.ActiveSession()
	if sess == nil {
		return
	}
	sess.Messages = cloneMessages(st.Messages)
	sess.Touch()
}

// SetMessages replaces the flat message list for the active session.
func (s *Store) SetMessages(messages []model.Message) {
	s.mutate(func(st *State) {
		st.Messages = messages
		st.syncActiveSession()
	})
}

// AddMessage appends a message. If this is the active session's first
// message, the session title is derived from the message content.
func (s *Store) AddMessage(message model.Message) {
	s.mutate(func(st *State) {
		first := len(st.Messages) == 0
		st.Messages = append(st.Messages, message)
		st.syncActiveSession()

		if first {
			if sess := st.ActiveSession(); sess != nil {
				sess.DeriveTitle(message.Content)
			}
		}
	})
}

// MessagePatch carries optional message fields for a merge-style
// update. Messages are append-only except for reaction state.
type MessagePatch struct {
	Content    *string
	LikeStatus *model.LikeStatus
	Feedback   *model.Feedback
	RemoteID   *string
	Sources    []model.SourceRef
}

// UpdateMessage merges fields into the message with the given ID.
// Unknown IDs are ignored.
func (s *Store) UpdateMessage(id string, patch MessagePatch) {
	s.mutate(func(st *State) {
		for i := range st.Messages {
			if st.Messages[i].ID != id {
				continue
			}
			if patch.Content != nil {
				st.Messages[i].Content = *patch.Content
			}
			if patch.LikeStatus != nil {
				st.Messages[i].LikeStatus = *patch.LikeStatus
			}
			if patch.Feedback != nil {
				fb := *patch.Feedback
				st.Messages[i].Feedback = &fb
			}
			if patch.RemoteID != nil {
				st.Messages[i].RemoteID = *patch.RemoteID
			}
			if patch.Sources != nil {
				st.Messages[i].Sources = patch.Sources
			}
			break
		}
		st.syncActiveSession()
	})
}

// DeleteMessage removes the message with the given ID.
func (s *Store) DeleteMessage(id string) {
	s.mutate(func(st *State) {
		for i := range st.Messages {
			if st.Messages[i].ID == id {
				st.Messages = append(st.Messages[:i], st.Messages[i+1:]...)
				break
			}
		}
		st.syncActiveSession()
	})
}

// =============================================================================
// SETTINGS AND UI ACTIONS
// =============================================================================

// SetChatSettings merges a partial update into the chat settings.
func (s *Store) SetChatSettings(patch model.ChatSettingsPatch) {
	s.mutate(func(st *State) {
		st.ChatSettings = st.ChatSettings.Apply(patch)
	})
}

// SetAppSettings merges a partial update into the app settings.
func (s *Store) SetAppSettings(patch model.AppSettingsPatch) {
	s.mutate(func(st *State) {
		st.AppSettings = st.AppSettings.Apply(patch)
	})
}

// ToggleTheme switches between light and dark.
func (s *Store) ToggleTheme() {
	s.mutate(func(st *State) {
		if st.AppSettings.Theme == model.ThemeDark {
			st.AppSettings.Theme = model.ThemeLight
		} else {
			st.AppSettings.Theme = model.ThemeDark
		}
	})
}

// ToggleSidebarCollapsed flips the sidebar state.
func (s *Store) ToggleSidebarCollapsed() {
	s.mutate(func(st *State) {
		st.AppSettings.SidebarCollapsed = !st.AppSettings.SidebarCollapsed
	})
}

// SetRightPanelOpen sets the right panel visibility.
func (s *Store) SetRightPanelOpen(open bool) {
	s.mutate(func(st *State) {
		st.AppSettings.RightPanelOpen = open
	})
}

// SetAssistantPanel merges a partial update into the assistant panel.
func (s *Store) SetAssistantPanel(patch model.AssistantPanelPatch) {
	s.mutate(func(st *State) {
		st.AssistantPanel = st.AssistantPanel.Apply(patch)
	})
}

// ToggleAssistantPanel flips the assistant panel open state.
func (s *Store) ToggleAssistantPanel() {
	s.mutate(func(st *State) {
		st.AssistantPanel.Open = !st.AssistantPanel.Open
	})
}

// SetIsLoading sets the global loading flag.
func (s *Store) SetIsLoading(loading bool) {
	s.mutate(func(st *State) {
		st.IsLoading = loading
	})
}

// SetPendingQuery stores query text typed before send.
func (s *Store) SetPendingQuery(query string) {
	s.mutate(func(st *State) {
		st.PendingQuery = query
	})
}

// SetSettingsDialogOpen sets the settings dialog visibility.
func (s *Store) SetSettingsDialogOpen(open bool) {
	s.mutate(func(st *State) {
		st.SettingsDialogOpen = open
	})
}

// SetDeleteDialogOpen sets the delete confirmation dialog visibility.
func (s *Store) SetDeleteDialogOpen(open bool) {
	s.mutate(func(st *State) {
		st.DeleteDialogOpen = open
	})
}

// SetFeedbackDialogOpen sets the feedback dialog visibility.
func (s *Store) SetFeedbackDialogOpen(open bool) {
	s.mutate(func(st *State) {
		st.FeedbackDialogOpen = open
	})
}
