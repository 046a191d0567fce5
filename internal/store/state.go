// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the application state for gdchat.
package store

import (
	"github.com/jeranaias/gdchat-tui/internal/model"
)

// =============================================================================
// STATE
// =============================================================================

// State is the full application state. Snapshots handed to subscribers
// are deep enough copies that readers can never corrupt the store:
// sessions and messages are cloned, settings are plain values.
type State struct {
	// Identity. Nil means signed out.
	User *model.UserProfile

	// Sessions, newest first.
	ChatSessions []*model.ChatSession

	// ActiveChatID points at the session whose messages are shown.
	// Empty means no session is active.
	ActiveChatID string

	// Messages is the flat message list for the active session. It is
	// kept element-wise identical to the active session's embedded
	// list.
	Messages []model.Message

	// Settings
	ChatSettings   model.ChatSettings
	AppSettings    model.AppSettings
	AssistantPanel model.AssistantPanel

	// UI flags
	IsLoading          bool
	PendingQuery       string
	SettingsDialogOpen bool
	DeleteDialogOpen   bool
	FeedbackDialogOpen bool
}

// initialState returns the state a fresh store starts with, also used
// wholesale on reset.
func initialState() State {
	return State{
		ChatSettings:   model.DefaultChatSettings(),
		AppSettings:    model.DefaultAppSettings(),
		AssistantPanel: model.AssistantPanel{},
	}
}

// clone returns an independent copy of the state for subscribers.
func (s State) clone() State {
	out := s

	if s.User != nil {
		u := *s.User
		out.User = &u
	}

	if s.ChatSessions != nil {
		out.ChatSessions = make([]*model.ChatSession, len(s.ChatSessions))
		for i, sess := range s.ChatSessions {
			out.ChatSessions[i] = sess.Clone()
		}
	}

	if s.Messages != nil {
		out.Messages = cloneMessages(s.Messages)
	}

	return out
}

// ActiveSession returns the active session from the snapshot, or nil.
func (s State) ActiveSession() *model.ChatSession {
	if s.ActiveChatID == "" {
		return nil
	}
	for _, sess := range s.ChatSessions {
		if sess.ID == s.ActiveChatID {
			return sess
		}
	}
	return nil
}

// SessionByID returns the session with the given ID, or nil.
func (s State) SessionByID(id string) *model.ChatSession {
	for _, sess := range s.ChatSessions {
		if sess.ID == id {
			return sess
		}
	}
	return nil
}

// cloneMessages deep-copies a message slice.
func cloneMessages(in []model.Message) []model.Message {
	out := make([]model.Message, len(in))
	copy(out, in)
	for i := range out {
		if out[i].Sources != nil {
			srcs := make([]model.SourceRef, len(out[i].Sources))
			copy(srcs, out[i].Sources)
			out[i].Sources = srcs
		}
		if out[i].Feedback != nil {
			fb := *out[i].Feedback
			out[i].Feedback = &fb
		}
	}
	return out
}
