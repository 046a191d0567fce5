// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the gdchat TUI.
//
// This file defines keyboard bindings for the chat interface along with
// the shortcut strip rendered in the status bar.
package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the chat interface.
type KeyMap struct {
	Submit      key.Binding
	NewChat     key.Binding
	NextSession key.Binding
	PrevSession key.Binding
	DeleteChat  key.Binding
	Like        key.Binding
	Dislike     key.Binding
	Feedback    key.Binding
	External    key.Binding
	Sidebar     key.Binding
	Theme       key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Cancel      key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default key bindings for the chat interface.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		NewChat: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "new chat"),
		),
		NextSession: key.NewBinding(
			key.WithKeys("ctrl+j"),
			key.WithHelp("C-j", "next chat"),
		),
		PrevSession: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("C-k", "prev chat"),
		),
		DeleteChat: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "delete chat"),
		),
		Like: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "like answer"),
		),
		Dislike: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "dislike answer"),
		),
		Feedback: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("C-f", "rate answer"),
		),
		External: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "search community"),
		),
		Sidebar: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("C-b", "toggle sidebar"),
		),
		Theme: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("C-g", "toggle theme"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn", "scroll down"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// ShortcutHelp returns the (key, description) pairs shown in the status
// bar, in display order.
func (k KeyMap) ShortcutHelp() [][2]string {
	return [][2]string{
		{"Enter", "send"},
		{"C-n", "new chat"},
		{"C-j/C-k", "switch chat"},
		{"C-y/C-t", "react"},
		{"C-f", "rate"},
		{"C-b", "sidebar"},
		{"C-c", "quit"},
	}
}
