// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the application state for gdchat.
package store

import (
	"log"

	"github.com/jeranaias/gdchat-tui/internal/model"
	"github.com/jeranaias/gdchat-tui/internal/persist"
)

// =============================================================================
// PERSISTED SUBSET
// =============================================================================

// PersistKey is the name the persisted subset is stored under.
const PersistKey = "app-store"

// PersistVersion tags the persisted shape. Blobs with an older version
// are discarded and replaced by defaults rather than migrated: losing
// local preferences is cheap, crashing on an incompatible shape is not.
const PersistVersion = 1

// persistedState is the subset of State that survives a restart:
// identity, the active session pointer, and settings. The session list
// and message bodies are deliberately excluded so they are always
// refetched fresh from the backend on startup.
type persistedState struct {
	User           *model.UserProfile   `json:"user,omitempty"`
	ActiveChatID   string               `json:"active_chat_id,omitempty"`
	AppSettings    model.AppSettings    `json:"app_settings"`
	ChatSettings   model.ChatSettings   `json:"chat_settings"`
	AssistantPanel model.AssistantPanel `json:"assistant_panel"`
}

// envelope wraps the persisted subset with its version tag.
type envelope struct {
	State   persistedState `json:"state"`
	Version int            `json:"version"`
}

// partialize selects the persisted subset from a full snapshot.
func partialize(s State) persistedState {
	return persistedState{
		User:           s.User,
		ActiveChatID:   s.ActiveChatID,
		AppSettings:    s.AppSettings,
		ChatSettings:   s.ChatSettings,
		AssistantPanel: s.AssistantPanel,
	}
}

// =============================================================================
// BINDING
// =============================================================================

// Binding mirrors the persisted subset of store state through a
// persist.Adapter on every mutation. Writes are best-effort: a failed
// write is logged and the application continues.
type Binding struct {
	adapter *persist.Adapter
	unsub   func()
}

// Bind subscribes to the store and writes the persisted subset on
// every mutation. Call Restore before Bind so the first write does not
// clobber previously saved state with defaults.
func Bind(st *Store, adapter *persist.Adapter) *Binding {
	b := &Binding{adapter: adapter}
	b.unsub = st.Subscribe(func(s State) {
		if err := adapter.Save(PersistKey, envelope{State: partialize(s), Version: PersistVersion}); err != nil {
			log.Printf("store: persisting state: %v", err)
		}
	})
	return b
}

// Close stops mirroring store changes.
func (b *Binding) Close() {
	if b.unsub != nil {
		b.unsub()
		b.unsub = nil
	}
}

// Restore loads the persisted subset into the store. Any
// incompatibility — missing blob, corrupt JSON, stale version — leaves
// the store at its defaults; Restore never fails the startup path.
func Restore(st *Store, adapter *persist.Adapter) {
	var env envelope
	ok, err := adapter.Load(PersistKey, &env)
	if err != nil {
		log.Printf("store: restoring state: %v", err)
	}
	if !ok || env.Version < PersistVersion {
		return
	}

	p := env.State
	st.mutate(func(s *State) {
		s.User = p.User
		s.ActiveChatID = p.ActiveChatID
		s.AppSettings = normalizeAppSettings(p.AppSettings)
		s.ChatSettings = normalizeChatSettings(p.ChatSettings)
		s.AssistantPanel = p.AssistantPanel
	})
}

// normalizeAppSettings backfills zero values left by older blobs.
func normalizeAppSettings(s model.AppSettings) model.AppSettings {
	if s.Theme != model.ThemeLight && s.Theme != model.ThemeDark {
		s.Theme = model.DefaultAppSettings().Theme
	}
	return s
}

// normalizeChatSettings backfills zero values left by older blobs.
func normalizeChatSettings(s model.ChatSettings) model.ChatSettings {
	def := model.DefaultChatSettings()
	if s.Model == "" {
		s.Model = def.Model
	}
	if s.TopK <= 0 {
		s.TopK = def.TopK
	}
	if s.MemoryService == "" {
		s.MemoryService = def.MemoryService
	}
	if s.ExternalSources == nil {
		s.ExternalSources = def.ExternalSources
	}
	return s
}
