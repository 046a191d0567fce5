// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the application state for gdchat.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jeranaias/gdchat-tui/internal/model"
	"github.com/jeranaias/gdchat-tui/internal/persist"
)

func newTestAdapter(t *testing.T) *persist.Adapter {
	t.Helper()
	a, err := persist.NewAdapterAt(t.TempDir())
	if err != nil {
		t.Fatalf("NewAdapterAt failed: %v", err)
	}
	return a
}

func TestBinding_RoundTrip(t *testing.T) {
	adapter := newTestAdapter(t)

	s := NewStore()
	binding := Bind(s, adapter)
	s.SetUser(&model.UserProfile{ID: "u1", Username: "gdscripter"})
	s.SetActiveChatID("sess_123")
	s.ToggleTheme()
	topK := 8
	s.SetChatSettings(model.ChatSettingsPatch{TopK: &topK})
	binding.Close()

	// A fresh store restores the persisted subset.
	restored := NewStore()
	Restore(restored, adapter)

	snap := restored.Snapshot()
	if snap.User == nil || snap.User.Username != "gdscripter" {
		t.Errorf("User = %+v", snap.User)
	}
	if snap.ActiveChatID != "sess_123" {
		t.Errorf("ActiveChatID = %q", snap.ActiveChatID)
	}
	if snap.AppSettings.Theme != model.ThemeLight {
		t.Errorf("Theme = %q", snap.AppSettings.Theme)
	}
	if snap.ChatSettings.TopK != 8 {
		t.Errorf("TopK = %d", snap.ChatSettings.TopK)
	}
}

func TestBinding_ExcludesSessionsAndMessages(t *testing.T) {
	adapter := newTestAdapter(t)

	s := NewStore()
	binding := Bind(s, adapter)
	sess := model.NewChatSession()
	s.AddChatSession(sess)
	s.SetActiveChatID(sess.ID)
	s.AddMessage(model.NewUserMessage("not persisted"))
	binding.Close()

	raw, err := os.ReadFile(filepath.Join(adapter.BaseDir, PersistKey+".json"))
	if err != nil {
		t.Fatal(err)
	}
	var blob map[string]json.RawMessage
	if err := json.Unmarshal(raw, &blob); err != nil {
		t.Fatal(err)
	}
	var state map[string]json.RawMessage
	if err := json.Unmarshal(blob["state"], &state); err != nil {
		t.Fatal(err)
	}

	if _, ok := state["chat_sessions"]; ok {
		t.Error("Session list must not be persisted")
	}
	if _, ok := state["messages"]; ok {
		t.Error("Message bodies must not be persisted")
	}
	if _, ok := state["active_chat_id"]; !ok {
		t.Error("Active session pointer should be persisted")
	}

	// The restored store refetches sessions rather than trusting disk.
	restored := NewStore()
	Restore(restored, adapter)
	if len(restored.Snapshot().ChatSessions) != 0 {
		t.Error("Sessions should come back empty, pending a refetch")
	}
}

func TestBinding_VersionEnvelope(t *testing.T) {
	adapter := newTestAdapter(t)

	s := NewStore()
	binding := Bind(s, adapter)
	s.SetIsLoading(true)
	binding.Close()

	var env envelope
	ok, err := adapter.Load(PersistKey, &env)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if env.Version != PersistVersion {
		t.Errorf("Version = %d, want %d", env.Version, PersistVersion)
	}
}

func TestRestore_DiscardsStaleVersion(t *testing.T) {
	adapter := newTestAdapter(t)

	// Version 0 blob from an old build: discarded wholesale.
	err := adapter.Save(PersistKey, envelope{
		State:   persistedState{ActiveChatID: "sess_stale"},
		Version: 0,
	})
	if err != nil {
		t.Fatal(err)
	}

	s := NewStore()
	Restore(s, adapter)

	snap := s.Snapshot()
	if snap.ActiveChatID != "" {
		t.Errorf("Stale blob should be discarded, got ActiveChatID %q", snap.ActiveChatID)
	}
	if snap.ChatSettings.Model != model.DefaultChatSettings().Model {
		t.Error("Defaults should survive a discarded blob")
	}
}

func TestRestore_CorruptBlobFallsBackToDefaults(t *testing.T) {
	adapter := newTestAdapter(t)
	path := filepath.Join(adapter.BaseDir, PersistKey+".json")
	if err := os.WriteFile(path, []byte("{\"state\": 42"), 0600); err != nil {
		t.Fatal(err)
	}

	s := NewStore()
	Restore(s, adapter) // must not panic

	snap := s.Snapshot()
	if snap.AppSettings.Theme != model.DefaultAppSettings().Theme {
		t.Error("Corrupt blob should leave defaults in place")
	}
}

func TestRestore_MissingBlobIsFine(t *testing.T) {
	adapter := newTestAdapter(t)

	s := NewStore()
	Restore(s, adapter)

	if s.Snapshot().ChatSettings.TopK != model.DefaultChatSettings().TopK {
		t.Error("Missing blob should leave defaults in place")
	}
}

func TestRestore_NormalizesPartialSettings(t *testing.T) {
	adapter := newTestAdapter(t)

	// A hand-edited blob missing most settings fields.
	err := adapter.Save(PersistKey, envelope{
		State: persistedState{
			ChatSettings: model.ChatSettings{Temperature: 0.7},
			AppSettings:  model.AppSettings{Theme: "neon"},
		},
		Version: PersistVersion,
	})
	if err != nil {
		t.Fatal(err)
	}

	s := NewStore()
	Restore(s, adapter)

	snap := s.Snapshot()
	if snap.ChatSettings.Temperature != 0.7 {
		t.Error("Stored values should survive normalization")
	}
	if snap.ChatSettings.Model == "" || snap.ChatSettings.TopK <= 0 {
		t.Errorf("Zero fields should backfill: %+v", snap.ChatSettings)
	}
	if snap.AppSettings.Theme != model.ThemeDark {
		t.Errorf("Unknown theme should normalize, got %q", snap.AppSettings.Theme)
	}
}

func TestBinding_ResetClearsPersistedSubset(t *testing.T) {
	adapter := newTestAdapter(t)

	s := NewStore()
	binding := Bind(s, adapter)
	s.SetUser(&model.UserProfile{ID: "u1"})
	s.SetActiveChatID("sess_123")

	// Sign-out must not leave a stale session to resurrect on reload.
	s.Reset()
	binding.Close()

	restored := NewStore()
	Restore(restored, adapter)

	snap := restored.Snapshot()
	if snap.User != nil {
		t.Error("User should not survive reset")
	}
	if snap.ActiveChatID != "" {
		t.Errorf("ActiveChatID = %q, want empty after reset", snap.ActiveChatID)
	}
}
