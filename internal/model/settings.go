// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

// =============================================================================
// EXTERNAL SOURCES
// =============================================================================

// External source identifiers for the opt-in fallback query path.
const (
	SourceReddit        = "reddit"
	SourceStackOverflow = "stackoverflow"
	SourceGitHub        = "github"
	SourceWeb           = "web"
)

// RedditSort values accepted by the Reddit-flavored query variant.
const (
	RedditSortRelevance = "relevance"
	RedditSortNew       = "new"
	RedditSortTop       = "top"
)

// =============================================================================
// CHAT SETTINGS
// =============================================================================

// ChatSettings holds the per-query preferences sent with each request.
// A plain value object with no identity: the store holds exactly one,
// replaced wholesale or merged field by field.
type ChatSettings struct {
	Model         string  `json:"model"`
	Temperature   float64 `json:"temperature"`
	TopK          int     `json:"top_k"`
	MemoryService string  `json:"memory_service"`

	// Optional narrowing of the documentation corpus
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`

	// Reddit-flavored query options
	RedditUsername string `json:"reddit_username,omitempty"`
	RedditSort     string `json:"reddit_sort,omitempty"`

	// ExternalSources maps source identifiers to whether the user has
	// enabled them for fallback search.
	ExternalSources map[string]bool `json:"external_sources,omitempty"`
}

// DefaultChatSettings returns the settings used before the user changes
// anything.
func DefaultChatSettings() ChatSettings {
	return ChatSettings{
		Model:         "gpt-4o-mini",
		Temperature:   0.2,
		TopK:          5,
		MemoryService: "default",
		RedditSort:    RedditSortRelevance,
		ExternalSources: map[string]bool{
			SourceReddit:        false,
			SourceStackOverflow: false,
			SourceGitHub:        false,
			SourceWeb:           false,
		},
	}
}

// ChatSettingsPatch carries optional fields for a merge-style update.
// Only non-nil fields are applied.
type ChatSettingsPatch struct {
	Model           *string
	Temperature     *float64
	TopK            *int
	MemoryService   *string
	Category        *string
	Subcategory     *string
	RedditUsername  *string
	RedditSort      *string
	ExternalSources map[string]bool // merged key by key
}

// Apply merges the patch into the settings, field by field.
func (s ChatSettings) Apply(p ChatSettingsPatch) ChatSettings {
	if p.Model != nil {
		s.Model = *p.Model
	}
	if p.Temperature != nil {
		s.Temperature = *p.Temperature
	}
	if p.TopK != nil {
		s.TopK = *p.TopK
	}
	if p.MemoryService != nil {
		s.MemoryService = *p.MemoryService
	}
	if p.Category != nil {
		s.Category = *p.Category
	}
	if p.Subcategory != nil {
		s.Subcategory = *p.Subcategory
	}
	if p.RedditUsername != nil {
		s.RedditUsername = *p.RedditUsername
	}
	if p.RedditSort != nil {
		s.RedditSort = *p.RedditSort
	}
	if len(p.ExternalSources) > 0 {
		merged := make(map[string]bool, len(s.ExternalSources)+len(p.ExternalSources))
		for k, v := range s.ExternalSources {
			merged[k] = v
		}
		for k, v := range p.ExternalSources {
			merged[k] = v
		}
		s.ExternalSources = merged
	}
	return s
}

// =============================================================================
// APP SETTINGS
// =============================================================================

// Theme values for the UI.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// AppSettings holds presentation preferences.
type AppSettings struct {
	Theme            string `json:"theme"`
	SidebarCollapsed bool   `json:"sidebar_collapsed"`
	RightPanelOpen   bool   `json:"right_panel_open"`
}

// DefaultAppSettings returns the presentation defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Theme:            ThemeDark,
		SidebarCollapsed: false,
		RightPanelOpen:   false,
	}
}

// AppSettingsPatch carries optional fields for a merge-style update.
type AppSettingsPatch struct {
	Theme            *string
	SidebarCollapsed *bool
	RightPanelOpen   *bool
}

// Apply merges the patch into the settings.
func (s AppSettings) Apply(p AppSettingsPatch) AppSettings {
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.SidebarCollapsed != nil {
		s.SidebarCollapsed = *p.SidebarCollapsed
	}
	if p.RightPanelOpen != nil {
		s.RightPanelOpen = *p.RightPanelOpen
	}
	return s
}

// =============================================================================
// ASSISTANT PANEL
// =============================================================================

// AssistantPanel describes the auxiliary panel showing sources and
// feedback controls for the focused answer.
type AssistantPanel struct {
	Open      bool   `json:"open"`
	MessageID string `json:"message_id,omitempty"`
	Tab       string `json:"tab,omitempty"` // "sources" or "feedback"
}

// AssistantPanelPatch carries optional fields for a merge-style update.
type AssistantPanelPatch struct {
	Open      *bool
	MessageID *string
	Tab       *string
}

// Apply merges the patch into the panel state.
func (a AssistantPanel) Apply(p AssistantPanelPatch) AssistantPanel {
	if p.Open != nil {
		a.Open = *p.Open
	}
	if p.MessageID != nil {
		a.MessageID = *p.MessageID
	}
	if p.Tab != nil {
		a.Tab = *p.Tab
	}
	return a
}
