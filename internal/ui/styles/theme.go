// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for gdchat.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// THEME
// =============================================================================

// Theme holds the styled components for the application. It detects
// the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// Application container
	App lipgloss.Style

	// Header
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style

	// Message bubbles
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	SourceBlock     lipgloss.Style
	ExternalMarker  lipgloss.Style

	// Sidebar
	Sidebar           lipgloss.Style
	SessionItem       lipgloss.Style
	SessionItemActive lipgloss.Style
	SessionItemPinned lipgloss.Style
	SessionTimestamp  lipgloss.Style

	// Input
	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// Feedback widgets
	LikeActive    lipgloss.Style
	DislikeActive lipgloss.Style
	RatingStars   lipgloss.Style
}

// ThemeMode selects how the theme resolves light vs dark.
type ThemeMode int

const (
	// ModeAuto detects background from the terminal.
	ModeAuto ThemeMode = iota
	ModeDark
	ModeLight
)

// ParseThemeMode maps a config string onto a mode.
func ParseThemeMode(s string) ThemeMode {
	switch s {
	case "dark":
		return ModeDark
	case "light":
		return ModeLight
	default:
		return ModeAuto
	}
}

// NewTheme creates a theme for the given mode.
func NewTheme(mode ThemeMode) *Theme {
	profile := termenv.ColorProfile()

	isDark := true
	switch mode {
	case ModeLight:
		isDark = false
	case ModeDark:
		isDark = true
	case ModeAuto:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: profile == termenv.TrueColor,
		ColorProfile: profile,
	}
	t.build()
	return t
}

// Toggle flips between dark and light and rebuilds the style set.
func (t *Theme) Toggle() {
	t.IsDark = !t.IsDark
	lipgloss.SetHasDarkBackground(t.IsDark)
	t.build()
}

// build constructs the style set from the palette.
func (t *Theme) build() {
	t.App = lipgloss.NewStyle().
		Background(Surface).
		Foreground(TextPrimary)

	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextPrimary).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().
		Foreground(Blue).
		Bold(true)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(Cyan).
		PaddingLeft(2)
	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(TextPrimary).
		PaddingLeft(2)
	t.SourceBlock = lipgloss.NewStyle().
		Foreground(Emerald).
		PaddingLeft(4)
	t.ExternalMarker = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		PaddingRight(1)
	t.SessionItem = lipgloss.NewStyle().
		Foreground(TextSecondary)
	t.SessionItemActive = lipgloss.NewStyle().
		Foreground(Blue).
		Bold(true)
	t.SessionItemPinned = lipgloss.NewStyle().
		Foreground(Amber)
	t.SessionTimestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Blue).
		Bold(true)
	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)
	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.LikeActive = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)
	t.DislikeActive = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)
	t.RatingStars = lipgloss.NewStyle().
		Foreground(Amber)
}

// SetSize records the terminal dimensions for layout.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}
