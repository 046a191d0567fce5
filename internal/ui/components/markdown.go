// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the gdchat TUI.
package components

import (
	"log"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// MarkdownRenderer renders assistant answers (markdown with GDScript
// code blocks) for the terminal.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// NewMarkdownRenderer creates a renderer for the given width and theme.
func NewMarkdownRenderer(width int, dark bool) (*MarkdownRenderer, error) {
	style := "light"
	if dark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return nil, err
	}
	return &MarkdownRenderer{renderer: r, width: width}, nil
}

// Render converts markdown to styled terminal output.
//
// RELIABILITY: This is the render boundary around answer content. A
// malformed answer must never take the whole view down, so any render
// failure — error or panic — degrades to the raw text.
func (m *MarkdownRenderer) Render(content string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("markdown: render panic contained: %v", r)
			out = content
		}
	}()

	if m.renderer == nil {
		return content
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		log.Printf("markdown: render failed: %v", err)
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

// =============================================================================
// CODE HIGHLIGHTING
// =============================================================================

// HighlightCode renders a standalone code snippet with syntax
// highlighting. Unknown languages fall back to plain text; GDScript
// snippets without a language tag are assumed to be GDScript.
func HighlightCode(code, lang string, dark bool) string {
	if lang == "" {
		lang = "gdscript"
	}
	style := "github"
	if dark {
		style = "monokai"
	}

	var buf strings.Builder
	if err := quick.Highlight(&buf, code, lang, "terminal256", style); err != nil {
		return code
	}
	return buf.String()
}
