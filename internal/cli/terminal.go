// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection and handling for the gdchat CLI.
//
// USABILITY: TTY detection for proper terminal handling
//
// Interactive terminals get colors, prompts, and rendered markdown;
// piped output gets plain text so the answers stay grep-able.
package cli

import (
	"os"

	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY returns true if stdin is a terminal. Interactive prompts are
// only possible when this holds.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal. Colored and
// markdown-rendered output is only used when this holds.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// =============================================================================
// TERMINAL WIDTH
// =============================================================================

const defaultTerminalWidth = 80

// TerminalWidth returns the current terminal width, or a sane default
// when stdout is not a terminal.
func TerminalWidth() int {
	if !IsStdoutTTY() {
		return defaultTerminalWidth
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultTerminalWidth
	}
	return width
}

// ColorEnabled reports whether colored output should be produced,
// honoring NO_COLOR.
func ColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return IsStdoutTTY()
}
