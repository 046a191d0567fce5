// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the gdchat TUI.
//
// This file implements non-blocking toast notifications. Toasts appear
// in the bottom-right corner and auto-dismiss, so the user keeps
// typing while a failed background call announces itself. Severity
// picks both the color and how long the toast stays up.
package components

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/gdchat-tui/internal/apperror"
	"github.com/jeranaias/gdchat-tui/internal/ui/styles"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	// ToastKindStatus is an informational toast (cyan)
	ToastKindStatus ToastKind = iota
	// ToastKindError is an error toast (rose)
	ToastKindError
	// ToastKindWarning is a warning toast (amber)
	ToastKindWarning
	// ToastKindSuccess is a success toast (emerald)
	ToastKindSuccess
)

// Auto-dismiss durations. High-severity failures stay up longer so
// the message can actually be read.
const (
	DefaultToastDuration = 4 * time.Second
	WarningToastDuration = 6 * time.Second
	ErrorToastDuration   = 8 * time.Second
)

// Toast is one non-blocking notification.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// kindForSeverity maps a classified severity onto a toast kind:
// critical/high failures get the prominent error treatment, medium a
// warning, low a neutral status note.
func kindForSeverity(severity apperror.Severity) ToastKind {
	switch severity {
	case apperror.SeverityCritical, apperror.SeverityHigh:
		return ToastKindError
	case apperror.SeverityMedium:
		return ToastKindWarning
	default:
		return ToastKindStatus
	}
}

// durationForKind returns how long a toast of this kind stays up.
func durationForKind(kind ToastKind) time.Duration {
	switch kind {
	case ToastKindError:
		return ErrorToastDuration
	case ToastKindWarning:
		return WarningToastDuration
	default:
		return DefaultToastDuration
	}
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager holds the active toasts. Safe for concurrent use: API
// callbacks add toasts from other goroutines.
type ToastManager struct {
	mu     sync.Mutex
	toasts []Toast
	nextID int
}

// NewToastManager creates an empty manager.
func NewToastManager() *ToastManager {
	return &ToastManager{}
}

// Add creates a toast of the given kind and returns its ID.
func (m *ToastManager) Add(message string, kind ToastKind) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.toasts = append(m.toasts, Toast{
		ID:        m.nextID,
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
		Duration:  durationForKind(kind),
	})
	return m.nextID
}

// Notify implements apperror.Notifier: classified errors surface as
// toasts whose prominence follows their severity.
func (m *ToastManager) Notify(message string, severity apperror.Severity) {
	m.Add(message, kindForSeverity(severity))
}

// Remove dismisses a toast by ID.
func (m *ToastManager) Remove(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.toasts {
		if t.ID == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// Expire drops toasts past their duration and returns the survivors.
func (m *ToastManager) Expire() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if now.Sub(t.CreatedAt) < t.Duration {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
	return m.activeLocked()
}

// Active returns a copy of the live toasts.
func (m *ToastManager) Active() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeLocked()
}

func (m *ToastManager) activeLocked() []Toast {
	out := make([]Toast, len(m.toasts))
	copy(out, m.toasts)
	return out
}

// HasToasts reports whether anything is showing.
func (m *ToastManager) HasToasts() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts) > 0
}

// Clear dismisses everything.
func (m *ToastManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toasts = nil
}

// =============================================================================
// TICK COMMAND
// =============================================================================

// ToastTickMsg drives toast expiry from the bubbletea event loop.
type ToastTickMsg time.Time

// ToastTickCmd schedules the next expiry check.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return ToastTickMsg(t)
	})
}

// =============================================================================
// RENDERING
// =============================================================================

// toastIcons per kind.
var toastIcons = map[ToastKind]string{
	ToastKindStatus:  "i",
	ToastKindError:   "✗",
	ToastKindWarning: "!",
	ToastKindSuccess: "✓",
}

// RenderToast renders a single toast notification.
func RenderToast(toast Toast, width int) string {
	var accent lipgloss.AdaptiveColor
	switch toast.Kind {
	case ToastKindError:
		accent = styles.Rose
	case ToastKindWarning:
		accent = styles.Amber
	case ToastKindSuccess:
		accent = styles.Emerald
	default:
		accent = styles.Cyan
	}

	style := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Foreground(styles.TextPrimary).
		Padding(0, 1).
		MaxWidth(width)

	return style.Render(toastIcons[toast.Kind] + " " + toast.Message)
}

// RenderToastStack renders toasts stacked vertically, newest last.
func RenderToastStack(toasts []Toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(toasts))
	for _, t := range toasts {
		parts = append(parts, RenderToast(t, width))
	}
	return strings.Join(parts, "\n")
}
