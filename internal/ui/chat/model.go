// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the gdchat TUI.
package chat

import (
	"context"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/gdchat-tui/internal/api"
	"github.com/jeranaias/gdchat-tui/internal/apperror"
	"github.com/jeranaias/gdchat-tui/internal/model"
	"github.com/jeranaias/gdchat-tui/internal/store"
	"github.com/jeranaias/gdchat-tui/internal/ui/components"
	"github.com/jeranaias/gdchat-tui/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady    State = iota // Ready for input
	StateWaiting               // Waiting on an answer
	StateFeedback              // Feedback dialog open
	StateDelete                // Delete confirmation open
)

// =============================================================================
// FETCH CANCELLATION
// =============================================================================

// fetchManager tracks the context for the in-flight history fetch so a
// session switch can abort it. A pointer field on Model keeps the mutex
// from being copied during Bubble Tea updates.
type fetchManager struct {
	mu        sync.Mutex
	cancel    context.CancelFunc
	sessionID string
}

// begin cancels any in-flight fetch and opens a context for a new one.
func (f *fetchManager) begin(parent context.Context, sessionID string) context.Context {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	f.cancel = cancel
	f.sessionID = sessionID
	return ctx
}

// done clears the tracked fetch if it still belongs to sessionID.
func (f *fetchManager) done(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sessionID == sessionID && f.cancel != nil {
		f.cancel()
		f.cancel = nil
		f.sessionID = ""
	}
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view. All conversation
// state lives in the store; the model holds only view concerns and the
// wiring to the API client.
type Model struct {
	// Application wiring
	store   *store.Store
	client  *api.Client
	handler *apperror.Handler
	toasts  *components.ToastManager

	// Styling
	theme    *styles.Theme
	markdown *components.MarkdownRenderer
	sidebar  *components.Sidebar

	// Dimensions
	width  int
	height int

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Key bindings
	keyMap KeyMap

	// View state
	state State

	// External-source offer: set when the last answer looked
	// insufficient and the user has not yet opted in for this session.
	offerExternal  bool
	offerQuestion  string // question to re-run against community sources
	offerSessionID string

	// Feedback dialog target
	feedbackTarget string // local message ID
	feedbackRemote string // backend record ID

	// History fetch cancellation
	fetches *fetchManager

	// Base context for all commands; cancelled on shutdown.
	ctx context.Context

	// Pluggable so tests can force the offer path.
	insufficiency model.InsufficiencyPredicate
}

// New creates a chat model wired to the given store and API client.
func New(ctx context.Context, st *store.Store, client *api.Client, handler *apperror.Handler, toasts *components.ToastManager, theme *styles.Theme) *Model {
	input := textinput.New()
	input.Placeholder = "Ask about Godot..."
	input.CharLimit = 4000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(80, 20)

	return &Model{
		store:         st,
		client:        client,
		handler:       handler,
		toasts:        toasts,
		theme:         theme,
		markdown:      newMarkdown(78, theme.IsDark),
		sidebar:       components.NewSidebar(theme, 28),
		viewport:      vp,
		input:         input,
		spinner:       sp,
		keyMap:        DefaultKeyMap(),
		state:         StateReady,
		fetches:       &fetchManager{},
		ctx:           ctx,
		insufficiency: model.DefaultInsufficiencyPredicate,
	}
}

// Init loads the session list and, when a session was restored as
// active, its history.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		loadSessionsCmd(m.ctx, m.client),
		components.ToastTickCmd(),
	}
	snap := m.store.Snapshot()
	if snap.ActiveChatID != "" {
		cmds = append(cmds, m.fetchHistory(snap.ActiveChatID))
	}
	return tea.Batch(cmds...)
}

// SetSize updates the layout for a new terminal size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	sidebarWidth := 0
	if !m.store.Snapshot().AppSettings.SidebarCollapsed {
		sidebarWidth = 28
	}
	contentWidth := width - sidebarWidth
	if contentWidth < 20 {
		contentWidth = 20
	}
	m.viewport.Width = contentWidth
	m.viewport.Height = height - 5 // header, input, status bar
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}
	m.input.Width = contentWidth - 4
	m.markdown = newMarkdown(contentWidth-6, m.theme.IsDark)
	m.refreshViewport()
}

// newMarkdown builds a markdown renderer, tolerating failure: a nil
// renderer means the transcript shows raw markdown instead of styled
// output, which beats refusing to start.
func newMarkdown(width int, dark bool) *components.MarkdownRenderer {
	r, err := components.NewMarkdownRenderer(width, dark)
	if err != nil {
		return nil
	}
	return r
}

// renderMarkdown renders content through the markdown renderer, or
// returns it unchanged when no renderer is available.
func (m *Model) renderMarkdown(content string) string {
	if m.markdown == nil {
		return content
	}
	return m.markdown.Render(content)
}

// fetchHistory starts a cancellable history load for sessionID.
func (m *Model) fetchHistory(sessionID string) tea.Cmd {
	ctx := m.fetches.begin(m.ctx, sessionID)
	return loadMessagesCmd(ctx, m.client, sessionID)
}

// lastAnswer returns the newest assistant message, or nil.
func lastAnswer(messages []model.Message) *model.Message {
	for i := len(messages) - 1; i >= 0; i-- {
		if !messages[i].IsUser {
			return &messages[i]
		}
	}
	return nil
}

// reportError funnels a command failure through the error handler and
// surfaces the user-facing text as a toast.
func (m *Model) reportError(err error, action apperror.Action) {
	if err == nil {
		return
	}
	m.handler.Handle(err, action)
}

// refreshViewport re-renders the transcript and keeps the view pinned
// to the bottom.
func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// themeStyle is a convenience for one-off styling in the view.
func themeStyle(color lipgloss.AdaptiveColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(color)
}
