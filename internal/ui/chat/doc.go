// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the main chat view component for the gdchat TUI.

The chat package implements the conversation screen using the Bubble Tea
framework: a session sidebar, a scrolling transcript, a prompt line, and
a status bar with keyboard shortcuts.

# Key Components

## Model (model.go)

The Model struct is the central Bubble Tea model. Conversation state
itself lives in the application store; the model holds view concerns:
  - Viewport, input field, and spinner components
  - The per-session fetch manager that aborts history loads on switch
  - The one-shot community-source offer raised on insufficient answers

## Update Loop (update.go)

Handles keyboard input and command results:
  - Sending questions and appending answers through the store
  - Session create, switch, and delete (with confirmation)
  - Like/dislike reactions with optimistic update and rollback
  - The feedback rating dialog
  - Dropping stale results for sessions the user has left

## View Rendering (view.go)

Renders the layout: header with the active chat title, markdown-rendered
answers with their source citations, reaction badges, and toasts.

## Messages and Commands (messages.go)

Bubble Tea message types and the commands that produce them. Commands
wrap API client calls; session-scoped fetches carry the session ID so
late arrivals can be discarded.
*/
package chat
