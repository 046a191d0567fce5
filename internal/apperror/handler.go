// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package apperror classifies failures and routes them to the user.
package apperror

import (
	"fmt"
	"log"
)

// =============================================================================
// ACTIONS
// =============================================================================

// Action tags the operation that failed, selecting the user-facing
// message shown for it.
type Action string

const (
	ActionSessionLoad    Action = "session_load"
	ActionSessionCreate  Action = "session_create"
	ActionSessionUpdate  Action = "session_update"
	ActionSessionDelete  Action = "session_delete"
	ActionMessageLoad    Action = "message_load"
	ActionMessageSend    Action = "message_send"
	ActionMessageReact   Action = "message_react"
	ActionFeedbackSubmit Action = "feedback_submit"
	ActionQuery          Action = "query"
	ActionSourceLoad     Action = "source_load"
	ActionSourceDelete   Action = "source_delete"
	ActionPersistence    Action = "persistence"
	ActionUnknown        Action = "unknown"
)

// actionMessages maps actions to short, actionable user-facing text.
// Anything not listed falls back to the raw error text.
var actionMessages = map[Action]string{
	ActionSessionLoad:    "Failed to load chat sessions. Please try again.",
	ActionSessionCreate:  "Failed to create a new chat. Please try again.",
	ActionSessionUpdate:  "Failed to update the chat. Your change was not saved.",
	ActionSessionDelete:  "Failed to delete the chat. Please try again.",
	ActionMessageLoad:    "Failed to load messages for this chat.",
	ActionMessageSend:    "Failed to send your message. Please try again.",
	ActionMessageReact:   "Failed to save your reaction.",
	ActionFeedbackSubmit: "Failed to submit feedback. Please try again.",
	ActionQuery:          "The assistant could not answer right now. Please try again.",
	ActionSourceLoad:     "Failed to load external sources.",
	ActionSourceDelete:   "Failed to remove the source. Please try again.",
	ActionPersistence:    "Failed to save your settings locally.",
}

// UserMessage returns the message shown to the user for a failed
// action, falling back to the raw error text when no mapping exists.
func UserMessage(err error, action Action) string {
	if msg, ok := actionMessages[action]; ok {
		return msg
	}
	if err != nil {
		return err.Error()
	}
	return "Something went wrong. Please try again."
}

// =============================================================================
// HANDLER
// =============================================================================

// Notifier surfaces a transient user-visible notification. The toast
// layer implements this; tests substitute a recorder.
type Notifier interface {
	Notify(message string, severity Severity)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string, severity Severity)

func (f NotifierFunc) Notify(message string, severity Severity) { f(message, severity) }

// HandleOptions tunes a single Handle call.
type HandleOptions struct {
	// Silent suppresses the user notification; the error is still
	// classified and logged.
	Silent bool

	// OnHandled, if set, runs after the error is logged. A panicking
	// callback is contained and logged, never propagated.
	OnHandled func(logID string)
}

// Handler is the single funnel converting errors into notifications
// and log entries. It never fails regardless of how malformed the
// input error is.
type Handler struct {
	log      *Log
	notifier Notifier
}

// NewHandler creates a handler writing to log and notifying via
// notifier. A nil notifier disables notifications.
func NewHandler(errLog *Log, notifier Notifier) *Handler {
	if errLog == nil {
		errLog = NewLog(0)
	}
	return &Handler{log: errLog, notifier: notifier}
}

// Log exposes the underlying error log for inspection.
func (h *Handler) Log() *Log {
	return h.log
}

// Handle classifies err, records it, notifies the user with the
// action's message, and returns the log entry ID.
func (h *Handler) Handle(err error, action Action) string {
	return h.HandleWith(err, action, HandleOptions{})
}

// HandleWith is Handle with per-call options.
func (h *Handler) HandleWith(err error, action Action, opts HandleOptions) string {
	severity := Classify(err)
	logID := h.log.Record(err, action, severity)

	if !opts.Silent && h.notifier != nil {
		h.notifier.Notify(UserMessage(err, action), severity)
	}

	if opts.OnHandled != nil {
		// RELIABILITY: A panicking callback must not take down error
		// handling itself.
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("apperror: OnHandled callback panicked: %v", r)
				}
			}()
			opts.OnHandled(logID)
		}()
	}

	h.log.MarkHandled(logID)
	return logID
}

// Recover funnels a panic on the current goroutine through Handle with
// a generic message. Use as the last line of defense, not a substitute
// for local handling:
//
//	defer handler.Recover(apperror.ActionUnknown)
func (h *Handler) Recover(action Action) {
	if r := recover(); r != nil {
		err, ok := r.(error)
		if !ok {
			err = &panicError{value: r}
		}
		h.Handle(err, action)
	}
}

// panicError wraps a non-error panic value.
type panicError struct {
	value any
}

func (p *panicError) Error() string {
	return fmt.Sprintf("panic: %v", p.value)
}
