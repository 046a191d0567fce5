// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package apperror classifies failures and routes them to the user.
//
// Every error that reaches the UI goes through Handle: it is classified
// into a severity, translated into a user-facing message keyed by the
// action that failed, recorded in a bounded in-memory log, and passed to
// a notifier (the toast layer). Notifier panics are contained so a bad
// presentation callback can never take down error handling itself.
//
// # Key Types
//
//   - Severity: low / medium / high
//   - AppError: classified error with status and user message
//   - Log: bounded ring of recent errors
//   - Handler: classify + message + notify pipeline
//
// # Usage
//
//	handler := apperror.NewHandler(apperror.NewLog(0), notifier)
//	if err := client.DeleteSession(ctx, id); err != nil {
//		handler.Handle(err, apperror.ActionDeleteSession)
//	}
package apperror
