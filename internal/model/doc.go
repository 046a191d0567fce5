// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
//
// These types are the vocabulary shared by the store, the API client, and
// the UI: a ChatSession is one conversation thread with metadata, a Message
// is a single user or assistant turn, and the settings types describe user
// preferences for querying the Godot documentation assistant.
//
// # Key Types
//
//   - ChatSession: conversation thread with messages and metadata
//   - Message: one turn (user question or assistant answer)
//   - UserProfile: identity mirror of the signed-in user
//   - ChatSettings / AppSettings: preference value objects
//
// # Invariants
//
//   - ChatSession.UpdatedAt >= ChatSession.CreatedAt
//   - Feedback.Rating, when present, is in [1,5]
//   - ExternalSourcesUsed and tags only transition forward automatically;
//     clearing requires an explicit user action
package model
