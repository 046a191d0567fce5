// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the application state for gdchat.
//
// Store is the single source of truth the UI reads from: user identity,
// the session list, the active session, the flat message list for the
// active session, settings, and UI flags. All mutations go through
// action methods; the UI never touches state directly. Each action
// takes the lock, applies a synchronous local mutation, and notifies
// subscribers. Remote side effects (API calls) belong to the callers,
// never the store.
//
// The flat Messages list and the active session's embedded message
// list are kept element-wise identical by routing every message
// mutation through one internal sync helper.
//
// The store is an explicitly constructed value with a lifecycle
// (NewStore → Subscribe → mutate → unsubscribe), injected where
// needed. Tests instantiate isolated instances.
//
// # Key Types
//
//   - State: the full state snapshot
//   - Store: the state container with action methods
//   - Binding: mirrors a persisted subset of state through persist.Adapter
//
// # Usage
//
//	st := store.NewStore()
//	unsub := st.Subscribe(func(s store.State) { render(s) })
//	defer unsub()
//	st.AddMessage(model.NewUserMessage("How do signals work?"))
package store
