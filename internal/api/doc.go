// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the client for the Godot documentation assistant backend.
//
// Every endpoint returns a {data, success, message} envelope. The client
// unwraps it and converts failures into *APIError values carrying the
// HTTP status, which the apperror package classifies into severities.
// Transient failures (5xx, transport errors) are retried with
// exponential backoff; 4xx responses are returned immediately.
//
// List endpoints are cached with short TTLs and invalidated on any
// mutation that could stale them. Query responses are cached by
// normalized question + settings.
//
// All calls take a context; aborting an in-flight fetch (e.g. the user
// switched sessions) is done by cancelling it.
//
// # Key Types
//
//   - Client: the API client
//   - APIError: classified failure carrying an HTTP status
//   - QueryRequest / QueryResponse: the RAG query exchange
//
// # Usage
//
//	client := api.NewClient(cfg.API)
//	resp, err := client.Query(ctx, api.QueryRequest{Question: "what is a signal?"})
package api
