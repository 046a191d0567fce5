// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the client for the Godot documentation assistant backend.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jeranaias/gdchat-tui/internal/config"
	"github.com/jeranaias/gdchat-tui/internal/model"
)

// newTestClient points a client at a test server with fast retries and
// no rate limiting.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(config.APIConfig{
		BaseURL:      srv.URL,
		TimeoutSecs:  5,
		MaxRetries:   3,
		RetryDelayMs: 1,
	})
	return client, srv
}

// writeEnvelope writes a success envelope around data.
func writeEnvelope(w http.ResponseWriter, data any) {
	raw, _ := json.Marshal(data)
	json.NewEncoder(w).Encode(map[string]any{
		"data":    json.RawMessage(raw),
		"success": true,
	})
}

func TestQuery_UnwrapsEnvelope(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/query" || r.Method != http.MethodPost {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req QueryRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Question != "what is a signal?" {
			t.Errorf("Question = %q", req.Question)
		}
		writeEnvelope(w, QueryResponse{
			Answer:  "A signal is an observer-pattern event.",
			Sources: []model.SourceRef{{Source: "godot-docs", Content: "Signals are..."}},
		})
	}))

	resp, err := client.Query(context.Background(), "what is a signal?", "", model.DefaultChatSettings())
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if resp.Answer == "" || len(resp.Sources) != 1 {
		t.Errorf("Response = %+v", resp)
	}
}

func TestQuery_ServedFromCache(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeEnvelope(w, QueryResponse{Answer: "cached answer"})
	}))

	settings := model.DefaultChatSettings()
	for i := 0; i < 3; i++ {
		// Spelling variants share a cache slot.
		question := []string{"How do signals work?", "how do signals work?", " how do signals  work? "}[i]
		if _, err := client.Query(context.Background(), question, "", settings); err != nil {
			t.Fatal(err)
		}
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("Backend calls = %d, want 1", got)
	}
}

func TestRetry_On5xxThenSuccess(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeEnvelope(w, QueryResponse{Answer: "finally"})
	}))

	resp, err := client.Query(context.Background(), "q", "", model.DefaultChatSettings())
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if resp.Answer != "finally" {
		t.Errorf("Answer = %q", resp.Answer)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("Calls = %d, want 3", got)
	}
}

func TestNoRetry_On4xx(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "question is empty",
		})
	}))

	_, err := client.Query(context.Background(), "", "", model.DefaultChatSettings())
	if err == nil {
		t.Fatal("Expected an error")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("Calls = %d, want 1 (4xx must not retry)", got)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Error = %v, want *APIError", err)
	}
	if apiErr.Status != 422 || apiErr.Message != "question is empty" {
		t.Errorf("APIError = %+v", apiErr)
	}
}

func TestSentinelErrors(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	err := client.DeleteSession(context.Background(), "sess_missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Error = %v, want ErrNotFound", err)
	}
}

func TestEnvelopeFailure_BecomesAPIError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "backend says no",
			"code":    "REFUSED",
		})
	}))

	_, err := client.ListSources(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Error = %v, want *APIError", err)
	}
	if apiErr.Code != "REFUSED" {
		t.Errorf("Code = %q", apiErr.Code)
	}
}

func TestListSessions_CachedAndInvalidated(t *testing.T) {
	var listCalls int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/sessions":
			atomic.AddInt32(&listCalls, 1)
			writeEnvelope(w, []SessionRecord{{ID: "sess_1", Title: "Signals"}})
		case r.Method == http.MethodDelete:
			writeEnvelope(w, struct{}{})
		default:
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		sessions, err := client.ListSessions(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(sessions) != 1 || sessions[0].Title != "Signals" {
			t.Fatalf("Sessions = %+v", sessions)
		}
	}
	if got := atomic.LoadInt32(&listCalls); got != 1 {
		t.Errorf("List calls = %d, want 1 (cached)", got)
	}

	// Deleting invalidates the list cache.
	if err := client.DeleteSession(ctx, "sess_1"); err != nil {
		t.Fatal(err)
	}
	if _, err := client.ListSessions(ctx); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt32(&listCalls); got != 2 {
		t.Errorf("List calls = %d, want 2 after invalidation", got)
	}
}

func TestListMessages_SplitsQARecords(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, []MessageRecord{{
			ID:       "rec_1",
			Question: "How do I rotate a node?",
			Answer:   "Set rotation_degrees.",
			Sources:  []model.SourceRef{{Source: "docs", Content: "Node2D..."}},
		}})
	}))

	messages, err := client.ListMessages(context.Background(), "sess_1")
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 2 {
		t.Fatalf("Messages = %d, want 2", len(messages))
	}

	q, a := messages[0], messages[1]
	if q.ID != "rec_1-question" || !q.IsUser {
		t.Errorf("Question = %+v", q)
	}
	if a.ID != "rec_1-answer" || a.IsUser {
		t.Errorf("Answer = %+v", a)
	}
	if a.RemoteID != "rec_1" || len(a.Sources) != 1 {
		t.Errorf("Answer metadata = %+v", a)
	}
}

func TestSubmitFeedback_ValidatesBeforeNetwork(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeEnvelope(w, struct{}{})
	}))

	err := client.SubmitFeedback(context.Background(), "rec_1", model.Feedback{Rating: 9})
	if err == nil {
		t.Fatal("Out-of-range rating should fail")
	}
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("Calls = %d, want 0 (validation is local)", got)
	}

	if err := client.SubmitFeedback(context.Background(), "rec_1", model.Feedback{Text: "great", Rating: 5}); err != nil {
		t.Fatalf("Valid feedback failed: %v", err)
	}
}

func TestQuery_AbortedByContext(t *testing.T) {
	started := make(chan struct{})
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server starts its background read and
		// can observe the client disconnect; otherwise r.Context() is
		// never cancelled and srv.Close deadlocks in t.Cleanup.
		io.Copy(io.Discard, r.Body)
		close(started)
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := client.Query(ctx, "slow question", "", model.DefaultChatSettings())
	if err == nil {
		t.Fatal("Cancelled query should fail")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Error = %v, want context.Canceled in chain", err)
	}
}

func TestClient_TimeoutConfigApplied(t *testing.T) {
	client := NewClient(config.APIConfig{BaseURL: "http://localhost:1", TimeoutSecs: 7})
	if client.httpClient.Timeout != 7*time.Second {
		t.Errorf("Timeout = %v, want 7s", client.httpClient.Timeout)
	}
}

func TestErrorFromResponse_FallbackMessage(t *testing.T) {
	err := errorFromResponse(500, []byte("upstream exploded"))
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Error = %v", err)
	}
	if apiErr.Message != "upstream exploded" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if fmt.Sprintf("%v", apiErr) == "" {
		t.Error("Error string should not be empty")
	}
}
