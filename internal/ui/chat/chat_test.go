// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"testing"

	"github.com/jeranaias/gdchat-tui/internal/api"
	"github.com/jeranaias/gdchat-tui/internal/apperror"
	"github.com/jeranaias/gdchat-tui/internal/config"
	"github.com/jeranaias/gdchat-tui/internal/model"
	"github.com/jeranaias/gdchat-tui/internal/store"
	"github.com/jeranaias/gdchat-tui/internal/ui/components"
	"github.com/jeranaias/gdchat-tui/internal/ui/styles"
)

// newTestModel builds a chat model against a throwaway backend URL.
// Tests only exercise the update logic and never run the returned
// commands, so nothing is actually dialed.
func newTestModel(t *testing.T) (*Model, *store.Store) {
	t.Helper()
	st := store.NewStore()
	client := api.NewClient(config.Default().API)
	toasts := components.NewToastManager()
	handler := apperror.NewHandler(apperror.NewLog(10), toasts)
	theme := styles.NewTheme(styles.ModeDark)
	m := New(context.Background(), st, client, handler, toasts, theme)
	m.SetSize(100, 30)
	return m, st
}

func TestParseFeedback(t *testing.T) {
	tests := []struct {
		input      string
		wantOK     bool
		wantRating int
		wantText   string
	}{
		{"4", true, 4, ""},
		{"5 answered my exact question", true, 5, "answered my exact question"},
		{"1  too vague", true, 1, "too vague"},
		{"0", false, 0, ""},
		{"6 over the top", false, 0, ""},
		{"great answer", false, 0, ""},
		{"", false, 0, ""},
	}
	for _, tt := range tests {
		fb, ok := parseFeedback(tt.input)
		if ok != tt.wantOK {
			t.Errorf("parseFeedback(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if fb.Rating != tt.wantRating || fb.Text != tt.wantText {
			t.Errorf("parseFeedback(%q) = %+v, want rating %d text %q",
				tt.input, fb, tt.wantRating, tt.wantText)
		}
	}
}

func TestLastAnswer(t *testing.T) {
	messages := []model.Message{
		model.NewUserMessage("how do signals work"),
		model.NewAssistantMessage("first answer", nil),
		model.NewUserMessage("and autoloads?"),
		model.NewAssistantMessage("second answer", nil),
		model.NewUserMessage("pending question"),
	}
	got := lastAnswer(messages)
	if got == nil || got.Content != "second answer" {
		t.Fatalf("lastAnswer = %v, want the newest assistant turn", got)
	}
	if lastAnswer([]model.Message{model.NewUserMessage("hi")}) != nil {
		t.Error("lastAnswer should be nil when no assistant turn exists")
	}
}

func TestFetchManagerCancelsPrevious(t *testing.T) {
	f := &fetchManager{}
	first := f.begin(context.Background(), "sess-a")
	second := f.begin(context.Background(), "sess-b")

	if first.Err() == nil {
		t.Error("starting a new fetch should cancel the previous one")
	}
	if second.Err() != nil {
		t.Error("the new fetch context should still be live")
	}

	f.done("sess-b")
	if second.Err() == nil {
		t.Error("done should release the tracked fetch context")
	}
}

func TestFetchManagerDoneIgnoresStaleSession(t *testing.T) {
	f := &fetchManager{}
	ctx := f.begin(context.Background(), "sess-b")
	f.done("sess-a")
	if ctx.Err() != nil {
		t.Error("done for a different session must not cancel the active fetch")
	}
}

func TestHandleQueryResultAppendsAnswer(t *testing.T) {
	m, st := newTestModel(t)
	sess := model.NewChatSession()
	st.AddChatSession(sess)
	st.SetActiveChatID(sess.ID)
	st.AddMessage(model.NewUserMessage("how do I use signals?"))
	st.SetIsLoading(true)

	m.handleQueryResult(QueryResultMsg{
		SessionID: sess.ID,
		Question:  "how do I use signals?",
		Response: api.QueryResponse{
			Answer:    "Connect them with connect().",
			Sources:   []model.SourceRef{{Source: "signals.rst", Content: "docs"}},
			MessageID: "rec-1",
		},
	})

	snap := st.Snapshot()
	if len(snap.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(snap.Messages))
	}
	answer := snap.Messages[1]
	if answer.IsUser || answer.Content != "Connect them with connect()." {
		t.Errorf("unexpected answer message: %+v", answer)
	}
	if answer.RemoteID != "rec-1" {
		t.Errorf("RemoteID = %q, want rec-1", answer.RemoteID)
	}
	if snap.IsLoading {
		t.Error("IsLoading should clear once the answer lands")
	}
	if m.offerExternal {
		t.Error("a confident answer must not trigger the community-source offer")
	}
}

func TestHandleQueryResultOffersExternalOnApology(t *testing.T) {
	m, st := newTestModel(t)
	sess := model.NewChatSession()
	st.AddChatSession(sess)
	st.SetActiveChatID(sess.ID)

	m.handleQueryResult(QueryResultMsg{
		SessionID: sess.ID,
		Question:  "obscure plugin question",
		Response:  api.QueryResponse{Answer: "I'm sorry, I don't have information about that."},
	})

	if !m.offerExternal {
		t.Fatal("an apologetic answer should trigger the community-source offer")
	}
	if m.offerQuestion != "obscure plugin question" || m.offerSessionID != sess.ID {
		t.Errorf("offer captured %q/%q", m.offerQuestion, m.offerSessionID)
	}
}

func TestHandleQueryResultNoOfferWhenAlreadyExternal(t *testing.T) {
	m, st := newTestModel(t)
	sess := model.NewChatSession()
	sess.MarkExternalSourcesUsed()
	st.AddChatSession(sess)
	st.SetActiveChatID(sess.ID)

	m.handleQueryResult(QueryResultMsg{
		SessionID: sess.ID,
		Question:  "q",
		Response:  api.QueryResponse{Answer: "I'm sorry, I couldn't find anything."},
	})

	if m.offerExternal {
		t.Error("sessions that already went external should not be offered again")
	}
}

func TestHandleQueryResultDropsAnswerForLeftSession(t *testing.T) {
	m, st := newTestModel(t)
	old := model.NewChatSession()
	current := model.NewChatSession()
	st.AddChatSession(old)
	st.AddChatSession(current)
	st.SetActiveChatID(current.ID)

	m.handleQueryResult(QueryResultMsg{
		SessionID: old.ID,
		Question:  "q",
		Response:  api.QueryResponse{Answer: "stale"},
	})

	if len(st.Snapshot().Messages) != 0 {
		t.Error("an answer for a session the user left must not land in the visible transcript")
	}
}

func TestHandleMessagesLoadedDropsStaleSession(t *testing.T) {
	m, st := newTestModel(t)
	a := model.NewChatSession()
	b := model.NewChatSession()
	st.AddChatSession(a)
	st.AddChatSession(b)
	st.SetActiveChatID(b.ID)

	m.handleMessagesLoaded(MessagesLoadedMsg{
		SessionID: a.ID,
		Messages:  []model.Message{model.NewUserMessage("old history")},
	})

	if len(st.Snapshot().Messages) != 0 {
		t.Error("history for a non-active session must be dropped on arrival")
	}
}

func TestHandleExternalAcceptMarksSession(t *testing.T) {
	m, st := newTestModel(t)
	sess := model.NewChatSession()
	st.AddChatSession(sess)
	st.SetActiveChatID(sess.ID)

	m.offerExternal = true
	m.offerQuestion = "plugin question"
	m.offerSessionID = sess.ID

	_, cmd := m.handleExternalAccept()
	if cmd == nil {
		t.Fatal("accepting the offer should issue the community query command")
	}

	snap := st.Snapshot()
	got := snap.SessionByID(sess.ID)
	if !got.ExternalSourcesUsed {
		t.Error("accepting the offer must mark the session as external")
	}
	found := false
	for _, tag := range got.Tags {
		if tag == "reddit" {
			found = true
		}
	}
	if !found {
		t.Errorf("session tags = %v, want reddit provenance tag", got.Tags)
	}
	if m.offerExternal {
		t.Error("the offer is one-shot and should clear on accept")
	}
	if !snap.IsLoading {
		t.Error("accepting the offer starts a query, so loading should be set")
	}
}

func TestCloneEmbeddedIsIndependent(t *testing.T) {
	sess := model.NewChatSession()
	sess.Messages = []model.Message{model.NewUserMessage("hello")}

	out := cloneEmbedded(sess)
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	out[0].Content = "mutated"
	if sess.Messages[0].Content != "hello" {
		t.Error("cloneEmbedded must not alias the session's message slice")
	}
	if cloneEmbedded(nil) != nil {
		t.Error("cloneEmbedded(nil) should be nil")
	}
}
