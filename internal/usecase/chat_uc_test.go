package usecase

import (
	"context"
	"errors"
	"testing"

	"marketing-automation/internal/domain"
	"marketing-automation/internal/domain/model"
	"marketing-automation/internal/domain/ports/adapter"
)

// ---- Fakes ----

type fakeAgent struct {
	replies []any
	errs    []error
	calls   int
	lastSID string
	lastMsg string
}

func (f *fakeAgent) Ask(ctx context.Context, sessionID, message string) (any, error) {
	i := f.calls
	f.calls++
	f.lastSID = sessionID
	f.lastMsg = message
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	var reply any
	if i < len(f.replies) {
		reply = f.replies[i]
	}
	return reply, err
}

func TestChatSendNormalizesReply(t *testing.T) {
	agent := &fakeAgent{replies: []any{map[string]any{"output": "the answer"}}}
	uc := NewChatUseCase(agent, nil)

	reply, sid, err := uc.Send(context.Background(), "sess-1", "  what is up  ")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply != "the answer" {
		t.Fatalf("reply = %q", reply)
	}
	if sid != "sess-1" {
		t.Fatalf("sid = %q", sid)
	}
	if agent.lastMsg != "what is up" {
		t.Fatalf("message not trimmed: %q", agent.lastMsg)
	}
}

func TestChatSendAssignsSessionID(t *testing.T) {
	agent := &fakeAgent{replies: []any{"ok"}}
	uc := NewChatUseCase(agent, nil)

	_, sid, err := uc.Send(context.Background(), "", "hello")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if sid == "" {
		t.Fatal("expected an assigned session id")
	}
	if agent.lastSID != sid {
		t.Fatalf("agent saw %q, caller got %q", agent.lastSID, sid)
	}
}

func TestChatSendEmptyMessageRejected(t *testing.T) {
	uc := NewChatUseCase(&fakeAgent{}, nil)
	if _, _, err := uc.Send(context.Background(), "s", "   "); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestChatUpstreamFailureBecomesAssistantReply(t *testing.T) {
	agent := &fakeAgent{errs: []error{&adapter.UpstreamError{Status: 502, Body: "workflow not active"}}}
	uc := NewChatUseCase(agent, nil)

	reply, _, err := uc.Send(context.Background(), "s", "hi")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply != "Error: workflow not active" {
		t.Fatalf("reply = %q", reply)
	}

	conv, err := uc.History(context.Background(), "s")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	last := conv.Last()
	if last == nil || last.Role != model.RoleAssistant || last.Content != reply {
		t.Fatalf("error reply not recorded in history: %+v", last)
	}
}

func TestChatNetworkFailureBecomesAssistantReply(t *testing.T) {
	agent := &fakeAgent{errs: []error{errors.New("dial tcp: connection refused")}}
	uc := NewChatUseCase(agent, nil)

	reply, _, err := uc.Send(context.Background(), "s", "hi")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply != "Network error: dial tcp: connection refused" {
		t.Fatalf("reply = %q", reply)
	}

	// The conversation stays usable: the next turn goes through normally.
	agent.replies = []any{nil, "recovered"}
	agent.errs = []error{nil, nil}
	reply, _, err = uc.Send(context.Background(), "s", "again")
	if err != nil {
		t.Fatalf("Send after failure: %v", err)
	}
	if reply != "recovered" {
		t.Fatalf("reply = %q", reply)
	}
}

func TestChatHistoryOrderAndRoles(t *testing.T) {
	agent := &fakeAgent{replies: []any{"a1", "a2"}}
	uc := NewChatUseCase(agent, nil)

	ctx := context.Background()
	if _, _, err := uc.Send(ctx, "s", "q1"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if _, _, err := uc.Send(ctx, "s", "q2"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	conv, err := uc.History(ctx, "s")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	want := []struct{ role, content string }{
		{model.RoleUser, "q1"},
		{model.RoleAssistant, "a1"},
		{model.RoleUser, "q2"},
		{model.RoleAssistant, "a2"},
	}
	if len(conv.Messages) != len(want) {
		t.Fatalf("history has %d messages, want %d", len(conv.Messages), len(want))
	}
	for i, w := range want {
		if conv.Messages[i].Role != w.role || conv.Messages[i].Content != w.content {
			t.Fatalf("message %d = %+v, want %+v", i, conv.Messages[i], w)
		}
	}
}

func TestChatDuplicateAssistantReplySuppressed(t *testing.T) {
	// The agent answers two distinct turns with the same text, but the
	// second user message sits between them, so nothing is suppressed.
	agent := &fakeAgent{replies: []any{"same", "same"}}
	uc := NewChatUseCase(agent, nil)

	ctx := context.Background()
	_, _, _ = uc.Send(ctx, "s", "q1")
	_, _, _ = uc.Send(ctx, "s", "q2")

	conv, _ := uc.History(ctx, "s")
	if len(conv.Messages) != 4 {
		t.Fatalf("history has %d messages, want 4 (no suppression across a user turn)", len(conv.Messages))
	}
}

func TestChatHistoryUnknownSession(t *testing.T) {
	uc := NewChatUseCase(&fakeAgent{}, nil)
	if _, err := uc.History(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := uc.History(context.Background(), ""); !errors.Is(err, domain.ErrSessionRequired) {
		t.Fatalf("err = %v, want ErrSessionRequired", err)
	}
}
