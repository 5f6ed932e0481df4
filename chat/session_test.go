package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"research-pilot-client/api"
)

// fakeService is a scriptable backend for session tests.
type fakeService struct {
	mu sync.Mutex

	workspaces    []api.Workspace
	workspacesErr error
	papers        []api.Paper
	papersErr     error

	sendFn    func(content string, workspaceID, conversationID int64) (*api.ChatReply, error)
	sendCalls []sendCall
}

type sendCall struct {
	content        string
	workspaceID    int64
	conversationID int64
}

func (f *fakeService) MyWorkspaces(ctx context.Context) ([]api.Workspace, error) {
	return f.workspaces, f.workspacesErr
}

func (f *fakeService) WorkspacePapers(ctx context.Context, workspaceID int64) ([]api.Paper, error) {
	return f.papers, f.papersErr
}

func (f *fakeService) SendChat(ctx context.Context, content string, workspaceID, conversationID int64) (*api.ChatReply, error) {
	f.mu.Lock()
	f.sendCalls = append(f.sendCalls, sendCall{content, workspaceID, conversationID})
	f.mu.Unlock()

	if f.sendFn != nil {
		return f.sendFn(content, workspaceID, conversationID)
	}
	return &api.ChatReply{Response: "reply to " + content, ConversationID: 1}, nil
}

func (f *fakeService) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sendCalls)
}

func TestUnscopedSessionStartsWithGreeting(t *testing.T) {
	s := NewSession(&fakeService{}, nil)

	msgs := s.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 seed message, got %d", len(msgs))
	}
	if msgs[0].Role != RoleAssistant {
		t.Errorf("greeting role = %q, want assistant", msgs[0].Role)
	}
	if !strings.Contains(msgs[0].Content, "research assistant") {
		t.Errorf("unexpected greeting: %s", msgs[0].Content)
	}
	if s.Scoped() {
		t.Error("unscoped session reports Scoped() = true")
	}
}

func TestScopedGreetingEnumeratesPapers(t *testing.T) {
	svc := &fakeService{
		workspaces: []api.Workspace{{ID: 3, Name: "Quantum"}, {ID: 7, Name: "Biology"}},
		papers:     []api.Paper{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}},
	}

	s := NewWorkspaceSession(context.Background(), svc, nil, 7)

	if s.WorkspaceName() != "Biology" {
		t.Errorf("workspace name = %q, want Biology", s.WorkspaceName())
	}

	msgs := s.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 seed message, got %d", len(msgs))
	}
	greeting := msgs[0].Content
	if !strings.Contains(greeting, "2 papers") {
		t.Errorf("greeting missing paper count: %s", greeting)
	}
	if !strings.Contains(greeting, "- A") || !strings.Contains(greeting, "- B") {
		t.Errorf("greeting missing paper titles: %s", greeting)
	}
	if !strings.Contains(greeting, `"Biology"`) {
		t.Errorf("greeting missing workspace name: %s", greeting)
	}
}

func TestScopedGreetingWithNoPapers(t *testing.T) {
	svc := &fakeService{
		workspaces: []api.Workspace{{ID: 7, Name: "Empty"}},
	}

	s := NewWorkspaceSession(context.Background(), svc, nil, 7)

	greeting := s.Messages()[0].Content
	if !strings.Contains(greeting, "0 paper") {
		t.Errorf("greeting missing zero count: %s", greeting)
	}
	if strings.Contains(greeting, "- ") {
		t.Errorf("greeting should list no titles: %s", greeting)
	}
}

func TestScopedSessionToleratesUnknownWorkspace(t *testing.T) {
	svc := &fakeService{
		workspaces: []api.Workspace{{ID: 3, Name: "Other"}},
		papers:     []api.Paper{{ID: 1, Title: "A"}},
	}

	s := NewWorkspaceSession(context.Background(), svc, nil, 99)

	if s.WorkspaceName() != "" {
		t.Errorf("unknown workspace should leave the label empty, got %q", s.WorkspaceName())
	}
	if len(s.Messages()) != 1 {
		t.Fatalf("expected greeting despite unknown workspace")
	}
}

func TestScopedSessionApologizesOnContextFailure(t *testing.T) {
	svc := &fakeService{
		workspaces: []api.Workspace{{ID: 7, Name: "Biology"}},
		papersErr:  errors.New("boom"),
	}

	s := NewWorkspaceSession(context.Background(), svc, nil, 7)

	msgs := s.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Content != contextLoadErrorText {
		t.Errorf("expected apology greeting, got: %s", msgs[0].Content)
	}
	if len(s.Papers()) != 0 {
		t.Error("papers should be empty after a failed load")
	}
}

func TestSendAlternatesRoles(t *testing.T) {
	calls := 0
	svc := &fakeService{
		sendFn: func(content string, _, _ int64) (*api.ChatReply, error) {
			calls++
			if calls == 2 {
				return nil, errors.New("backend down")
			}
			return &api.ChatReply{Response: "ok", ConversationID: 1}, nil
		},
	}
	s := NewSession(svc, nil)

	for _, text := range []string{"first", "second", "third"} {
		if err := s.Send(context.Background(), text); err != nil {
			t.Fatalf("Send(%q) returned %v", text, err)
		}
	}

	msgs := s.Messages()
	if len(msgs) != 7 { // greeting + 3 user/assistant pairs
		t.Fatalf("expected 7 messages, got %d", len(msgs))
	}
	users, assistants := 0, 0
	for i, msg := range msgs {
		if i == 0 {
			continue
		}
		if i%2 == 1 {
			if msg.Role != RoleUser {
				t.Errorf("message %d role = %q, want user", i, msg.Role)
			}
			users++
		} else {
			if msg.Role != RoleAssistant {
				t.Errorf("message %d role = %q, want assistant", i, msg.Role)
			}
			assistants++
		}
	}
	if users != assistants {
		t.Errorf("users = %d, assistants = %d; one reply per send expected", users, assistants)
	}
	if msgs[4].Content != sendErrorText {
		t.Errorf("failed send should append the apology, got: %s", msgs[4].Content)
	}
}

func TestSendRejectsEmptyInput(t *testing.T) {
	svc := &fakeService{}
	s := NewSession(svc, nil)

	for _, text := range []string{"", "   ", "\n\t"} {
		if err := s.Send(context.Background(), text); err != ErrEmptyMessage {
			t.Errorf("Send(%q) = %v, want ErrEmptyMessage", text, err)
		}
	}
	if svc.callCount() != 0 {
		t.Errorf("empty sends made %d network calls", svc.callCount())
	}
	if len(s.Messages()) != 1 {
		t.Error("empty sends must not touch history")
	}
}

func TestSecondSendRejectedWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	svc := &fakeService{
		sendFn: func(string, int64, int64) (*api.ChatReply, error) {
			close(started)
			<-release
			return &api.ChatReply{Response: "done", ConversationID: 1}, nil
		},
	}
	s := NewSession(svc, nil)

	done := make(chan error, 1)
	go func() {
		done <- s.Send(context.Background(), "slow question")
	}()

	<-started
	if err := s.Send(context.Background(), "impatient question"); err != ErrBusy {
		t.Errorf("concurrent Send = %v, want ErrBusy", err)
	}
	if !s.Busy() {
		t.Error("Busy() = false while a send is in flight")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Send returned %v", err)
	}

	if svc.callCount() != 1 {
		t.Errorf("expected 1 outgoing call, got %d", svc.callCount())
	}
	if s.Busy() {
		t.Error("Busy() = true after the send resolved")
	}
}

func TestConversationIDThreadedAcrossTurns(t *testing.T) {
	svc := &fakeService{
		sendFn: func(content string, _, _ int64) (*api.ChatReply, error) {
			return &api.ChatReply{Response: "ok", ConversationID: 42}, nil
		},
	}
	s := NewSession(svc, nil)

	s.Send(context.Background(), "one")
	s.Send(context.Background(), "two")

	if s.ConversationID() != 42 {
		t.Errorf("ConversationID() = %d, want 42", s.ConversationID())
	}
	if svc.sendCalls[0].conversationID != 0 {
		t.Errorf("first turn sent conversation id %d, want 0", svc.sendCalls[0].conversationID)
	}
	if svc.sendCalls[1].conversationID != 42 {
		t.Errorf("second turn sent conversation id %d, want 42", svc.sendCalls[1].conversationID)
	}
}

func TestScopedSendCarriesWorkspaceID(t *testing.T) {
	svc := &fakeService{
		workspaces: []api.Workspace{{ID: 7, Name: "Biology"}},
		papers:     []api.Paper{{ID: 1, Title: "A"}},
	}
	s := NewWorkspaceSession(context.Background(), svc, nil, 7)

	s.Send(context.Background(), "question")

	if svc.sendCalls[0].workspaceID != 7 {
		t.Errorf("scoped send carried workspace id %d, want 7", svc.sendCalls[0].workspaceID)
	}
}

func TestResetIsIdempotent(t *testing.T) {
	svc := &fakeService{
		workspaces: []api.Workspace{{ID: 7, Name: "Biology"}},
		papers:     []api.Paper{{ID: 1, Title: "A"}},
	}
	s := NewWorkspaceSession(context.Background(), svc, nil, 7)

	s.Send(context.Background(), "one")
	s.Send(context.Background(), "two")

	s.Reset()
	first := s.Messages()
	s.Reset()
	second := s.Messages()

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("reset history lengths = %d, %d; want 1, 1", len(first), len(second))
	}
	if first[0].Content != second[0].Content {
		t.Error("double reset produced different greetings")
	}
	if !strings.Contains(first[0].Content, "- A") {
		t.Error("scoped reset greeting should still list the loaded papers")
	}
	if s.ConversationID() != 0 {
		t.Errorf("reset kept conversation id %d", s.ConversationID())
	}

	// The next send starts a new conversation.
	s.Send(context.Background(), "three")
	last := svc.sendCalls[len(svc.sendCalls)-1]
	if last.conversationID != 0 {
		t.Errorf("post-reset send carried conversation id %d, want 0", last.conversationID)
	}
}

func TestResetDropsInFlightReply(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	calls := 0
	svc := &fakeService{
		sendFn: func(string, int64, int64) (*api.ChatReply, error) {
			calls++
			if calls == 1 {
				close(started)
				<-release
			}
			return &api.ChatReply{Response: "stale reply", ConversationID: 42}, nil
		},
	}
	s := NewSession(svc, nil)

	done := make(chan error, 1)
	go func() {
		done <- s.Send(context.Background(), "question")
	}()

	<-started
	s.Reset()
	close(release)

	if err := <-done; err != nil {
		t.Fatalf("Send returned %v", err)
	}

	msgs := s.Messages()
	if len(msgs) != 1 { // the fresh greeting only
		t.Fatalf("expected 1 message after reset, got %d", len(msgs))
	}
	if msgs[0].Content == "stale reply" {
		t.Error("stale reply replaced the reset greeting")
	}
	if s.ConversationID() != 0 {
		t.Errorf("stale reply resurrected conversation id %d", s.ConversationID())
	}
	if s.Busy() {
		t.Error("Busy() = true after the superseded send resolved")
	}

	// The session stays usable and starts a new conversation.
	if err := s.Send(context.Background(), "fresh question"); err != nil {
		t.Fatalf("post-reset Send returned %v", err)
	}
	last := svc.sendCalls[len(svc.sendCalls)-1]
	if last.conversationID != 0 {
		t.Errorf("post-reset send carried conversation id %d, want 0", last.conversationID)
	}
}

func TestCloseDropsInFlightReply(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	svc := &fakeService{
		sendFn: func(string, int64, int64) (*api.ChatReply, error) {
			close(started)
			<-release
			return &api.ChatReply{Response: "late reply", ConversationID: 1}, nil
		},
	}
	s := NewSession(svc, nil)

	done := make(chan error, 1)
	go func() {
		done <- s.Send(context.Background(), "question")
	}()

	<-started
	s.Close()
	close(release)

	if err := <-done; err != nil {
		t.Fatalf("Send returned %v", err)
	}

	msgs := s.Messages()
	if len(msgs) != 2 { // greeting + optimistic user message only
		t.Fatalf("expected 2 messages after torn-down completion, got %d", len(msgs))
	}
	for _, msg := range msgs {
		if msg.Content == "late reply" {
			t.Error("reply was applied to a closed session")
		}
	}

	if err := s.Send(context.Background(), "another"); err != ErrClosed {
		t.Errorf("Send after Close = %v, want ErrClosed", err)
	}
}

func TestOnUpdateFiresForAppends(t *testing.T) {
	svc := &fakeService{}
	s := NewSession(svc, nil)

	updates := make(chan struct{}, 8)
	s.SetOnUpdate(func() {
		updates <- struct{}{}
	})

	if err := s.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send returned %v", err)
	}

	count := 0
	for {
		select {
		case <-updates:
			count++
		case <-time.After(100 * time.Millisecond):
			if count != 2 { // optimistic append + reply
				t.Errorf("expected 2 updates, got %d", count)
			}
			return
		}
	}
}
