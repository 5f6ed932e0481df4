// Package chat holds the conversation session state machine: message
// history, workspace-scoped context assembly, and the single-flight send
// protocol. It is UI-independent; the chat view renders a Session.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"research-pilot-client/api"
	"research-pilot-client/utils"
)

// Service is the slice of the backend gateway a session needs.
// *api.Client satisfies it.
type Service interface {
	MyWorkspaces(ctx context.Context) ([]api.Workspace, error)
	WorkspacePapers(ctx context.Context, workspaceID int64) ([]api.Paper, error)
	SendChat(ctx context.Context, content string, workspaceID, conversationID int64) (*api.ChatReply, error)
}

// Local send rejections. These never reach the network.
var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrBusy         = errors.New("a send is already in flight")
	ErrClosed       = errors.New("session is closed")
)

// Session maintains one message thread, optionally scoped to a workspace.
// Scoping is fixed for the session's lifetime. All methods are safe for
// use from UI goroutines.
type Session struct {
	svc    Service
	logger *utils.Logger

	mu             sync.Mutex
	onUpdate       func()
	workspaceID    int64
	workspaceName  string
	papers         []api.Paper
	conversationID int64
	messages       []Message
	busy           bool
	closed         bool
	// epoch advances on Reset and Close; a completion from an earlier
	// epoch is stale and must not touch the history.
	epoch uint64
}

// NewSession creates an unscoped session seeded with the default greeting.
func NewSession(svc Service, logger *utils.Logger) *Session {
	return &Session{
		svc:      svc,
		logger:   logger,
		messages: []Message{newMessage(RoleAssistant, unscopedGreetingText)},
	}
}

// NewWorkspaceSession creates a session scoped to workspaceID and performs
// best-effort context assembly: the workspace list is scanned for the
// requested id (absence tolerated, the scope label stays empty), the
// workspace's papers are fetched, and the greeting enumerates their titles.
// If either fetch fails the greeting is a fixed apology and the context
// stays empty. No fetch is retried.
func NewWorkspaceSession(ctx context.Context, svc Service, logger *utils.Logger, workspaceID int64) *Session {
	s := &Session{
		svc:         svc,
		logger:      logger,
		workspaceID: workspaceID,
	}

	workspaces, err := svc.MyWorkspaces(ctx)
	if err != nil {
		s.logf("Failed to load workspaces for chat context: %v", err)
		s.messages = []Message{newMessage(RoleAssistant, contextLoadErrorText)}
		return s
	}
	for _, ws := range workspaces {
		if ws.ID == workspaceID {
			s.workspaceName = ws.Name
			break
		}
	}

	papers, err := svc.WorkspacePapers(ctx, workspaceID)
	if err != nil {
		s.logf("Failed to load papers for workspace %d: %v", workspaceID, err)
		s.messages = []Message{newMessage(RoleAssistant, contextLoadErrorText)}
		return s
	}

	s.papers = papers
	s.messages = []Message{newMessage(RoleAssistant, scopedGreeting(s.workspaceName, papers))}
	return s
}

// Send submits one user turn. The user message is appended to history
// before the network call resolves; on success the assistant reply is
// appended, on failure a fixed apology message. Backend errors are
// absorbed, never returned. Send blocks for the duration of the call, so
// callers drive it from a background goroutine.
//
// Empty input and sends issued while another is in flight are rejected
// locally with ErrEmptyMessage and ErrBusy.
func (s *Session) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	s.busy = true
	s.messages = append(s.messages, newMessage(RoleUser, text))
	workspaceID := s.workspaceID
	conversationID := s.conversationID
	epoch := s.epoch
	notify := s.onUpdate
	s.mu.Unlock()

	if notify != nil {
		notify()
	}

	reply, err := s.svc.SendChat(ctx, text, workspaceID, conversationID)

	s.mu.Lock()
	s.busy = false

	// Reset or Close superseded this turn mid-call; drop the result.
	if s.closed || s.epoch != epoch {
		s.mu.Unlock()
		return nil
	}

	if err != nil {
		s.logf("Chat send failed: %v", err)
		s.messages = append(s.messages, newMessage(RoleAssistant, sendErrorText))
	} else {
		if reply.ConversationID != 0 {
			s.conversationID = reply.ConversationID
		}
		s.messages = append(s.messages, newMessage(RoleAssistant, reply.Response))
	}
	notify = s.onUpdate
	s.mu.Unlock()

	if notify != nil {
		notify()
	}
	return nil
}

// Reset replaces the history with a single fresh greeting for the current
// mode. Workspace and paper context are kept; the conversation id is
// cleared so the next send starts a new conversation. A send in flight
// when Reset runs resolves as a no-op. No network calls.
func (s *Session) Reset() {
	s.mu.Lock()
	s.epoch++
	s.conversationID = 0
	if s.workspaceID != 0 {
		s.messages = []Message{newMessage(RoleAssistant, scopedGreeting(s.workspaceName, s.papers))}
	} else {
		s.messages = []Message{newMessage(RoleAssistant, unscopedGreetingText)}
	}
	notify := s.onUpdate
	s.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// SetOnUpdate registers a callback invoked after every history change.
// The callback runs outside the session lock.
func (s *Session) SetOnUpdate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = fn
}

// Close marks the session torn down. A completion arriving after Close is
// discarded instead of mutating dead state.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.closed = true
}

// Busy reports whether a send is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Scoped reports whether the session carries workspace context.
func (s *Session) Scoped() bool {
	return s.workspaceID != 0
}

// WorkspaceID returns the scoping workspace id, or 0 when unscoped.
func (s *Session) WorkspaceID() int64 {
	return s.workspaceID
}

// WorkspaceName returns the scope label. It is empty when the session is
// unscoped, the workspace was not found, or context assembly failed.
func (s *Session) WorkspaceName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workspaceName
}

// Papers returns the papers loaded as context.
func (s *Session) Papers() []api.Paper {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.Paper(nil), s.papers...)
}

// ConversationID returns the id adopted from the backend, or 0 before the
// first successful send.
func (s *Session) ConversationID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}

// Messages returns a snapshot of the history.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

func (s *Session) logf(format string, v ...interface{}) {
	if s.logger != nil {
		s.logger.Error(format, v...)
	}
}
