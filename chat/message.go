package chat

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"research-pilot-client/api"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn held in session history. IDs are generated
// locally; ordering is append order.
type Message struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

func newMessage(role, content string) Message {
	return Message{
		ID:      uuid.NewString(),
		Role:    role,
		Content: content,
	}
}

const unscopedGreetingText = "Hello! I'm your AI research assistant. You can ask me to summarize papers, compare research, or answer questions about your imported papers. How can I help you today?"

const contextLoadErrorText = "Sorry, I had trouble loading the workspace papers. Please try again."

const sendErrorText = "Sorry, I encountered an error. Please try again."

// scopedGreeting enumerates the count and titles of the papers loaded as
// conversational grounding.
func scopedGreeting(workspaceName string, papers []api.Paper) string {
	titles := make([]string, len(papers))
	for i, p := range papers {
		titles[i] = "- " + p.Title
	}

	plural := ""
	if len(papers) > 1 {
		plural = "s"
	}

	return fmt.Sprintf(
		"Hello! I've loaded %d paper%s from the %q workspace:\n\n%s\n\nI can help you analyze these papers, compare findings, summarize content, or answer specific questions. What would you like to know?",
		len(papers), plural, workspaceName, strings.Join(titles, "\n"),
	)
}
