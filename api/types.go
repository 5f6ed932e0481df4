package api

import "fmt"

// User represents the authenticated account returned by /me.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Workspace is a named container of imported papers owned by one user.
type Workspace struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID int64  `json:"owner_id"`
}

// DiscoveredPaper is a search result from the external paper index.
// It has no persistent id until imported into a workspace.
type DiscoveredPaper struct {
	Title     string `json:"title"`
	Abstract  string `json:"abstract"`
	Authors   string `json:"authors,omitempty"`
	Year      int    `json:"year,omitempty"`
	Citations int    `json:"citations,omitempty"`
	URL       string `json:"url,omitempty"`
	HasPDF    bool   `json:"has_pdf,omitempty"`
}

// Paper is a persisted paper record associated with exactly one workspace.
type Paper struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Abstract    string `json:"abstract"`
	Authors     string `json:"authors,omitempty"`
	Year        int    `json:"year,omitempty"`
	Citations   int    `json:"citations,omitempty"`
	URL         string `json:"url,omitempty"`
	WorkspaceID int64  `json:"workspace_id"`
}

// Conversation groups an ordered sequence of chat messages, optionally
// scoped to a workspace.
type Conversation struct {
	ID          int64  `json:"id"`
	WorkspaceID *int64 `json:"workspace_id,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// Message is a single stored chat turn.
type Message struct {
	ID             int64  `json:"id"`
	ConversationID int64  `json:"conversation_id"`
	Role           string `json:"role"` // "user" or "assistant"
	Content        string `json:"content"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// ChatReply is the assistant's answer to one chat turn. ConversationID
// identifies the conversation the backend recorded the turn under; on the
// first turn it is newly allocated.
type ChatReply struct {
	Response       string `json:"response"`
	ConversationID int64  `json:"conversation_id"`
}

// APIError describes a non-2xx backend response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}
