package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

type chatRequest struct {
	Content string `json:"content"`
}

// SendChat sends one user turn to the assistant. workspaceID scopes the
// reply to a workspace's papers and conversationID continues an existing
// conversation; either may be zero to omit it. When conversationID is
// zero the backend allocates a new conversation and returns its id.
func (c *Client) SendChat(ctx context.Context, content string, workspaceID, conversationID int64) (*ChatReply, error) {
	params := url.Values{}
	if workspaceID != 0 {
		params.Set("workspace_id", strconv.FormatInt(workspaceID, 10))
	}
	if conversationID != 0 {
		params.Set("conversation_id", strconv.FormatInt(conversationID, 10))
	}

	path := "/chat"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var reply ChatReply
	if err := c.doJSON(ctx, http.MethodPost, path, chatRequest{Content: content}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// Conversations lists the current user's conversations.
func (c *Client) Conversations(ctx context.Context) ([]Conversation, error) {
	var conversations []Conversation
	if err := c.doJSON(ctx, http.MethodGet, "/conversations", nil, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// ConversationMessages lists a conversation's messages in creation order.
func (c *Client) ConversationMessages(ctx context.Context, conversationID int64) ([]Message, error) {
	var messages []Message
	path := fmt.Sprintf("/conversation/%d/messages", conversationID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// DeleteConversation deletes a conversation and its messages.
func (c *Client) DeleteConversation(ctx context.Context, conversationID int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/conversation/%d", conversationID), nil, nil)
}
