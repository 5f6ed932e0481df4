package api

import (
	"context"
	"net/http"
)

type createWorkspaceRequest struct {
	Name string `json:"name"`
}

// CreateWorkspace creates a workspace owned by the current user.
func (c *Client) CreateWorkspace(ctx context.Context, name string) (*Workspace, error) {
	var ws Workspace
	err := c.doJSON(ctx, http.MethodPost, "/workspace/create", createWorkspaceRequest{Name: name}, &ws)
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

// MyWorkspaces lists the current user's workspaces in backend order.
func (c *Client) MyWorkspaces(ctx context.Context) ([]Workspace, error) {
	var workspaces []Workspace
	if err := c.doJSON(ctx, http.MethodGet, "/workspace/my", nil, &workspaces); err != nil {
		return nil, err
	}
	return workspaces, nil
}
