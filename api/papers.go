package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

type searchResponse struct {
	Papers []DiscoveredPaper `json:"papers"`
	Note   string            `json:"note,omitempty"`
}

// ImportPaperRequest is a discovered paper plus its destination workspace.
type ImportPaperRequest struct {
	Title       string `json:"title"`
	Abstract    string `json:"abstract"`
	Authors     string `json:"authors,omitempty"`
	Year        int    `json:"year,omitempty"`
	Citations   int    `json:"citations,omitempty"`
	URL         string `json:"url,omitempty"`
	WorkspaceID int64  `json:"workspace_id"`
}

// SearchPapers queries the external paper index. Result order is the
// index's relevance ranking and is preserved as-is.
func (c *Client) SearchPapers(ctx context.Context, query string) ([]DiscoveredPaper, error) {
	var resp searchResponse
	path := "/papers/search?query=" + url.QueryEscape(query)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Papers, nil
}

// ImportPaper copies a discovered paper into a workspace as a persisted
// record. The discovered form is unaffected.
func (c *Client) ImportPaper(ctx context.Context, paper DiscoveredPaper, workspaceID int64) (*Paper, error) {
	req := ImportPaperRequest{
		Title:       paper.Title,
		Abstract:    paper.Abstract,
		Authors:     paper.Authors,
		Year:        paper.Year,
		Citations:   paper.Citations,
		URL:         paper.URL,
		WorkspaceID: workspaceID,
	}

	var imported Paper
	if err := c.doJSON(ctx, http.MethodPost, "/papers/import", req, &imported); err != nil {
		return nil, err
	}
	return &imported, nil
}

// WorkspacePapers lists the papers imported into a workspace.
func (c *Client) WorkspacePapers(ctx context.Context, workspaceID int64) ([]Paper, error) {
	var papers []Paper
	path := fmt.Sprintf("/papers/workspace/%d", workspaceID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &papers); err != nil {
		return nil, err
	}
	return papers, nil
}

// DeletePaper removes an imported paper from its workspace.
func (c *Client) DeletePaper(ctx context.Context, paperID int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/papers/%d", paperID), nil, nil)
}
