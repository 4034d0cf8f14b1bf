// Package client provides a small HTTP client for the steward API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"steward/internal/db"
	"steward/internal/lifecycle"
)

// Client represents the HTTP client for a running steward instance
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new client instance
func New(serverURL string) (*Client, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	// Ensure the URL has a scheme
	if u.Scheme == "" {
		u.Scheme = "http"
	}

	return &Client{
		baseURL: u.String(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Status fetches the current status report
func (c *Client) Status(ctx context.Context) (*lifecycle.Report, error) {
	var report lifecycle.Report
	if err := c.get(ctx, "/api/status", &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Transitions fetches the recent transition history
func (c *Client) Transitions(ctx context.Context, limit int) ([]*db.Transition, error) {
	path := "/api/transitions"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}

	var page struct {
		Transitions []*db.Transition `json:"transitions"`
	}
	if err := c.get(ctx, path, &page); err != nil {
		return nil, err
	}
	return page.Transitions, nil
}

// get performs a GET request and decodes the JSON response
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
