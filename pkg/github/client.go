// Package github posts comments to a GitHub issue thread.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const apiVersion = "2022-11-28"

// NotificationError reports a comment that GitHub did not accept.
// StatusCode is 0 when the request never got a response.
type NotificationError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *NotificationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("post comment: status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("post comment: %v", e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

// Client appends comments to one issue, identified by repository ("owner/name") and number.
type Client struct {
	baseURL     string
	token       string
	repository  string
	issueNumber int
	httpClient  *http.Client
}

func NewClient(baseURL, token, repository string, issueNumber int, timeout time.Duration) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		token:       token,
		repository:  repository,
		issueNumber: issueNumber,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

type commentRequest struct {
	Body string `json:"body"`
}

// Post creates a new comment on the issue. Every call adds a comment; nothing is deduplicated.
func (c *Client) Post(ctx context.Context, message string) error {
	endpoint := fmt.Sprintf("%s/repos/%s/issues/%d/comments", c.baseURL, c.repository, c.issueNumber)

	payload, err := json.Marshal(commentRequest{Body: message})
	if err != nil {
		return fmt.Errorf("encode comment: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", "metalwatch")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NotificationError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &NotificationError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
			Err:        fmt.Errorf("github returned %s", resp.Status),
		}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
