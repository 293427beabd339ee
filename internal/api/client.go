package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	generatePath   = "/api/generate-commit-message"
	templatesPath  = "/api/templates-map"
	saveLinkPath   = "/api/save-commit-link"
	defaultRetries = 3
)

// Error is a non-2xx response from the commit-message API.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// Client talks to the commit-message API.
type Client struct {
	token   string
	baseURL string
	httpCli *http.Client
	logger  *slog.Logger
	retries int
	backoff func(int) time.Duration
}

// NewClient returns a Client for baseURL authenticating with token. Requests
// carry no timeout of their own; cancel ctx to abandon them.
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCli: &http.Client{},
		logger:  logger,
		retries: defaultRetries,
		backoff: exponentialBackoff,
	}
}

// do sends a JSON request and decodes a JSON response into out. A nil body
// sends no payload; a nil out discards the response.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
	}

	return retryWithBackoff(ctx, c.retries, c.backoff, func() error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Basic "+c.token)

		resp, err := c.httpCli.Do(req)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
		c.logger.Debug("api response", "method", method, "path", path, "status", resp.StatusCode, "bytes", len(respBody))

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return &rateLimitError{body: errorMessage(respBody)}
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return &authError{message: errorMessage(respBody)}
		case resp.StatusCode < 200 || resp.StatusCode > 299:
			return &Error{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
		}

		if out == nil {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
		return nil
	})
}

// errorMessage extracts the "error" field of a JSON error body, falling back
// to the raw body.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	if s := strings.TrimSpace(string(body)); s != "" {
		return s
	}
	return "empty response"
}
