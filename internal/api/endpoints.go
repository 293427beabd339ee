package api

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/dshills/cortex/internal/config"
)

// GenerateRequest is the body of a generation call.
type GenerateRequest struct {
	Diff     string                    `json:"diff"`
	Header   string                    `json:"header"`
	Template *config.TemplateSelection `json:"template,omitempty"`
}

// MessageID identifies a generated message. The API may send it as a string
// or a number.
type MessageID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *MessageID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = MessageID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("message id: expected string or number, got %s", data)
	}
	*id = MessageID(n.String())
	return nil
}

// GenerateResponse is the generated message and its metadata.
type GenerateResponse struct {
	Message      string    `json:"message"`
	ID           MessageID `json:"id"`
	UsageMessage string    `json:"usageMessage,omitempty"`
}

// Generate asks the API for a commit message describing diff.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	if req.Template != nil && req.Template.IsZero() {
		req.Template = nil
	}
	var resp GenerateResponse
	if err := c.do(ctx, "POST", generatePath, req, &resp); err != nil {
		return GenerateResponse{}, fmt.Errorf("generating commit message: %w", err)
	}
	if strings.TrimSpace(resp.Message) == "" {
		return GenerateResponse{}, fmt.Errorf("generating commit message: empty message in response")
	}
	return resp, nil
}

type templatesResponse struct {
	Templates map[string]templateEntry `json:"templates"`
}

type templateEntry struct {
	Variables []string                   `json:"variables"`
	Settings  map[string]json.RawMessage `json:"settings"`
}

// Templates fetches the template catalog. Settings the client does not
// recognize, or whose values have the wrong type, are skipped with a debug
// log.
func (c *Client) Templates(ctx context.Context) (map[string]config.TemplateDefinition, error) {
	var resp templatesResponse
	if err := c.do(ctx, "GET", templatesPath, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching templates: %w", err)
	}

	catalog := make(map[string]config.TemplateDefinition, len(resp.Templates))
	for name, entry := range resp.Templates {
		settings, skipped, err := config.DecodeOptions(entry.Settings, false)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", name, err)
		}
		if len(skipped) > 0 {
			c.logger.Debug("ignoring template settings", "template", name, "keys", skipped)
		}
		catalog[name] = config.TemplateDefinition{
			Name:      name,
			Variables: slices.Clone(entry.Variables),
			Settings:  settings,
		}
	}
	return catalog, nil
}

type saveLinkRequest struct {
	CommitLink string    `json:"commitLink"`
	MessageID  MessageID `json:"messageId"`
}

// SaveCommitLink records the link of the commit made with message id.
func (c *Client) SaveCommitLink(ctx context.Context, link string, id MessageID) error {
	body := saveLinkRequest{CommitLink: link, MessageID: id}
	if err := c.do(ctx, "POST", saveLinkPath, body, nil); err != nil {
		return fmt.Errorf("saving commit link: %w", err)
	}
	return nil
}
