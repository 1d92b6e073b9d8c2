// Package anthropic provides a provider.Generator for the Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gijiroku/memogen/pkg/providers/provider"
)

const messagesPath = "/v1/messages"

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.anthropic.com"

// apiVersion is the pinned anthropic-version header value.
const apiVersion = "2023-06-01"

var _ provider.Generator = (*Adapter)(nil)

// Adapter implements provider.Generator for the Anthropic Messages API.
type Adapter struct {
	provider.Client
}

// New creates an Adapter. The baseURL should be DefaultBaseURL outside of
// tests (no trailing slash). A nil client falls back to the shared default.
func New(baseURL, apiKey string, client *http.Client) *Adapter {
	a := &Adapter{}
	a.BaseURL = baseURL
	a.Auth = provider.Auth{
		Key:    apiKey,
		Header: "x-api-key",
	}
	a.HTTP = client
	a.Headers = map[string]string{
		"anthropic-version": apiVersion,
	}

	return a
}

// Generate sends the rendered prompt as a single user message and returns
// the reply text.
func (a *Adapter) Generate(ctx context.Context, req provider.Request) (string, error) {
	payload := apiRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Messages: []apiMessage{
			{Role: "user", Content: req.Prompt},
		},
	}

	var resp apiResponse
	raw, err := a.PostJSON(ctx, messagesPath, payload, &resp)
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}

	text, ok := resp.text()
	if !ok {
		return "", fmt.Errorf("anthropic: %w", &provider.ParseError{Raw: string(raw)})
	}

	return text, nil
}

// --- request types ---

type apiRequest struct {
	Model       string       `json:"model"`
	MaxTokens   int          `json:"max_tokens"`
	Temperature float64      `json:"temperature"`
	Messages    []apiMessage `json:"messages"`
}

// apiMessage carries plain-string content; the Messages API accepts it as a
// shorthand for a single text block.
type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// --- response types ---

type apiResponse struct {
	Content []apiContent `json:"content"`
}

type apiContent struct {
	Type string  `json:"type"`
	Text *string `json:"text"`
}

// text extracts content[0].text.
func (r apiResponse) text() (string, bool) {
	if len(r.Content) == 0 || r.Content[0].Text == nil {
		return "", false
	}

	return *r.Content[0].Text, true
}
