// Package openai provides a provider.Generator for the OpenAI Chat Completions API.
package openai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gijiroku/memogen/pkg/providers/provider"
)

const completionsPath = "/v1/chat/completions"

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.openai.com"

// systemPrompt frames every request. The transcript-specific instructions
// come from the rendered template in the user message.
const systemPrompt = "You are an expert at writing meeting minutes from audio transcripts."

var _ provider.Generator = (*Adapter)(nil)

// Adapter implements provider.Generator for the OpenAI Chat Completions API.
type Adapter struct {
	provider.Client
}

// New creates an Adapter. The baseURL should be DefaultBaseURL outside of
// tests (no trailing slash). A nil client falls back to the shared default.
func New(baseURL, apiKey string, client *http.Client) *Adapter {
	a := &Adapter{}
	a.BaseURL = baseURL
	a.Auth = provider.Auth{Key: apiKey}
	a.HTTP = client

	return a
}

// Generate sends the rendered prompt as a system+user conversation and
// returns the completion text.
func (a *Adapter) Generate(ctx context.Context, req provider.Request) (string, error) {
	payload := apiRequest{
		Model: req.Model,
		Messages: []apiMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	var resp apiResponse
	raw, err := a.PostJSON(ctx, completionsPath, payload, &resp)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}

	text, ok := resp.text()
	if !ok {
		return "", fmt.Errorf("openai: %w", &provider.ParseError{Raw: string(raw)})
	}

	return text, nil
}

// --- request types ---

type apiRequest struct {
	Model       string       `json:"model"`
	Messages    []apiMessage `json:"messages"`
	Temperature float64      `json:"temperature"`
	MaxTokens   int          `json:"max_tokens"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// --- response types ---

type apiResponse struct {
	Choices []apiChoice `json:"choices"`
}

type apiChoice struct {
	Message apiRespMessage `json:"message"`
}

type apiRespMessage struct {
	Content *string `json:"content"`
}

// text extracts choices[0].message.content. A present-but-empty content is a
// valid (empty) result; an absent field is not.
func (r apiResponse) text() (string, bool) {
	if len(r.Choices) == 0 || r.Choices[0].Message.Content == nil {
		return "", false
	}

	return *r.Choices[0].Message.Content, true
}
