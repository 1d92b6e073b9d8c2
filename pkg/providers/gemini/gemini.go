// Package gemini provides a provider.Generator for the Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gijiroku/memogen/pkg/providers/provider"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// Fixed sampling parameters sent with every request.
const (
	topP = 0.95
	topK = 40
)

var _ provider.Generator = (*Adapter)(nil)

// Adapter implements provider.Generator for the Google Gemini API. The API
// key travels as the "key" URL query parameter, not a header.
type Adapter struct {
	provider.Client
}

// New creates an Adapter. The baseURL should be DefaultBaseURL outside of
// tests (no trailing slash). A nil client falls back to the shared default.
func New(baseURL, apiKey string, client *http.Client) *Adapter {
	a := &Adapter{}
	a.BaseURL = baseURL
	a.Auth = provider.Auth{
		Key:   apiKey,
		Query: "key",
	}
	a.HTTP = client

	return a
}

// Generate sends the rendered prompt and returns the concatenated text of
// the first candidate's parts. The model name goes into the URL path as-is.
func (a *Adapter) Generate(ctx context.Context, req provider.Request) (string, error) {
	path := fmt.Sprintf("/v1beta/models/%s:generateContent", req.Model)

	payload := apiRequest{
		Contents: []apiContent{
			{Parts: []apiPart{{Text: req.Prompt}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
			TopP:            topP,
			TopK:            topK,
		},
	}

	var resp apiResponse
	raw, err := a.PostJSON(ctx, path, payload, &resp)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	text, ok := resp.text()
	if !ok {
		return "", fmt.Errorf("gemini: %w", &provider.ParseError{Raw: string(raw)})
	}

	return text, nil
}

// --- request types ---

type apiRequest struct {
	Contents         []apiContent     `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type apiContent struct {
	Parts []apiPart `json:"parts"`
}

type apiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
}

// --- response types ---

type apiResponse struct {
	Candidates []apiCandidate `json:"candidates"`
}

type apiCandidate struct {
	Content apiRespContent `json:"content"`
}

type apiRespContent struct {
	Parts []apiRespPart `json:"parts"`
}

type apiRespPart struct {
	Text *string `json:"text"`
}

// text concatenates every text field under candidates[0].content.parts. A
// candidate whose parts carry no text field at all is unparseable.
func (r apiResponse) text() (string, bool) {
	if len(r.Candidates) == 0 {
		return "", false
	}

	var out string
	found := false
	for _, p := range r.Candidates[0].Content.Parts {
		if p.Text != nil {
			out += *p.Text
			found = true
		}
	}

	return out, found
}
