// Package provider defines the call contract shared by memo generation
// backends and an embeddable HTTP client base for implementing them.
//
// It contains:
//   - [Generator] interface and the per-call [Request] it consumes
//   - [Client], an embeddable base struct with HTTP helpers, auth placement
//     (header or URL query parameter), and custom headers
//   - the error taxonomy every adapter reports: [ErrMissingCredential],
//     [APIError], [TransportError], [ParseError]
//
// This package contains no provider-specific code — concrete adapters live
// in sibling packages that import provider.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultTimeout bounds calls made through the lazily built fallback HTTP
// client. Long transcripts can take a while to summarize, but a call must
// never hang forever.
const DefaultTimeout = 60 * time.Second

// Request carries one rendered prompt and its generation parameters.
// Requests are built fresh per call and never reused.
type Request struct {
	Prompt      string  // Fully rendered prompt text.
	Model       string  // Provider-side model identifier, passed through as-is.
	Temperature float64 // Sampling temperature in [0, 1].
	MaxTokens   int     // Response token budget, ≥ 1.
}

// Generator turns a rendered prompt into generated text. Implementations
// perform exactly one attempt per call: no retries, no fallback, no
// streaming. A failed call reports one of the errors defined in this
// package, wrapped with the adapter's name.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Auth holds authentication settings for a provider API. Exactly one
// placement applies per provider: when Query is set the key travels as that
// URL query parameter, otherwise it is sent in Header (default
// "Authorization" with a "Bearer" scheme prefix).
type Auth struct {
	Key    string // API key value.
	Header string // Header name (default: "Authorization").
	Scheme string // Scheme prefix (default: "Bearer" when Header is "Authorization").
	Query  string // Query parameter name; takes precedence over Header when set.
}

// Client holds shared state for provider implementations. Embed it in
// concrete adapter structs to get HTTP helpers, auth placement, and custom
// headers. Concrete types define their own Generate method.
type Client struct {
	Auth    Auth              // Authentication settings.
	BaseURL string            // API base URL (no trailing slash).
	HTTP    *http.Client      // HTTP client; nil falls back to a DefaultTimeout client.
	Headers map[string]string // Extra headers applied to every request.

	clientOnce    sync.Once
	defaultClient *http.Client
}

// NewClient creates a Client with the given settings. A nil http client
// falls back to a shared client with DefaultTimeout at call time.
func NewClient(baseURL string, auth Auth, client *http.Client) Client {
	return Client{
		Auth:    auth,
		BaseURL: baseURL,
		HTTP:    client,
	}
}

// httpClient returns the configured client or a cached default with DefaultTimeout.
func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}

	c.clientOnce.Do(func() {
		c.defaultClient = &http.Client{Timeout: DefaultTimeout}
	})

	return c.defaultClient
}

// NewRequest builds an *http.Request with the base URL, auth placement, and
// custom headers already applied.
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	u := c.BaseURL + path

	// Query-parameter auth is appended to the URL before the request is built.
	if c.Auth.Query != "" && c.Auth.Key != "" {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + c.Auth.Query + "=" + url.QueryEscape(c.Auth.Key)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}

	// Header auth applies only when no query placement is configured.
	if c.Auth.Query == "" && c.Auth.Key != "" {
		header := c.Auth.Header
		if header == "" {
			header = "Authorization"
		}

		value := c.Auth.Key
		if header == "Authorization" {
			scheme := c.Auth.Scheme
			if scheme == "" {
				scheme = "Bearer"
			}

			value = scheme + " " + value
		} else if c.Auth.Scheme != "" {
			value = c.Auth.Scheme + " " + value
		}

		req.Header.Set(header, value)
	}

	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// PostJSON marshals payload as JSON, sends a POST to the given path, checks
// for a 2xx status, and unmarshals the response body into dest. The raw
// response body is returned alongside so callers can report it when expected
// fields turn out to be missing. If dest is nil the body is still read and
// returned but not decoded.
//
// An empty Auth.Key fails with ErrMissingCredential before any network I/O.
// Transport failures are reported as *TransportError, non-2xx statuses as
// *APIError, and undecodable bodies as *ParseError.
func (c *Client) PostJSON(ctx context.Context, path string, payload, dest any) ([]byte, error) {
	if c.Auth.Key == "" {
		return nil, ErrMissingCredential
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := c.NewRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return raw, &APIError{Status: resp.StatusCode, Body: string(raw)}
	}

	if dest == nil {
		return raw, nil
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return raw, &ParseError{Raw: string(raw)}
	}

	return raw, nil
}
