package anthropic_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gijiroku/memogen/pkg/providers/anthropic"
	"github.com/gijiroku/memogen/pkg/providers/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *anthropic.Adapter) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a := anthropic.New(srv.URL, "test-key", srv.Client())

	return srv, a
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func readBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	var req map[string]any
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("failed to unmarshal body: %v", err)
	}

	return req
}

func genRequest() provider.Request {
	return provider.Request{
		Prompt:      "Summarize:\nAlice: hi\nBob: hello",
		Model:       "claude-3-haiku-20240307",
		Temperature: 0.3,
		MaxTokens:   1500,
	}
}

func TestGenerate_Success(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		req := readBody(t, r)

		assert.Equal(t, "claude-3-haiku-20240307", req["model"])
		assert.InDelta(t, 0.3, req["temperature"], 1e-9)
		assert.InDelta(t, 1500, req["max_tokens"], 0)

		msgs, ok := req["messages"].([]any)
		require.True(t, ok)
		require.Len(t, msgs, 1)

		user, _ := msgs[0].(map[string]any)
		assert.Equal(t, "user", user["role"])
		assert.Equal(t, "Summarize:\nAlice: hi\nBob: hello", user["content"])

		writeJSON(t, w, map[string]any{
			"content": []map[string]any{
				{"type": "text", "text": "Meeting summary."},
			},
		})
	})

	text, err := adapter.Generate(context.Background(), genRequest())
	require.NoError(t, err)
	assert.Equal(t, "Meeting summary.", text)
}

func TestGenerate_MissingCredential(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	adapter := anthropic.New(srv.URL, "", srv.Client())

	_, err := adapter.Generate(context.Background(), genRequest())
	assert.ErrorIs(t, err, provider.ErrMissingCredential)
	assert.Zero(t, calls, "no request may be sent without a credential")
}

func TestGenerate_HTTPError(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	})

	_, err := adapter.Generate(context.Background(), genRequest())

	var apiErr *provider.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Contains(t, err.Error(), "anthropic:")
}

func TestGenerate_EmptyContent(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"content": []map[string]any{}})
	})

	_, err := adapter.Generate(context.Background(), genRequest())

	var parseErr *provider.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestGenerate_MissingTextField(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{
			"content": []map[string]any{
				{"type": "tool_use", "id": "call_1"},
			},
		})
	})

	_, err := adapter.Generate(context.Background(), genRequest())

	var parseErr *provider.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestGenerate_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	srv.Close() // connection refused from here on

	adapter := anthropic.New(srv.URL, "test-key", nil)

	_, err := adapter.Generate(context.Background(), genRequest())

	var transportErr *provider.TransportError
	assert.ErrorAs(t, err, &transportErr)
}
