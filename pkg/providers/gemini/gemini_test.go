package gemini_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gijiroku/memogen/pkg/providers/gemini"
	"github.com/gijiroku/memogen/pkg/providers/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *gemini.Adapter) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a := gemini.New(srv.URL, "test-key", srv.Client())

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
		Model:       "gemini-pro",
		Temperature: 0.3,
		MaxTokens:   1500,
	}
}

func TestGenerate_Success(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-pro:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("x-goog-api-key"))

		req := readBody(t, r)

		contents, ok := req["contents"].([]any)
		require.True(t, ok)
		require.Len(t, contents, 1)

		first, _ := contents[0].(map[string]any)
		parts, ok := first["parts"].([]any)
		require.True(t, ok)
		require.Len(t, parts, 1)

		part, _ := parts[0].(map[string]any)
		assert.Equal(t, "Summarize:\nAlice: hi\nBob: hello", part["text"])

		gc, ok := req["generationConfig"].(map[string]any)
		require.True(t, ok)
		assert.InDelta(t, 0.3, gc["temperature"], 1e-9)
		assert.InDelta(t, 1500, gc["maxOutputTokens"], 0)
		assert.InDelta(t, 0.95, gc["topP"], 1e-9)
		assert.InDelta(t, 40, gc["topK"], 0)

		writeJSON(t, w, map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"text": "Meeting summary."},
				}}},
			},
		})
	})

	text, err := adapter.Generate(context.Background(), genRequest())
	require.NoError(t, err)
	assert.Equal(t, "Meeting summary.", text)
}

func TestGenerate_ConcatenatesParts(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"text": "Meeting "},
					{"inlineData": map[string]any{"mimeType": "image/png"}},
					{"text": "summary."},
				}}},
			},
		})
	})

	text, err := adapter.Generate(context.Background(), genRequest())
	require.NoError(t, err)
	assert.Equal(t, "Meeting summary.", text)
}

func TestGenerate_ModelPathPassthrough(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-1.5-flash:generateContent", r.URL.Path)

		writeJSON(t, w, map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "ok"}}}},
			},
		})
	})

	req := genRequest()
	req.Model = "gemini-1.5-flash"

	_, err := adapter.Generate(context.Background(), req)
	require.NoError(t, err)
}

func TestGenerate_MissingCredential(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	adapter := gemini.New(srv.URL, "", srv.Client())

	_, err := adapter.Generate(context.Background(), genRequest())
	assert.ErrorIs(t, err, provider.ErrMissingCredential)
	assert.Zero(t, calls, "no request may be sent without a credential")
}

func TestGenerate_HTTPError(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"API key not valid"}}`))
	})

	_, err := adapter.Generate(context.Background(), genRequest())

	var apiErr *provider.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, err.Error(), "gemini:")
}

func TestGenerate_NoCandidates(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"candidates": []map[string]any{}})
	})

	_, err := adapter.Generate(context.Background(), genRequest())

	var parseErr *provider.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestGenerate_NoTextParts(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"inlineData": map[string]any{"mimeType": "image/png"}},
				}}},
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

	adapter := gemini.New(srv.URL, "test-key", nil)

	_, err := adapter.Generate(context.Background(), genRequest())

	var transportErr *provider.TransportError
	assert.ErrorAs(t, err, &transportErr)
}
