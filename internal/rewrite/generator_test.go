package rewrite

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenAIGenerator_RequiresKey(t *testing.T) {
	_, err := NewGenAIGenerator(context.Background(), GenAIConfig{})
	assert.Error(t, err)
}

func TestGenAIGenerator_Generate(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"  Rewritten.  "}]}}]}`))
	}))
	defer server.Close()

	gen, err := NewGenAIGenerator(context.Background(), GenAIConfig{APIKey: "test-key", BaseURL: server.URL + "/"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, gen.Model())

	out, err := gen.Generate(context.Background(), Prompt{System: "be brief", User: "rewrite me"})
	require.NoError(t, err)
	assert.Equal(t, "Rewritten.", out)
	assert.True(t, strings.HasSuffix(gotPath, "models/"+DefaultModel+":generateContent"), gotPath)
	assert.Contains(t, gotBody, "contents")
	assert.Contains(t, gotBody, "systemInstruction")
}

func TestGenAIGenerator_EmptyCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	gen, err := NewGenAIGenerator(context.Background(), GenAIConfig{APIKey: "k", Model: "gemini-test", BaseURL: server.URL + "/"})
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), Prompt{User: "x"})
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestGenAIGenerator_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Resource exhausted","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	gen, err := NewGenAIGenerator(context.Background(), GenAIConfig{APIKey: "k", BaseURL: server.URL + "/"})
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), Prompt{User: "x"})
	assert.Error(t, err)
}
