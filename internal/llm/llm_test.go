package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agenthands/linkage/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	ctx := context.Background()

	c, err := NewClient(ctx, config.LLMConfig{Provider: "OpenAI", Model: "gpt-4o-mini", APIKey: "k"}, Options{})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)

	c, err = NewClient(ctx, config.LLMConfig{Provider: "anthropic", Model: "claude-3-5-haiku-latest", APIKey: "k"}, Options{})
	require.NoError(t, err)
	assert.IsType(t, &ClaudeClient{}, c)

	c, err = NewClient(ctx, config.LLMConfig{Provider: "ollama", Model: "llama3.1"}, Options{})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)

	_, err = NewClient(ctx, config.LLMConfig{Provider: "watson"}, Options{})
	assert.ErrorContains(t, err, "unsupported llm provider")
}

func TestOpenAIGenerate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"same_entity\": true}"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	// ollama goes through the OpenAI-compatible endpoint under /v1
	c, err := NewClient(context.Background(), config.LLMConfig{Provider: "ollama", Model: "llama3.1", BaseURL: srv.URL}, Options{
		System: "be brief",
		JSON:   true,
	})
	require.NoError(t, err)

	out, err := c.Generate(context.Background(), "compare these")

	require.NoError(t, err)
	assert.Equal(t, `{"same_entity": true}`, out)
	assert.Equal(t, "llama3.1", got["model"])
	assert.Equal(t, map[string]any{"type": "json_object"}, got["response_format"])
	messages, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "compare these", messages[1].(map[string]any)["content"])
}

func TestOpenAIGenerateNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewOpenAIClient("k", "m", srv.URL, Options{}).Generate(context.Background(), "hi")

	assert.ErrorContains(t, err, "no response choices")
}

func TestOptionsMaxTokens(t *testing.T) {
	assert.Equal(t, 1024, Options{}.maxTokens())
	assert.Equal(t, 256, Options{MaxTokens: 256}.maxTokens())
}
