package claude

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nyukimin/kokoro/internal/domain/llm"
)

func TestNewClaudeProvider(t *testing.T) {
	provider := NewClaudeProvider("test-api-key", "claude-sonnet-4-20250514")

	require.NotNil(t, provider)
	assert.Equal(t, "claude-claude-sonnet-4-20250514", provider.Name())
}

func TestClaudeProviderGenerate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-api-key", r.Header.Get("x-api-key"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))

		assert.Equal(t, "claude-test", reqBody["model"])
		// max_tokens未指定時は既定値が入る
		assert.Equal(t, float64(defaultMaxTokens), reqBody["max_tokens"])

		system, ok := reqBody["system"].([]interface{})
		require.True(t, ok, "system should be sent as text blocks")
		assert.Equal(t, "You are Hana", system[0].(map[string]interface{})["text"])

		messages := reqBody["messages"].([]interface{})
		require.Len(t, messages, 1)
		assert.Equal(t, "user", messages[0].(map[string]interface{})["role"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":    "msg_123",
			"type":  "message",
			"role":  "assistant",
			"model": "claude-test",
			"content": []map[string]interface{}{
				{"type": "text", "text": "こんにちは"},
				{"type": "text", "text": "！"},
			},
			"stop_reason": "end_turn",
			"usage": map[string]interface{}{
				"input_tokens":  12,
				"output_tokens": 3,
			},
		})
	}))
	defer server.Close()

	provider := NewClaudeProvider("test-api-key", "claude-test", WithBaseURL(server.URL), WithMaxRetries(0))

	resp, err := provider.Generate(context.Background(), llm.GenerateRequest{
		Prompt:       "query: hi",
		SystemPrompt: "You are Hana",
	})
	require.NoError(t, err)

	assert.Equal(t, "こんにちは！", resp.Content)
	assert.Equal(t, "end_turn", resp.FinishReason)
	assert.Equal(t, 15, resp.TokensUsed)
}

func TestClaudeProviderGenerate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`))
	}))
	defer server.Close()

	provider := NewClaudeProvider("k", "claude-test", WithBaseURL(server.URL), WithMaxRetries(0))

	_, err := provider.Generate(context.Background(), llm.GenerateRequest{Prompt: "hi"})
	assert.Error(t, err)
}

func TestClaudeProviderConvertMessages_SkipsSystem(t *testing.T) {
	provider := NewClaudeProvider("k", "claude-test")

	msgs := provider.convertMessages([]llm.Message{
		{Role: "system", Content: "sys"},
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
	})
	assert.Len(t, msgs, 2)

	system := provider.collectSystem(llm.GenerateRequest{
		SystemPrompt: "a",
		Messages:     []llm.Message{{Role: "system", Content: "b"}},
	})
	assert.Equal(t, "a\nb", system)
}
