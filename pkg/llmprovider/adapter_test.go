package llmprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Model       string                   `json:"model"`
	Messages    []map[string]interface{} `json:"messages"`
	Stream      bool                     `json:"stream"`
	TopP        float64                  `json:"top_p"`
	Temperature float64                  `json:"temperature"`
	MaxTokens   int                      `json:"max_tokens"`
}

func newCompletionServer(t *testing.T, got *capturedRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(got))

		if got.Stream {
			w.Header().Set("Content-Type", "text/event-stream")
			for _, delta := range []string{"", "多休息", "，多喝水"} {
				fmt.Fprintf(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"qwen-plus\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", delta)
			}
			fmt.Fprint(w, "data: [DONE]\n\n")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","created":1,"model":"qwen-plus",
			"choices":[{"index":0,"message":{"role":"assistant","content":"文本生成"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":12,"completion_tokens":3,"total_tokens":15}}`)
	}))
}

func TestOpenAIAdapter_GenerateContent(t *testing.T) {
	var got capturedRequest
	srv := newCompletionServer(t, &got)
	defer srv.Close()

	adapter := NewOpenAIAdapter(OpenAIConfig{Name: "qwen", APIKey: "test-key", BaseURL: srv.URL, Model: "qwen-plus"})

	resp, err := adapter.GenerateContent(context.Background(), &Request{
		SystemInstruction: &Message{Role: RoleSystem, Parts: []Part{{Text: "你是分类器"}}},
		Messages:          []Message{NewTextMessage(RoleUser, "帮我写一首诗")},
		Temperature:       0.2,
	})
	require.NoError(t, err)

	assert.Equal(t, "文本生成", resp.Content.Text())
	assert.Equal(t, "qwen", resp.ProviderName)
	assert.Equal(t, 12, resp.Usage.InputTokens)
	assert.Equal(t, 15, resp.Usage.TotalTokens)

	assert.Equal(t, "qwen-plus", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0]["role"])
	assert.Equal(t, "user", got.Messages[1]["role"])
	assert.InDelta(t, 0.2, got.Temperature, 1e-9)
}

func TestOpenAIAdapter_StreamContent(t *testing.T) {
	var got capturedRequest
	srv := newCompletionServer(t, &got)
	defer srv.Close()

	adapter := NewOpenAIAdapter(OpenAIConfig{Name: "qwen", APIKey: "test-key", BaseURL: srv.URL + "/", Model: "qwen-plus"})

	stream, err := adapter.StreamContent(context.Background(), &Request{
		Messages:  []Message{NewTextMessage(RoleUser, "感冒怎么办")},
		TopP:      0.7,
		MaxTokens: 1024,
	})
	require.NoError(t, err)

	text, err := Drain(stream)
	require.NoError(t, err)
	assert.Equal(t, "多休息，多喝水", text)
	assert.True(t, got.Stream)
	assert.InDelta(t, 0.7, got.TopP, 1e-9)
	assert.Equal(t, 1024, got.MaxTokens)
}

func TestOpenAIAdapter_ImageParts(t *testing.T) {
	var got capturedRequest
	srv := newCompletionServer(t, &got)
	defer srv.Close()

	adapter := NewOpenAIAdapter(OpenAIConfig{Name: "zhipu", APIKey: "test-key", BaseURL: srv.URL, Model: "glm-4v"})

	_, err := adapter.GenerateContent(context.Background(), &Request{
		Messages: []Message{{
			Role:  RoleUser,
			Parts: []Part{{ImageURL: "https://example.com/x.png"}, {Text: "描述这个图片"}},
		}},
	})
	require.NoError(t, err)

	require.Len(t, got.Messages, 1)
	content, ok := got.Messages[0]["content"].([]interface{})
	require.True(t, ok, "multimodal content should be an array of parts")
	require.Len(t, content, 2)
	assert.Equal(t, "image_url", content[0].(map[string]interface{})["type"])
	assert.Equal(t, "text", content[1].(map[string]interface{})["type"])
}

func TestOpenAIAdapter_HTTPErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	adapter := NewOpenAIAdapter(OpenAIConfig{Name: "deepseek", APIKey: "test-key", BaseURL: srv.URL, Model: "deepseek-chat"})

	_, err := adapter.GenerateContent(context.Background(), &Request{
		Messages: []Message{NewTextMessage(RoleUser, "你好")},
	})
	assert.Error(t, err)
}
