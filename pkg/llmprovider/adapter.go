package llmprovider

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/packages/ssestream"
)

// OpenAIConfig configures an OpenAI-compatible chat completion endpoint.
type OpenAIConfig struct {
	Name       string
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// OpenAIAdapter talks to any vendor exposing the OpenAI chat completions API
// (DashScope compatible mode, DeepSeek, Zhipu, OpenAI).
type OpenAIAdapter struct {
	client  openai.Client
	name    string
	model   string
	timeout time.Duration
}

// NewOpenAIAdapter creates a new OpenAI-compatible adapter
func NewOpenAIAdapter(cfg OpenAIConfig) *OpenAIAdapter {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// Manager owns retries.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(normalizeBaseURL(cfg.BaseURL)))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &OpenAIAdapter{
		client:  openai.NewClient(opts...),
		name:    cfg.Name,
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}
}

// GenerateContent implements Provider interface
func (a *OpenAIAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	completion, err := a.client.Chat.Completions.New(ctx, a.buildParams(req))
	if err != nil {
		return nil, err
	}
	if len(completion.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}

	return &Response{
		Content:      NewTextMessage(RoleAssistant, completion.Choices[0].Message.Content),
		ProviderName: a.name,
		ModelName:    completion.Model,
		Usage: &Usage{
			InputTokens:  int(completion.Usage.PromptTokens),
			OutputTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:  int(completion.Usage.TotalTokens),
		},
	}, nil
}

// StreamContent implements StreamProvider interface.
// The per-provider timeout is not applied: streams live as long as ctx.
func (a *OpenAIAdapter) StreamContent(ctx context.Context, req *Request) (Stream, error) {
	s := a.client.Chat.Completions.NewStreaming(ctx, a.buildParams(req))
	return &chunkStream{stream: s}, nil
}

// Name returns provider name
func (a *OpenAIAdapter) Name() string {
	return a.name
}

// Model returns model name
func (a *OpenAIAdapter) Model() string {
	return a.model
}

func (a *OpenAIAdapter) buildParams(req *Request) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(a.model),
		Messages: convertToOpenAIMessages(req),
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.TopP > 0 {
		params.TopP = openai.Float(req.TopP)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	return params
}

func convertToOpenAIMessages(req *Request) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.SystemInstruction != nil {
		if text := req.SystemInstruction.Text(); text != "" {
			msgs = append(msgs, openai.SystemMessage(text))
		}
	}
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			msgs = append(msgs, openai.SystemMessage(m.Text()))
		case RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(m.Text()))
		default:
			msgs = append(msgs, convertUserMessage(m))
		}
	}
	return msgs
}

func convertUserMessage(m Message) openai.ChatCompletionMessageParamUnion {
	hasImage := false
	for _, p := range m.Parts {
		if p.ImageURL != "" {
			hasImage = true
			break
		}
	}
	if !hasImage {
		return openai.UserMessage(m.Text())
	}

	parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(m.Parts))
	for _, p := range m.Parts {
		if p.ImageURL != "" {
			parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: p.ImageURL,
			}))
		}
		if p.Text != "" {
			parts = append(parts, openai.TextContentPart(p.Text))
		}
	}
	return openai.UserMessage(parts)
}

func normalizeBaseURL(u string) string {
	return strings.TrimRight(u, "/") + "/"
}

// chunkStream adapts the SDK's SSE stream to Stream, skipping role-only and
// empty deltas.
type chunkStream struct {
	stream *ssestream.Stream[openai.ChatCompletionChunk]
	cur    string
}

func (c *chunkStream) Next() bool {
	for c.stream.Next() {
		chunk := c.stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		c.cur = delta
		return true
	}
	c.cur = ""
	return false
}

func (c *chunkStream) Current() string { return c.cur }
func (c *chunkStream) Err() error      { return c.stream.Err() }
func (c *chunkStream) Close() error    { return c.stream.Close() }
