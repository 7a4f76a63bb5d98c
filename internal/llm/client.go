package llm

import (
	"context"
	"fmt"

	"cyber-doctor/internal/model"
	"cyber-doctor/pkg/llmprovider"
)

func (c *implClient) ChatWithAI(ctx context.Context, prompt string) (string, error) {
	return c.ChatUsingMessages(ctx, []llmprovider.Message{
		llmprovider.NewTextMessage(llmprovider.RoleUser, prompt),
	})
}

func (c *implClient) ChatWithAIStream(ctx context.Context, prompt string, history []model.Turn) (llmprovider.Stream, error) {
	stream, err := c.gen.StreamContent(ctx, c.request(BuildMessages(prompt, history)))
	if err != nil {
		c.l.Errorf(ctx, "%s.ChatWithAIStream: %v", logPrefix, err)
		return nil, fmt.Errorf("%s.ChatWithAIStream: %w", logPrefix, err)
	}
	return stream, nil
}

func (c *implClient) ChatUsingMessages(ctx context.Context, messages []llmprovider.Message) (string, error) {
	resp, err := c.gen.GenerateContent(ctx, c.request(messages))
	if err != nil {
		c.l.Errorf(ctx, "%s.ChatUsingMessages: %v", logPrefix, err)
		return "", fmt.Errorf("%s.ChatUsingMessages: %w", logPrefix, err)
	}
	return resp.Content.Text(), nil
}

func (c *implClient) request(messages []llmprovider.Message) *llmprovider.Request {
	return &llmprovider.Request{
		Messages:    messages,
		Temperature: c.sampling.Temperature,
		TopP:        c.sampling.TopP,
		MaxTokens:   c.sampling.MaxTokens,
	}
}

// BuildMessages lays out the assistant system prompt, the history as
// alternating user/assistant messages, then prompt.
func BuildMessages(prompt string, history []model.Turn) []llmprovider.Message {
	msgs := make([]llmprovider.Message, 0, 2*len(history)+2)
	msgs = append(msgs, llmprovider.NewTextMessage(llmprovider.RoleSystem, systemPromptAssistant))
	for _, t := range history {
		msgs = append(msgs,
			llmprovider.NewTextMessage(llmprovider.RoleUser, t.User),
			llmprovider.NewTextMessage(llmprovider.RoleAssistant, t.Assistant),
		)
	}
	msgs = append(msgs, llmprovider.NewTextMessage(llmprovider.RoleUser, prompt))
	return msgs
}
