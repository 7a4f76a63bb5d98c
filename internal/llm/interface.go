package llm

import (
	"context"

	"cyber-doctor/internal/model"
	"cyber-doctor/pkg/llmprovider"
)

// Client is the chat capability every handler depends on.
type Client interface {
	// ChatWithAI sends a single user prompt and returns the whole answer.
	ChatWithAI(ctx context.Context, prompt string) (string, error)
	// ChatWithAIStream answers prompt in the context of history as a stream of deltas.
	ChatWithAIStream(ctx context.Context, prompt string, history []model.Turn) (llmprovider.Stream, error)
	// ChatUsingMessages sends a prepared message list and returns the whole answer.
	ChatUsingMessages(ctx context.Context, messages []llmprovider.Message) (string, error)
}

// Generator is the provider layer the client runs on. *llmprovider.Manager satisfies it.
// Ensure implClient implements Client.
var _ Client = (*implClient)(nil)

type Generator interface {
	GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
	StreamContent(ctx context.Context, req *llmprovider.Request) (llmprovider.Stream, error)
}
