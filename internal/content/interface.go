package content

import (
	"context"

	"cyber-doctor/internal/model"
)

// UseCase turns a request into a generated office document.
type UseCase interface {
	// Generate asks the LLM for an outline, repairs and validates it, then
	// renders the file. The returned path points at the rendered file.
	Generate(ctx context.Context, input GenerateInput) (GenerateOutput, error)
}

// Renderer writes outlines to files.
type Renderer interface {
	RenderPPT(deck Deck) (string, error)
	RenderDocx(doc Document) (string, error)
}

// GenerateInput is the input of Generate.
type GenerateInput struct {
	Kind     Kind
	Question string
	History  []model.Turn
}

// GenerateOutput is the output of Generate.
type GenerateOutput struct {
	Kind Kind
	Path string
}
