package answer

import (
	"context"

	"cyber-doctor/internal/model"
	"cyber-doctor/internal/tool"
)

// Assembler produces the normalized answer for a classified turn.
type Assembler interface {
	GetAnswer(ctx context.Context, question string, history []model.Turn, intent model.Intent, images []string) (tool.Result, error)
}
