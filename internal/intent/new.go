package intent

import (
	"context"

	"cyber-doctor/internal/llm"
	"cyber-doctor/internal/model"
	"cyber-doctor/pkg/log"
)

// Classifier maps a user question to exactly one intent.
type Classifier interface {
	Classify(ctx context.Context, text string, hasImage bool) (model.Intent, error)
}

// RuleClassifier applies keyword shortcuts and falls back to one LLM call.
type RuleClassifier struct {
	llm llm.Client
	l   log.Logger
}

// Ensure RuleClassifier implements Classifier interface
var _ Classifier = (*RuleClassifier)(nil)

// New creates a new RuleClassifier
func New(client llm.Client, l log.Logger) *RuleClassifier {
	return &RuleClassifier{
		llm: client,
		l:   l,
	}
}
