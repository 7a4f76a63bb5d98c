package search

import (
	"context"

	"cyber-doctor/internal/model"
)

// Engine answers a question with material fetched from web search engines.
type Engine interface {
	// SearchAndAnswer fans the question out to the configured engines, caches
	// result pages, and streams an answer. Zero cached pages is reported through
	// Output.HadResults, not as an error.
	SearchAndAnswer(ctx context.Context, question string, history []model.Turn) (Output, error)
}

// Retriever ranks the cached pages of one search run against a query.
type Retriever interface {
	Retrieve(ctx context.Context, dir string, query string) ([]Document, error)
}
