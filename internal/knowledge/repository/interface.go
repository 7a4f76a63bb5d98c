package repository

import (
	"context"

	"cyber-doctor/internal/knowledge"
	"cyber-doctor/internal/search"
)

// VectorRepository stores knowledge chunks and searches them (Qdrant).
type VectorRepository interface {
	EnsureCollection(ctx context.Context) error
	UpsertChunks(ctx context.Context, chunks []knowledge.Chunk) error
	Search(ctx context.Context, opt SearchOptions) ([]search.Document, error)
}

// SearchOptions defines search parameters.
type SearchOptions struct {
	Query string // Natural language query
	Limit int    // Top-K results
}
