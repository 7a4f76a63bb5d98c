package usecase

import (
	"context"
	"fmt"
	"strings"

	"cyber-doctor/internal/knowledge"
	"cyber-doctor/internal/knowledge/repository"
	"cyber-doctor/internal/search"
)

// Retrieve returns the k knowledge chunks most similar to query.
func (uc *implUseCase) Retrieve(ctx context.Context, query string, k int) ([]search.Document, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, knowledge.ErrEmptyQuery
	}
	if k <= 0 {
		k = DefaultTopK
	}

	docs, err := uc.vectorRepo.Search(ctx, repository.SearchOptions{Query: query, Limit: k})
	if err != nil {
		return nil, fmt.Errorf("knowledge.Retrieve: %w", err)
	}

	uc.l.Infof(ctx, "knowledge.Retrieve: %d chunks for %q", len(docs), query)
	return docs, nil
}
