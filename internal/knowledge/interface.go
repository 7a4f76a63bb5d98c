package knowledge

import (
	"context"

	"cyber-doctor/internal/search"
)

// UseCase answers RAG lookups over the local knowledge base and builds it.
type UseCase interface {
	// Retrieve returns the k chunks closest to query.
	Retrieve(ctx context.Context, query string, k int) ([]search.Document, error)
	// IndexDirectory chunks, embeds and stores every supported file under dir.
	IndexDirectory(ctx context.Context, dir string) (IndexOutput, error)
}
