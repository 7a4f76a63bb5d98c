package qdrant

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"cyber-doctor/internal/knowledge"
	"cyber-doctor/internal/knowledge/repository"
	"cyber-doctor/internal/search"
	pkgQdrant "cyber-doctor/pkg/qdrant"
	"cyber-doctor/pkg/voyage"
)

// EnsureCollection creates the collection when it does not exist yet.
func (r *implRepository) EnsureCollection(ctx context.Context) error {
	exists, err := r.client.CollectionExists(ctx, r.collectionName)
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = r.client.CreateCollection(ctx, pkgQdrant.CreateCollectionRequest{
		Name:    r.collectionName,
		Vectors: pkgQdrant.VectorConfig{Size: r.vectorSize, Distance: distanceCosine},
	})
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	r.l.Infof(ctx, "qdrant repository: created collection %s (size=%d)", r.collectionName, r.vectorSize)
	return nil
}

// UpsertChunks embeds chunks as documents and stores them. Point ids are
// derived from source and index, so re-indexing a file overwrites its points.
func (r *implRepository) UpsertChunks(ctx context.Context, chunks []knowledge.Chunk) error {
	for start := 0; start < len(chunks); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}
		vectors, err := r.embedder.Embed(ctx, texts, voyage.InputTypeDocument)
		if err != nil {
			r.l.Errorf(ctx, "qdrant repository: failed to embed chunks: %v", err)
			return fmt.Errorf("failed to embed chunks: %w", err)
		}

		points := make([]pkgQdrant.Point, len(batch))
		for i, c := range batch {
			points[i] = pkgQdrant.Point{
				ID:     chunkID(c),
				Vector: vectors[i],
				Payload: map[string]any{
					payloadSource:  c.Source,
					payloadChunk:   c.Index,
					payloadContent: c.Text,
				},
			}
		}

		if err := r.client.UpsertPoints(ctx, r.collectionName, pkgQdrant.UpsertPointsRequest{Points: points}); err != nil {
			r.l.Errorf(ctx, "qdrant repository: failed to upsert points: %v", err)
			return fmt.Errorf("failed to upsert points: %w", err)
		}
	}
	return nil
}

// Search performs semantic search.
func (r *implRepository) Search(ctx context.Context, opt repository.SearchOptions) ([]search.Document, error) {
	vectors, err := r.embedder.Embed(ctx, []string{opt.Query}, voyage.InputTypeQuery)
	if err != nil || len(vectors) == 0 {
		r.l.Errorf(ctx, "qdrant repository: failed to generate query embedding: %v", err)
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	resp, err := r.client.SearchPoints(ctx, r.collectionName, pkgQdrant.SearchRequest{
		Vector:      vectors[0],
		Limit:       opt.Limit,
		WithPayload: true,
	})
	if err != nil {
		r.l.Errorf(ctx, "qdrant repository: failed to search: %v", err)
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	docs := make([]search.Document, 0, len(resp.Result))
	for _, scored := range resp.Result {
		content, ok := scored.Payload[payloadContent].(string)
		if !ok || content == "" {
			r.l.Warnf(ctx, "qdrant repository: content missing in payload for point %v", scored.ID)
			continue
		}
		source, _ := scored.Payload[payloadSource].(string)
		docs = append(docs, search.Document{Source: source, Content: content, Score: scored.Score})
	}
	return docs, nil
}

func chunkID(c knowledge.Chunk) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s#%d", c.Source, c.Index))).String()
}
