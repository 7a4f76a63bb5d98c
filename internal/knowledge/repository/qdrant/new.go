package qdrant

import (
	"cyber-doctor/internal/knowledge/repository"
	pkgLog "cyber-doctor/pkg/log"
	pkgQdrant "cyber-doctor/pkg/qdrant"
	"cyber-doctor/pkg/voyage"
)

const (
	defaultVectorSize = 1024
	distanceCosine    = "Cosine"
	upsertBatchSize   = 64

	payloadSource  = "source"
	payloadChunk   = "chunk"
	payloadContent = "content"
)

type implRepository struct {
	client         *pkgQdrant.Client
	embedder       voyage.IVoyage
	collectionName string
	vectorSize     int
	l              pkgLog.Logger
}

// Ensure implRepository implements repository.VectorRepository
var _ repository.VectorRepository = (*implRepository)(nil)

// New creates a new Qdrant repository.
func New(client *pkgQdrant.Client, embedder voyage.IVoyage, collectionName string, vectorSize int, l pkgLog.Logger) *implRepository {
	if vectorSize <= 0 {
		vectorSize = defaultVectorSize
	}
	return &implRepository{
		client:         client,
		embedder:       embedder,
		collectionName: collectionName,
		vectorSize:     vectorSize,
		l:              l,
	}
}
