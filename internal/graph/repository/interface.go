package repository

import (
	"context"

	"cyber-doctor/internal/graph"
)

// GraphRepository reads the medical knowledge graph (Neo4j).
type GraphRepository interface {
	// ListEntities returns every node carrying one of labels.
	ListEntities(ctx context.Context, labels []string) ([]graph.Entity, error)
	// Relationships returns all edges touching the node named name.
	Relationships(ctx context.Context, name string) ([]graph.Relation, error)
}
