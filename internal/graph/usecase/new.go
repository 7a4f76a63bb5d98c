package usecase

import (
	"sync"

	ahocorasick "github.com/BobuSumisu/aho-corasick"

	"cyber-doctor/internal/graph"
	"cyber-doctor/internal/graph/repository"
	pkgLog "cyber-doctor/pkg/log"
)

const factSeparator = "；"

type implUseCase struct {
	l      pkgLog.Logger
	repo   repository.GraphRepository
	labels []string

	mu       sync.RWMutex
	trie     *ahocorasick.Trie
	patterns []string                  // trie pattern index -> name
	byName   map[string][]graph.Entity // name -> entities with that name
}

// Ensure implUseCase implements graph.UseCase
var _ graph.UseCase = (*implUseCase)(nil)

// New creates a new graph UseCase instance. repo may be nil when Neo4j is not
// configured; lookups then find nothing.
func New(l pkgLog.Logger, repo repository.GraphRepository, labels []string) *implUseCase {
	return &implUseCase{
		l:      l,
		repo:   repo,
		labels: labels,
	}
}
