package usecase

import (
	"cyber-doctor/internal/knowledge"
	"cyber-doctor/internal/knowledge/repository"
	"cyber-doctor/pkg/chunker"
	pkgLog "cyber-doctor/pkg/log"
)

const (
	DefaultTopK = 6
)

var supportedExts = map[string]bool{
	".txt":  true,
	".md":   true,
	".html": true,
	".htm":  true,
}

type implUseCase struct {
	l          pkgLog.Logger
	vectorRepo repository.VectorRepository
	chunker    *chunker.Chunker
}

// Ensure implUseCase implements knowledge.UseCase
var _ knowledge.UseCase = (*implUseCase)(nil)

// New creates a new knowledge UseCase instance.
func New(l pkgLog.Logger, vectorRepo repository.VectorRepository, c *chunker.Chunker) *implUseCase {
	return &implUseCase{
		l:          l,
		vectorRepo: vectorRepo,
		chunker:    c,
	}
}
