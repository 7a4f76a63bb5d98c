package usecase

import (
	"cyber-doctor/internal/content"
	"cyber-doctor/internal/graph"
	"cyber-doctor/internal/knowledge"
	"cyber-doctor/internal/llm"
	"cyber-doctor/internal/media"
	"cyber-doctor/internal/search"
	"cyber-doctor/internal/tool"
	pkgLog "cyber-doctor/pkg/log"
)

// Deps are the collaborators behind the handlers.
type Deps struct {
	LLM       llm.Client
	Knowledge knowledge.UseCase
	Graph     graph.UseCase
	Media     media.UseCase
	Content   content.UseCase
	Search    search.Engine
	RAGTopK   int
}

type implDispatcher struct {
	l pkgLog.Logger
	Deps
}

// Ensure implDispatcher implements tool.Dispatcher
var _ tool.Dispatcher = (*implDispatcher)(nil)

// New creates a new Dispatcher.
func New(l pkgLog.Logger, deps Deps) *implDispatcher {
	if deps.RAGTopK <= 0 {
		deps.RAGTopK = defaultRAGTopK
	}
	return &implDispatcher{l: l, Deps: deps}
}
