package retriever

import (
	"cyber-doctor/internal/search"
	"cyber-doctor/pkg/chunker"
	"cyber-doctor/pkg/log"
	"cyber-doctor/pkg/voyage"
)

const (
	logPrefix   = "search.Retrieve"
	defaultTopK = 6
)

type implRetriever struct {
	chunker  *chunker.Chunker
	embedder voyage.IVoyage // nil means lexical ranking only
	topK     int
	l        log.Logger
}

// Ensure implRetriever implements search.Retriever
var _ search.Retriever = (*implRetriever)(nil)

// New creates a retriever over cached HTML pages. embedder may be nil.
func New(c *chunker.Chunker, embedder voyage.IVoyage, topK int, l log.Logger) *implRetriever {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &implRetriever{
		chunker:  c,
		embedder: embedder,
		topK:     topK,
		l:        l,
	}
}
