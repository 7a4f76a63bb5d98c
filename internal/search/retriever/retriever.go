package retriever

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cyber-doctor/internal/search"
	"cyber-doctor/pkg/htmltext"
	"cyber-doctor/pkg/rank"
	"cyber-doctor/pkg/voyage"
)

// Retrieve loads every *.html page in dir, chunks the visible text and
// returns the topK chunks most similar to query.
func (r *implRetriever) Retrieve(ctx context.Context, dir string, query string) ([]search.Document, error) {
	docs, err := r.load(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", logPrefix, err)
	}
	if len(docs) == 0 {
		return nil, search.ErrNoDocuments
	}

	scores := r.score(ctx, query, docs)
	for i := range docs {
		docs[i].Score = scores[i]
	}
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].Score > docs[j].Score })

	if len(docs) > r.topK {
		docs = docs[:r.topK]
	}
	return docs, nil
}

func (r *implRetriever) load(dir string) ([]search.Document, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var docs []search.Document
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		text, err := htmltext.Extract(f)
		f.Close()
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		source := strings.TrimSuffix(filepath.Base(p), ".html")
		for _, chunk := range r.chunker.Split(text) {
			docs = append(docs, search.Document{Source: source, Content: chunk})
		}
	}
	return docs, nil
}

// score ranks by embedding similarity, falling back to lexical overlap when
// no embedder is configured or embedding fails.
func (r *implRetriever) score(ctx context.Context, query string, docs []search.Document) []float64 {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content
	}

	if r.embedder != nil {
		scores, err := r.embeddingScores(ctx, query, texts)
		if err == nil {
			return scores
		}
		r.l.Warnf(ctx, "%s: embedding failed, using lexical ranking: %v", logPrefix, err)
	}

	scores := make([]float64, len(texts))
	for i, t := range texts {
		scores[i] = rank.Lexical(query, t)
	}
	return scores
}

func (r *implRetriever) embeddingScores(ctx context.Context, query string, texts []string) ([]float64, error) {
	qv, err := r.embedder.Embed(ctx, []string{query}, voyage.InputTypeQuery)
	if err != nil {
		return nil, err
	}
	dv, err := r.embedder.Embed(ctx, texts, voyage.InputTypeDocument)
	if err != nil {
		return nil, err
	}
	if len(qv) != 1 || len(dv) != len(texts) {
		return nil, fmt.Errorf("unexpected embedding count")
	}

	scores := make([]float64, len(texts))
	for i := range dv {
		scores[i] = rank.Cosine(qv[0], dv[i])
	}
	return scores, nil
}
