package engine

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"cyber-doctor/internal/model"
	"cyber-doctor/internal/search"
	"cyber-doctor/pkg/llmprovider"
)

var subQuerySep = regexp.MustCompile(`[;；]`)

func (e *implEngine) SearchAndAnswer(ctx context.Context, question string, history []model.Turn) (search.Output, error) {
	dir, release, err := e.beginRun(ctx)
	if err != nil {
		return search.Output{}, fmt.Errorf("%s: %w", LogPrefixSearch, err)
	}
	defer release()

	queries := e.rewriteQuery(ctx, question)

	results := make([]workerResult, len(queries)*len(e.cfg.Engines))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		for j, engine := range e.cfg.Engines {
			slot := i*len(e.cfg.Engines) + j
			g.Go(func() error {
				results[slot] = e.runWorker(gctx, engine, q, dir)
				return nil
			})
		}
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return search.Output{}, fmt.Errorf("%s: %w", LogPrefixSearch, err)
	}

	links := make(map[string]string)
	for _, r := range results {
		for u, title := range r.links {
			links[u] = title
		}
	}

	hadResults := hasPages(dir)
	prompt := question
	if hadResults {
		prompt = e.augmentedPrompt(ctx, dir, question)
	}

	e.l.Info(ctx, LogPrefixSearch+": fan-out finished",
		"sub_queries", len(queries),
		"workers", len(results),
		"links", len(links),
		"had_results", hadResults,
	)

	stream, err := e.llm.ChatWithAIStream(ctx, prompt, history)
	if err != nil {
		return search.Output{}, fmt.Errorf("%s: %w", LogPrefixSearch, err)
	}

	return search.Output{
		Stream:     stream,
		Links:      links,
		HadResults: hadResults,
		CacheDir:   dir,
		Workers:    len(results),
	}, nil
}

// rewriteQuery turns the question into search-engine queries split on
// semicolons. Rewrite failures fall back to the question itself.
func (e *implEngine) rewriteQuery(ctx context.Context, question string) []string {
	rewritten, err := e.llm.ChatUsingMessages(ctx, []llmprovider.Message{
		llmprovider.NewTextMessage(llmprovider.RoleSystem, promptRewriteSystem),
		llmprovider.NewTextMessage(llmprovider.RoleUser, fmt.Sprintf(promptRewriteUserFormat, question)),
		llmprovider.NewTextMessage(llmprovider.RoleUser, promptRewriteInstruction),
	})
	if err != nil {
		e.l.Warnf(ctx, "%s: %v, searching the raw question", LogPrefixRewrite, err)
		rewritten = ""
	}

	queries := splitQueries(rewritten)
	if len(queries) == 0 {
		queries = splitQueries(question)
	}
	if len(queries) == 0 {
		queries = []string{question}
	}
	return queries
}

func splitQueries(text string) []string {
	var out []string
	for _, part := range subQuerySep.Split(text, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// augmentedPrompt retrieves from the cached pages. Retrieval failure leaves
// the bare question.
func (e *implEngine) augmentedPrompt(ctx context.Context, dir, question string) string {
	docs, err := e.retriever.Retrieve(ctx, dir, question)
	if err != nil {
		e.l.Warnf(ctx, "%s: retrieval over %s failed: %v", LogPrefixSearch, dir, err)
		return question
	}
	if len(docs) == 0 {
		return question
	}
	return fmt.Sprintf(promptAnswerWithContext, search.JoinDocuments(docs), question)
}
