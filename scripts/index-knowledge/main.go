package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cyber-doctor/config"
	knowledgeQdrant "cyber-doctor/internal/knowledge/repository/qdrant"
	knowledgeUC "cyber-doctor/internal/knowledge/usecase"
	"cyber-doctor/pkg/chunker"
	"cyber-doctor/pkg/log"
	pkgQdrant "cyber-doctor/pkg/qdrant"
	"cyber-doctor/pkg/voyage"
)

// Indexes the local knowledge base into Qdrant for RAG answers.
//
//	go run scripts/index-knowledge/main.go [dir]
//
// dir defaults to knowledge.source_dir.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := log.Init(log.ZapConfig{
		Level:        "info",
		Mode:         cfg.Logger.Mode,
		Encoding:     log.EncodingConsole,
		ColorEnabled: true,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir := cfg.Knowledge.SourceDir
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	chunks, err := chunker.New(cfg.Retrieval.ChunkTokens, cfg.Retrieval.ChunkOverlap)
	if err != nil {
		logger.Fatalf(ctx, "Failed to create chunker: %v", err)
	}
	embedder, err := voyage.New(cfg.Voyage.APIKey)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize Voyage API: %v", err)
	}
	embedder.WithModel(cfg.Voyage.Model)

	repo := knowledgeQdrant.New(pkgQdrant.NewClient(cfg.Qdrant.URL), embedder, cfg.Qdrant.CollectionName, cfg.Qdrant.VectorSize, logger)
	uc := knowledgeUC.New(logger, repo, chunks)

	logger.Infof(ctx, "Indexing %s into collection %s...", dir, cfg.Qdrant.CollectionName)
	out, err := uc.IndexDirectory(ctx, dir)
	if err != nil {
		logger.Fatalf(ctx, "Indexing failed: %v", err)
	}

	for _, skipped := range out.Skipped {
		logger.Warnf(ctx, "Skipped %s", skipped)
	}
	logger.Infof(ctx, "Indexing complete! %d files, %d chunks stored.", out.Files, out.Chunks)
}
