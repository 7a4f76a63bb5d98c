package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cyber-doctor/internal/knowledge"
	"cyber-doctor/pkg/htmltext"
)

// IndexDirectory walks dir and stores every supported file in the vector
// store. Unreadable or empty files are skipped and reported.
func (uc *implUseCase) IndexDirectory(ctx context.Context, dir string) (knowledge.IndexOutput, error) {
	var out knowledge.IndexOutput

	if err := uc.vectorRepo.EnsureCollection(ctx); err != nil {
		return out, fmt.Errorf("knowledge.IndexDirectory: %w", err)
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !supportedExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		rel, _ := filepath.Rel(dir, path)
		text, err := readText(path)
		if err != nil || strings.TrimSpace(text) == "" {
			uc.l.Warnf(ctx, "knowledge.IndexDirectory: skip %s: %v", rel, err)
			out.Skipped = append(out.Skipped, rel)
			return nil
		}

		pieces := uc.chunker.Split(text)
		chunks := make([]knowledge.Chunk, len(pieces))
		for i, p := range pieces {
			chunks[i] = knowledge.Chunk{Source: filepath.ToSlash(rel), Index: i, Text: p}
		}
		if err := uc.vectorRepo.UpsertChunks(ctx, chunks); err != nil {
			return fmt.Errorf("index %s: %w", rel, err)
		}

		out.Files++
		out.Chunks += len(chunks)
		uc.l.Debugf(ctx, "knowledge.IndexDirectory: %s -> %d chunks", rel, len(chunks))
		return nil
	})
	if err != nil {
		return out, fmt.Errorf("knowledge.IndexDirectory: %w", err)
	}
	if out.Files == 0 {
		return out, knowledge.ErrNoFilesIndexed
	}

	uc.l.Infof(ctx, "knowledge.IndexDirectory: indexed %d files (%d chunks, %d skipped)", out.Files, out.Chunks, len(out.Skipped))
	return out, nil
}

func readText(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return htmltext.Extract(bytes.NewReader(raw))
	default:
		return string(raw), nil
	}
}
