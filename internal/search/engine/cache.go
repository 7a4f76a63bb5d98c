package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

var errDuplicatePage = errors.New("page with the same title already cached")

// beginRun sweeps expired run directories and creates a fresh one for this
// invocation. The returned func releases the directory for later sweeps.
func (e *implEngine) beginRun(ctx context.Context) (string, func(), error) {
	if err := os.MkdirAll(e.cfg.CacheDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create cache root: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.sweepLocked(ctx)

	dir := filepath.Join(e.cfg.CacheDir, uuid.NewString())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create run dir: %w", err)
	}
	e.active[dir] = struct{}{}

	release := func() {
		e.mu.Lock()
		delete(e.active, dir)
		e.mu.Unlock()
	}
	return dir, release, nil
}

// sweepLocked removes run directories older than the retention window that
// no in-flight run is using. Callers hold e.mu.
func (e *implEngine) sweepLocked(ctx context.Context) {
	entries, err := os.ReadDir(e.cfg.CacheDir)
	if err != nil {
		e.l.Warnf(ctx, "%s: read cache root: %v", LogPrefixSearch, err)
		return
	}

	cutoff := e.now().Add(-e.cfg.CacheRetention)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := uuid.Parse(entry.Name()); err != nil {
			continue
		}
		path := filepath.Join(e.cfg.CacheDir, entry.Name())
		if _, inUse := e.active[path]; inUse {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			e.l.Warnf(ctx, "%s: remove stale run %s: %v", LogPrefixSearch, path, err)
		}
	}
}

// writePage stores body as <title>.html in dir. A title that is already
// cached is reported as errDuplicatePage and left untouched.
func writePage(dir, title string, body []byte) (string, error) {
	path := filepath.Join(dir, sanitizeTitle(title)+pageExt)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", errDuplicatePage
		}
		return "", err
	}
	if _, err := f.Write(body); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	return path, f.Close()
}

// hasPages reports whether dir holds at least one cached page.
func hasPages(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), pageExt) {
			return true
		}
	}
	return false
}

// sanitizeTitle turns a result title into a safe file name.
func sanitizeTitle(title string) string {
	var b strings.Builder
	n := 0
	for _, r := range strings.TrimSpace(title) {
		if n >= maxTitleRunes {
			break
		}
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r), unicode.IsControl(r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
		n++
	}
	name := strings.Trim(b.String(), " .")
	if name == "" {
		name = "page-" + uuid.NewString()[:8]
	}
	return name
}
