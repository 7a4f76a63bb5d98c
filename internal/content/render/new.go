package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"cyber-doctor/internal/content"
)

// Renderer writes PPTX and DOCX files into a single output directory.
type Renderer struct {
	outputDir string
}

var _ content.Renderer = (*Renderer)(nil)

// New returns a Renderer that writes into outputDir, creating it if needed.
func New(outputDir string) (*Renderer, error) {
	if outputDir == "" {
		return nil, fmt.Errorf("render: output dir is required")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("render: create output dir: %w", err)
	}
	return &Renderer{outputDir: outputDir}, nil
}

// part is one entry of an OOXML package.
type part struct {
	name string
	body string
}

// writePackage zips parts into a fresh <uuid><ext> file and returns its path.
func (r *Renderer) writePackage(ext string, parts []part) (string, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return "", fmt.Errorf("zip %s: %w", p.name, err)
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return "", fmt.Errorf("zip %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return "", err
	}

	path := filepath.Join(r.outputDir, uuid.NewString()+ext)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func esc(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// hasCJK reports whether s contains a CJK unified ideograph.
func hasCJK(s string) bool {
	for _, r := range s {
		if r >= 0x4e00 && r <= 0x9fff {
			return true
		}
	}
	return false
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
