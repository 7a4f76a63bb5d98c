package usecase

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"cyber-doctor/internal/content"
	"cyber-doctor/internal/llm"
	pkgLog "cyber-doctor/pkg/log"
)

type implUseCase struct {
	l        pkgLog.Logger
	llm      llm.Client
	renderer content.Renderer
	schemas  map[content.Kind]*gojsonschema.Schema
}

// Ensure implUseCase implements content.UseCase
var _ content.UseCase = (*implUseCase)(nil)

// New creates a new content UseCase instance.
func New(l pkgLog.Logger, client llm.Client, renderer content.Renderer) (*implUseCase, error) {
	schemas := make(map[content.Kind]*gojsonschema.Schema, 2)
	for kind, raw := range map[content.Kind]string{content.KindPPT: pptSchema, content.KindDocx: docxSchema} {
		s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", kind, err)
		}
		schemas[kind] = s
	}

	return &implUseCase{
		l:        l,
		llm:      client,
		renderer: renderer,
		schemas:  schemas,
	}, nil
}
