package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"cyber-doctor/internal/content"
	"cyber-doctor/internal/model"
	"cyber-doctor/pkg/llmprovider"
)

// Generate produces a PPT or Word file for the question.
func (uc *implUseCase) Generate(ctx context.Context, input content.GenerateInput) (content.GenerateOutput, error) {
	var format string
	switch input.Kind {
	case content.KindPPT:
		format = promptPPTFormat
	case content.KindDocx:
		format = promptDocxFormat
	default:
		return content.GenerateOutput{}, content.ErrUnknownKind
	}

	raw, err := uc.llm.ChatUsingMessages(ctx, buildMessages(input.Question, input.History, format))
	if err != nil {
		return content.GenerateOutput{}, fmt.Errorf("%s: outline: %w", logPrefix, err)
	}

	outline, err := RepairOutline(raw)
	if err != nil {
		uc.l.Warnf(ctx, "%s: unrepairable %s outline (%d bytes)", logPrefix, input.Kind, len(raw))
		return content.GenerateOutput{}, err
	}
	if err := uc.validate(input.Kind, outline); err != nil {
		uc.l.Warnf(ctx, "%s: %v", logPrefix, err)
		return content.GenerateOutput{}, err
	}

	var path string
	switch input.Kind {
	case content.KindPPT:
		var deck content.Deck
		if err := json.Unmarshal([]byte(outline), &deck); err != nil {
			return content.GenerateOutput{}, fmt.Errorf("%w: %v", content.ErrMalformedOutline, err)
		}
		path, err = uc.renderer.RenderPPT(deck)
	case content.KindDocx:
		var doc content.Document
		if err := json.Unmarshal([]byte(outline), &doc); err != nil {
			return content.GenerateOutput{}, fmt.Errorf("%w: %v", content.ErrMalformedOutline, err)
		}
		path, err = uc.renderer.RenderDocx(doc)
	}
	if err != nil {
		uc.l.Errorf(ctx, "%s: render %s: %v", logPrefix, input.Kind, err)
		return content.GenerateOutput{}, fmt.Errorf("%w: %v", content.ErrRenderFailed, err)
	}

	uc.l.Infof(ctx, "%s: rendered %s to %s", logPrefix, input.Kind, path)
	return content.GenerateOutput{Kind: input.Kind, Path: path}, nil
}

// validate checks that the repaired outline is a single JSON document and
// then matches the schema for kind. The schema loader alone stops after the
// first value and would accept trailing brackets.
func (uc *implUseCase) validate(kind content.Kind, outline string) error {
	if !json.Valid([]byte(outline)) {
		return content.ErrMalformedOutline
	}
	result, err := uc.schemas[kind].Validate(gojsonschema.NewStringLoader(outline))
	if err != nil {
		return fmt.Errorf("%w: %v", content.ErrMalformedOutline, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s", content.ErrInvalidOutline, strings.Join(errs, "; "))
	}
	return nil
}

func buildMessages(question string, history []model.Turn, format string) []llmprovider.Message {
	msgs := make([]llmprovider.Message, 0, len(history)*2+3)
	msgs = append(msgs, llmprovider.NewTextMessage(llmprovider.RoleSystem, promptExtractor))
	for _, turn := range history {
		msgs = append(msgs,
			llmprovider.NewTextMessage(llmprovider.RoleUser, turn.User),
			llmprovider.NewTextMessage(llmprovider.RoleAssistant, turn.Assistant),
		)
	}
	msgs = append(msgs,
		llmprovider.NewTextMessage(llmprovider.RoleSystem, question),
		llmprovider.NewTextMessage(llmprovider.RoleUser, format),
	)
	return msgs
}
