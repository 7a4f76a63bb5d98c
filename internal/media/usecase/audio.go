package usecase

import (
	"context"
	"fmt"
	"strings"

	"cyber-doctor/internal/media"
	"cyber-doctor/internal/model"
	"cyber-doctor/pkg/llmprovider"
)

func (uc *implUseCase) Speak(ctx context.Context, input media.SpeakInput) (media.SpeakOutput, error) {
	text, err := uc.llm.ChatUsingMessages(ctx, speechTextMessages(input.Question, input.History))
	if err != nil {
		return media.SpeakOutput{}, fmt.Errorf("media.Speak: extract text: %w", err)
	}
	lang, err := uc.extract(ctx, promptSpeechLanguage, input.Question)
	if err != nil {
		return media.SpeakOutput{}, fmt.Errorf("media.Speak: extract language: %w", err)
	}
	gender, err := uc.extract(ctx, promptSpeechGender, input.Question)
	if err != nil {
		return media.SpeakOutput{}, fmt.Errorf("media.Speak: extract gender: %w", err)
	}

	voice, ok := media.SelectVoice(lang, gender)
	if !ok {
		uc.l.Infof(ctx, "media.Speak: no voice for %q/%q, using %s", lang, gender, voice)
		text = MissingVoicePrefix + text
	}

	path, err := uc.tts.Synthesize(ctx, text, voice)
	if err != nil {
		uc.l.Errorf(ctx, "media.Speak: %v", err)
		return media.SpeakOutput{}, fmt.Errorf("media.Speak: %w", err)
	}
	return media.SpeakOutput{Path: path, Voice: voice, Fallback: !ok}, nil
}

func (uc *implUseCase) extract(ctx context.Context, prompt, question string) (string, error) {
	answer, err := uc.llm.ChatUsingMessages(ctx, []llmprovider.Message{
		llmprovider.NewTextMessage(llmprovider.RoleSystem, promptExtractorStrict),
		llmprovider.NewTextMessage(llmprovider.RoleUser, fmt.Sprintf(prompt, question)),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

func speechTextMessages(question string, history []model.Turn) []llmprovider.Message {
	msgs := make([]llmprovider.Message, 0, 2*len(history)+3)
	msgs = append(msgs, llmprovider.NewTextMessage(llmprovider.RoleSystem, promptExtractorRole))
	for _, t := range history {
		msgs = append(msgs,
			llmprovider.NewTextMessage(llmprovider.RoleUser, t.User),
			llmprovider.NewTextMessage(llmprovider.RoleAssistant, t.Assistant),
		)
	}
	return append(msgs,
		llmprovider.NewTextMessage(llmprovider.RoleUser, question),
		llmprovider.NewTextMessage(llmprovider.RoleUser, promptSpeechText),
	)
}
