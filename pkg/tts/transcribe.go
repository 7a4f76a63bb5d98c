package tts

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const (
	DefaultTranscribeModel = "whisper-1"
	transcribeLanguage     = "zh"
)

// ITranscriber turns a local audio file into text.
type ITranscriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

type transcriber struct {
	client openai.Client
	model  string
}

// NewTranscriber creates a speech recognizer against the /audio/transcriptions
// endpoint of cfg.BaseURL. cfg.OutputDir is not used.
func NewTranscriber(cfg Config) (ITranscriber, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("tts: BaseURL is required")
	}
	if cfg.TranscribeModel == "" {
		cfg.TranscribeModel = DefaultTranscribeModel
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}

	return &transcriber{
		client: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"),
			option.WithHTTPClient(cfg.HTTPClient),
			option.WithMaxRetries(0),
		),
		model: cfg.TranscribeModel,
	}, nil
}

// Transcribe returns the Chinese transcript of the audio at path. An empty
// transcript is not an error.
func (t *transcriber) Transcribe(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("tts: open audio: %w", err)
	}
	defer f.Close()

	res, err := t.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:     f,
		Model:    openai.AudioModel(t.model),
		Language: openai.String(transcribeLanguage),
	})
	if err != nil {
		return "", fmt.Errorf("tts: transcription request failed: %w", err)
	}
	return strings.TrimSpace(res.Text), nil
}
