// Package tts synthesizes speech through an OpenAI-compatible /audio/speech
// endpoint that accepts edge voice names (e.g. zh-CN-YunxiNeural).
package tts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const (
	DefaultModel   = "tts-1"
	DefaultTimeout = 60 * time.Second
	fileExt        = ".mp3"
)

// ErrEmptyText is returned when there is nothing to say.
var ErrEmptyText = errors.New("tts: empty text")

// ISynthesizer turns text into a local audio file.
type ISynthesizer interface {
	Synthesize(ctx context.Context, text, voice string) (string, error)
}

// Config holds speech endpoint configuration
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	OutputDir  string
	HTTPClient *http.Client

	// TranscribeModel is the speech recognition model, whisper-1 by default.
	TranscribeModel string
}

type synthesizer struct {
	client    openai.Client
	model     string
	outputDir string
}

// New creates a synthesizer writing files under cfg.OutputDir.
func New(cfg Config) (ISynthesizer, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("tts: BaseURL is required")
	}
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("tts: OutputDir is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("tts: create output dir: %w", err)
	}

	return &synthesizer{
		client: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"),
			option.WithHTTPClient(cfg.HTTPClient),
			option.WithMaxRetries(0),
		),
		model:     cfg.Model,
		outputDir: cfg.OutputDir,
	}, nil
}

// FileName is the content-addressed file name used for text.
func FileName(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:]) + fileExt
}

// Synthesize writes the mp3 for text to <output_dir>/<sha256(text)>.mp3 and
// returns its path.
func (s *synthesizer) Synthesize(ctx context.Context, text, voice string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}

	resp, err := s.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Input:          text,
		Model:          openai.SpeechModel(s.model),
		Voice:          openai.AudioSpeechNewParamsVoice(voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return "", fmt.Errorf("tts: speech request failed: %w", err)
	}
	defer resp.Body.Close()

	path := filepath.Join(s.outputDir, FileName(text))
	tmp, err := os.CreateTemp(s.outputDir, ".tts-*")
	if err != nil {
		return "", fmt.Errorf("tts: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("tts: write audio: %w", err)
	}
	if n == 0 {
		return "", fmt.Errorf("tts: empty audio for voice %s", voice)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("tts: store audio: %w", err)
	}
	return path, nil
}
