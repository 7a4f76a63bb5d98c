package media

import (
	"context"

	"cyber-doctor/internal/model"
)

// UseCase produces images, audio and video for a chat turn.
type UseCase interface {
	// GenerateImage returns the URL of an image generated from prompt.
	GenerateImage(ctx context.Context, prompt string) (string, error)
	// DescribeImage answers question about images. Local images are sent
	// inline and uploaded to object storage for display.
	DescribeImage(ctx context.Context, input DescribeInput) (DescribeOutput, error)
	// Speak extracts what to say, in which dialect and voice, and synthesizes it.
	Speak(ctx context.Context, input SpeakInput) (SpeakOutput, error)
	// GenerateVideo submits a video task and waits for its URL.
	GenerateVideo(ctx context.Context, prompt string) (string, error)
}

// DescribeInput is the input of DescribeImage.
type DescribeInput struct {
	Question string
	Images   []string // local paths or URLs
}

// DescribeOutput is the output of DescribeImage.
type DescribeOutput struct {
	Text      string
	ImageURLs []string
}

// SpeakInput is the input of Speak.
type SpeakInput struct {
	Question string
	History  []model.Turn
}

// SpeakOutput is the output of Speak.
type SpeakOutput struct {
	Path  string
	Voice string
	// Fallback is set when the requested dialect has no voice and the default
	// Mandarin voice was used.
	Fallback bool
}
