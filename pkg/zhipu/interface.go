package zhipu

import "context"

// IZhipu defines the BigModel (Zhipu) capabilities used for media generation.
// Implementations are safe for concurrent use.
type IZhipu interface {
	// GenerateImage returns the URL of an image generated from prompt.
	GenerateImage(ctx context.Context, prompt string) (string, error)

	// DescribeImage asks the vision model about the given images. Each image is
	// either a URL or a data URL.
	DescribeImage(ctx context.Context, images []string, question string) (string, error)

	// CreateVideo submits an async video generation task and returns its id.
	CreateVideo(ctx context.Context, prompt string) (string, error)

	// VideoResult fetches the current state of a video task.
	VideoResult(ctx context.Context, taskID string) (*VideoResult, error)
}

// New creates a new Zhipu client with the given configuration
func New(cfg Config) (IZhipu, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newZhipuImpl(cfg), nil
}
