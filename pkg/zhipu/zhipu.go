package zhipu

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// newZhipuImpl creates a new Zhipu implementation
func newZhipuImpl(cfg Config) *zhipuImpl {
	return &zhipuImpl{
		client: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(cfg.BaseURL),
			option.WithHTTPClient(cfg.HTTPClient),
			option.WithMaxRetries(0),
		),
		imageModel:    cfg.ImageModel,
		describeModel: cfg.DescribeModel,
		videoModel:    cfg.VideoModel,
	}
}

// GenerateImage sends an image generation request
func (z *zhipuImpl) GenerateImage(ctx context.Context, prompt string) (string, error) {
	resp, err := z.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  openai.ImageModel(z.imageModel),
	})
	if err != nil {
		return "", fmt.Errorf("zhipu: image generation failed: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", ErrEmptyResult
	}
	return resp.Data[0].URL, nil
}

// DescribeImage sends the images followed by the question as one user message
func (z *zhipuImpl) DescribeImage(ctx context.Context, images []string, question string) (string, error) {
	parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: img}))
	}
	parts = append(parts, openai.TextContentPart(question))

	completion, err := z.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(z.describeModel),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(parts)},
	})
	if err != nil {
		return "", fmt.Errorf("zhipu: image description failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", ErrEmptyResult
	}
	return completion.Choices[0].Message.Content, nil
}

// CreateVideo submits a text-to-video task
func (z *zhipuImpl) CreateVideo(ctx context.Context, prompt string) (string, error) {
	var task VideoTask
	err := z.client.Post(ctx, pathVideoGenerations, videoRequest{Model: z.videoModel, Prompt: prompt}, &task)
	if err != nil {
		return "", fmt.Errorf("zhipu: video submission failed: %w", err)
	}
	if task.ID == "" {
		return "", ErrEmptyResult
	}
	return task.ID, nil
}

// VideoResult polls the async-result endpoint once
func (z *zhipuImpl) VideoResult(ctx context.Context, taskID string) (*VideoResult, error) {
	var res VideoResult
	if err := z.client.Get(ctx, pathAsyncResult+taskID, nil, &res); err != nil {
		return nil, fmt.Errorf("zhipu: video result failed: %w", err)
	}
	return &res, nil
}
