package zhipu

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v2"
)

var (
	// ErrEmptyResult is returned when the API answers without usable content.
	ErrEmptyResult = errors.New("zhipu: empty result")
)

// Config holds Zhipu client configuration
type Config struct {
	APIKey        string
	BaseURL       string
	ImageModel    string
	DescribeModel string
	VideoModel    string
	HTTPClient    *http.Client
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("zhipu: APIKey is required")
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/") + "/"
	if c.ImageModel == "" {
		c.ImageModel = DefaultImageModel
	}
	if c.DescribeModel == "" {
		c.DescribeModel = DefaultDescribeModel
	}
	if c.VideoModel == "" {
		c.VideoModel = DefaultVideoModel
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	return nil
}

// zhipuImpl is the internal implementation of IZhipu
type zhipuImpl struct {
	client        openai.Client
	imageModel    string
	describeModel string
	videoModel    string
}

// videoRequest is the body of POST videos/generations.
type videoRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// VideoTask is the response of a video submission.
type VideoTask struct {
	ID         string `json:"id"`
	RequestID  string `json:"request_id"`
	TaskStatus string `json:"task_status"`
}

// VideoResult is the state of an async video task.
type VideoResult struct {
	TaskStatus  string       `json:"task_status"`
	VideoResult []VideoAsset `json:"video_result"`
}

// VideoAsset is one generated video.
type VideoAsset struct {
	URL           string `json:"url"`
	CoverImageURL string `json:"cover_image_url"`
}

// Done reports whether the task succeeded with at least one video.
func (r *VideoResult) Done() bool {
	return r.TaskStatus == TaskSuccess && len(r.VideoResult) > 0 && r.VideoResult[0].URL != ""
}

// Failed reports whether the task ended in failure.
func (r *VideoResult) Failed() bool {
	return r.TaskStatus == TaskFail
}
