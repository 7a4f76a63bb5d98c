package zhipu

import "time"

const (
	// DefaultBaseURL is the BigModel OpenAI-compatible endpoint
	DefaultBaseURL = "https://open.bigmodel.cn/api/paas/v4/"

	DefaultImageModel    = "cogview-3-plus"
	DefaultDescribeModel = "glm-4v-plus"
	DefaultVideoModel    = "cogvideox"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 60 * time.Second
)

// Video task states reported by the async-result endpoint.
const (
	TaskProcessing = "PROCESSING"
	TaskSuccess    = "SUCCESS"
	TaskFail       = "FAIL"
)

const (
	pathVideoGenerations = "videos/generations"
	pathAsyncResult      = "async-result/"
)
