package llm

const (
	logPrefix = "llm"

	systemPromptAssistant = "你是一个乐于解答各种问题的助手，你的任务是为用户提供专业、准确、有见地的回答。"

	defaultTemperature = 0.95
	defaultTopP        = 0.7
	defaultMaxTokens   = 1024
)
