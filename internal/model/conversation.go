package model

// Turn is one completed exchange in a conversation.
type Turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// Question is the raw user input of a turn.
type Question struct {
	Text   string
	Images []string // local paths or URLs
}

// HasImage reports whether the question carries at least one image reference.
func (q Question) HasImage() bool {
	return len(q.Images) > 0
}

// EmptyQuestion stands in for an empty user message.
const EmptyQuestion = "请你将下面的句子修饰后输出，不要包含额外的文字，句子:'请问您有什么想了解的，我将尽力为您服务'"
