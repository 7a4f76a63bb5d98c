package chat

import (
	"cyber-doctor/internal/model"
	"cyber-doctor/pkg/llmprovider"
)

// AskInput is one user message with its uploads.
type AskInput struct {
	SessionID   string
	Message     string
	Images      []string // local paths or URLs
	Attachments []Attachment
}

// Attachment is an uploaded non-image file.
type Attachment struct {
	Name string
	Path string
}

// Reply is the rendered answer of a turn. Exactly one of Stream or Text
// carries the answer body; Prefix is shown before a streamed body.
type Reply struct {
	Intent    model.Intent
	Prefix    string
	Stream    llmprovider.Stream
	Text      string
	Media     *Media
	Links     map[string]string
	ImageURLs []string
}

// Media is a generated file or remote asset attached to a reply.
type Media struct {
	Kind     string // image, audio, 视频, ppt, docx
	Location string // local path or URL
}

// MediaImage marks a generated image.
const MediaImage = "image"
