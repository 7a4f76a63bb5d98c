package tool

import (
	"cyber-doctor/internal/model"
	"cyber-doctor/pkg/llmprovider"
)

// Result is the normalized output of a handler.
type Result struct {
	Intent  model.Intent
	Payload Payload
	// Links and Success are only set for InternetSearch.
	Links   map[string]string
	Success bool
}

// Payload is one of StreamPayload, TextPayload, ImagePayload or MediaPayload.
type Payload interface {
	isPayload()
}

// StreamPayload is a streamed chat answer. The consumer must Close it.
type StreamPayload struct {
	Stream llmprovider.Stream
}

// TextPayload is a complete text answer, optionally with images to show.
type TextPayload struct {
	Text      string
	ImageURLs []string
}

// ImagePayload is a generated image.
type ImagePayload struct {
	URL string
}

// MediaPayload is a generated file or remote media.
type MediaPayload struct {
	Kind     MediaKind
	Location string // local path or URL
}

func (StreamPayload) isPayload() {}
func (TextPayload) isPayload() {}
func (ImagePayload) isPayload() {}
func (MediaPayload) isPayload() {}

// MediaKind tells the UI how to render a MediaPayload.
type MediaKind string

const (
	MediaAudio MediaKind = "audio"
	MediaVideo MediaKind = "视频"
	MediaPPT   MediaKind = "ppt"
	MediaDocx  MediaKind = "docx"
)
