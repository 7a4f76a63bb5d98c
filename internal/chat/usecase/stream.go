package usecase

import (
	"strings"

	"cyber-doctor/pkg/llmprovider"
)

// recordingStream passes chunks through and calls onDone with the whole body
// once the underlying stream ends without error.
type recordingStream struct {
	llmprovider.Stream
	buf    strings.Builder
	ended  bool
	onDone func(body string)
}

func newRecordingStream(s llmprovider.Stream, onDone func(body string)) *recordingStream {
	return &recordingStream{Stream: s, onDone: onDone}
}

func (s *recordingStream) Next() bool {
	if s.Stream.Next() {
		s.buf.WriteString(s.Stream.Current())
		return true
	}
	if !s.ended {
		s.ended = true
		if s.Stream.Err() == nil {
			s.onDone(s.buf.String())
		}
	}
	return false
}
