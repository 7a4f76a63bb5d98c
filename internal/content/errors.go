package content

import "errors"

var (
	ErrUnknownKind      = errors.New("content: unknown document kind")
	ErrMalformedOutline = errors.New("content: outline is not valid JSON")
	ErrInvalidOutline   = errors.New("content: outline does not match schema")
	ErrRenderFailed     = errors.New("content: render failed")
)
