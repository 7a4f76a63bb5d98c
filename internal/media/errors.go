package media

import "errors"

var (
	ErrNoImages     = errors.New("no images to describe")
	ErrInvalidImage = errors.New("image must be an http(s) URL or an uploaded file")
	ErrVideoFailed  = errors.New("video generation failed")
	ErrVideoTimeout = errors.New("video generation timed out")
)
