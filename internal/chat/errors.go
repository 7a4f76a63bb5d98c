package chat

import "errors"

var (
	ErrEmptySession = errors.New("chat: session id is required")
	ErrNoAnswer     = errors.New("chat: handler produced no answer")
)
