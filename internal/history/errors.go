package history

import "errors"

var ErrEmptySession = errors.New("history: empty session id")
