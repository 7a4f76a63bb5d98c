package knowledge

import "errors"

var (
	ErrEmptyQuery     = errors.New("knowledge: empty query")
	ErrNoFilesIndexed = errors.New("knowledge: no supported files found")
)
