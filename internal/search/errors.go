package search

import "errors"

var (
	ErrUnknownEngine = errors.New("unknown search engine")
	ErrNoDocuments   = errors.New("no documents to retrieve from")
)
