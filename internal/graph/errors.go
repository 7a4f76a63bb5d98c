package graph

import "errors"

var (
	ErrNotConfigured = errors.New("graph: neo4j is not configured")
)
