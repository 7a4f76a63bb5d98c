package graph

import "context"

// UseCase spots known entities in a question and collects what the graph
// knows about them.
type UseCase interface {
	// Refresh reloads entity names from the graph and rebuilds the matcher.
	Refresh(ctx context.Context) error
	// Lookup returns the facts found for entities mentioned in question, joined
	// by "；". found is false when nothing matched or the graph is unavailable.
	Lookup(ctx context.Context, question string) (facts string, found bool, err error)
}
