package tool

import (
	"context"

	"cyber-doctor/internal/model"
)

// Dispatcher routes a classified turn to the handler for its intent.
type Dispatcher interface {
	// Dispatch runs the handler for req.Intent. The returned Result always
	// carries req.Intent. A nil Result.Payload means the handler failed in a
	// way that is reported to the user as an apology, not as an error.
	// Dispatch panics when req.Intent has no handler.
	Dispatch(ctx context.Context, req Request) (Result, error)
}

// Request is one classified turn.
type Request struct {
	Intent   model.Intent
	Question string
	History  []model.Turn
	Images   []string
}
