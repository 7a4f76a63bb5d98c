package chat

import (
	"context"

	"cyber-doctor/internal/model"
)

// UseCase runs chat turns end to end: input shaping, classification,
// answering and history.
type UseCase interface {
	// Ask answers one user message. A streamed reply is appended to the
	// session history once its stream is drained; other replies are appended
	// before Ask returns.
	Ask(ctx context.Context, input AskInput) (Reply, error)
	History(ctx context.Context, sessionID string) ([]model.Turn, error)
	Reset(ctx context.Context, sessionID string) error
}
