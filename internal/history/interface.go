package history

import (
	"context"

	"cyber-doctor/internal/model"
)

// Repository stores the turns of chat sessions, oldest first.
type Repository interface {
	Append(ctx context.Context, sessionID string, turn model.Turn) error
	// List returns at most limit of the most recent turns. limit <= 0 returns all.
	List(ctx context.Context, sessionID string, limit int) ([]model.Turn, error)
	Clear(ctx context.Context, sessionID string) error
}
