// Package memory keeps chat history in process, for running without Redis.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"cyber-doctor/internal/history"
	"cyber-doctor/internal/model"
)

const (
	defaultSessions = 1024
	defaultMaxTurns = 20
	defaultTTL      = 24 * time.Hour
)

type implRepository struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, []model.Turn]
	maxTurns int
}

// Ensure implRepository implements history.Repository
var _ history.Repository = (*implRepository)(nil)

// New keeps up to sessions sessions, evicting the least recently used one
// and any session idle for ttl.
func New(sessions, maxTurns int, ttl time.Duration) *implRepository {
	if sessions <= 0 {
		sessions = defaultSessions
	}
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &implRepository{
		sessions: expirable.NewLRU[string, []model.Turn](sessions, nil, ttl),
		maxTurns: maxTurns,
	}
}

func (r *implRepository) Append(_ context.Context, sessionID string, turn model.Turn) error {
	if sessionID == "" {
		return history.ErrEmptySession
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	turns, _ := r.sessions.Get(sessionID)
	next := make([]model.Turn, 0, len(turns)+1)
	next = append(next, turns...)
	next = append(next, turn)
	if len(next) > r.maxTurns {
		next = next[len(next)-r.maxTurns:]
	}
	r.sessions.Add(sessionID, next)
	return nil
}

func (r *implRepository) List(_ context.Context, sessionID string, limit int) ([]model.Turn, error) {
	if sessionID == "" {
		return nil, history.ErrEmptySession
	}
	turns, _ := r.sessions.Get(sessionID)
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	out := make([]model.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

func (r *implRepository) Clear(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return history.ErrEmptySession
	}
	r.sessions.Remove(sessionID)
	return nil
}
