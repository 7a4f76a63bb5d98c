package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"cyber-doctor/internal/history"
	"cyber-doctor/internal/model"
)

func (r *implRepository) Append(ctx context.Context, sessionID string, turn model.Turn) error {
	if sessionID == "" {
		return history.ErrEmptySession
	}
	b, err := json.Marshal(turn)
	if err != nil {
		return err
	}

	key := keyPrefix + sessionID
	_, err = r.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.RPush(ctx, key, b)
		p.LTrim(ctx, key, int64(-r.maxTurns), -1)
		p.Expire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		r.l.Errorf(ctx, "history.redis.Append: %v", err)
		return fmt.Errorf("history.redis.Append: %w", err)
	}
	return nil
}

func (r *implRepository) List(ctx context.Context, sessionID string, limit int) ([]model.Turn, error) {
	if sessionID == "" {
		return nil, history.ErrEmptySession
	}
	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}

	raw, err := r.rdb.LRange(ctx, keyPrefix+sessionID, start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("history.redis.List: %w", err)
	}

	turns := make([]model.Turn, 0, len(raw))
	for _, s := range raw {
		var t model.Turn
		if err := json.Unmarshal([]byte(s), &t); err != nil {
			r.l.Warnf(ctx, "history.redis.List: skip corrupt turn in %s: %v", sessionID, err)
			continue
		}
		turns = append(turns, t)
	}
	return turns, nil
}

func (r *implRepository) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return history.ErrEmptySession
	}
	if err := r.rdb.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("history.redis.Clear: %w", err)
	}
	return nil
}
