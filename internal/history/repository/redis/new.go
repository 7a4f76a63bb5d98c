package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"cyber-doctor/internal/history"
	"cyber-doctor/pkg/log"
)

const (
	keyPrefix       = "cyberdoctor:history:"
	defaultMaxTurns = 20
	defaultTTL      = 24 * time.Hour
)

// Options holds connection settings.
type Options struct {
	Address  string
	Password string
	DB       int
}

// Connect opens a client and pings it.
func Connect(ctx context.Context, opts Options) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         opts.Address,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

type implRepository struct {
	rdb      *goredis.Client
	maxTurns int
	ttl      time.Duration
	l        log.Logger
}

// Ensure implRepository implements history.Repository
var _ history.Repository = (*implRepository)(nil)

// New keeps one list per session, trimmed to maxTurns and expiring ttl after
// the last write.
func New(rdb *goredis.Client, maxTurns int, ttl time.Duration, l log.Logger) *implRepository {
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &implRepository{rdb: rdb, maxTurns: maxTurns, ttl: ttl, l: l}
}
