package redisad

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"tripdesk/internal/adapters/observability"
)

// State keeps client state in Redis so several terminals share one session.
type State struct {
	c      *redis.Client
	prefix string
}

func New(addr, pass string, db int, prefix string) *State {
	return NewFromClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), prefix)
}

func NewFromClient(c *redis.Client, prefix string) *State {
	return &State{c: c, prefix: prefix}
}

func (s *State) Ping(ctx context.Context) error { return s.c.Ping(ctx).Err() }

func (s *State) Close() error { return s.c.Close() }

func (s *State) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.c.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		observability.ObserveState("redis", "miss")
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	observability.ObserveState("redis", "hit")
	return v, true, nil
}

func (s *State) Set(ctx context.Context, key, value string) error {
	observability.ObserveState("redis", "set")
	return s.c.Set(ctx, s.prefix+key, value, 0).Err()
}

func (s *State) Del(ctx context.Context, key string) error {
	observability.ObserveState("redis", "del")
	return s.c.Del(ctx, s.prefix+key).Err()
}
