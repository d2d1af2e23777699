package redisstore

import (
	"context"
	"fmt"
	"time"

	"swapquote-service/internal/application"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "swapquote:idem:"

var _ application.IdempotencyStore = (*Store)(nil)

// Store reserves swap idempotency keys with SET NX and a TTL.
type Store struct {
	Client *redis.Client
	TTL    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Store {
	return &Store{Client: client, TTL: ttl}
}

// Dial connects and pings with exponential backoff until maxWait elapses.
func Dial(ctx context.Context, opts *redis.Options, maxWait time.Duration) (*redis.Client, error) {
	client := redis.NewClient(opts)
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 200 * time.Millisecond
	exp.MaxInterval = 2 * time.Second
	exp.MaxElapsedTime = maxWait
	op := func() error { return client.Ping(ctx).Err() }
	if err := backoff.Retry(op, backoff.WithContext(exp, ctx)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return client, nil
}

func (s *Store) TryReserve(ctx context.Context, key string) (bool, error) {
	ok, err := s.Client.SetNX(ctx, keyPrefix+key, "1", s.TTL).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (s *Store) Release(ctx context.Context, key string) error {
	return s.Client.Del(ctx, keyPrefix+key).Err()
}
