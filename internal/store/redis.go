package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/fekuna/omnipos-register/internal/cache"
	"github.com/redis/go-redis/v9"
)

const (
	redisUpdateTimeout = 10 * time.Second
	redisBackoffMin    = 2 * time.Millisecond
	redisBackoffMax    = 50 * time.Millisecond
)

// ErrBusy is returned when an Update keeps losing to concurrent writers
// until its context runs out.
var ErrBusy = errors.New("store busy, please try again later")

// RedisStore keeps each document as a plain string key under a prefix.
// Update is an optimistic transaction: every key it reads is watched and
// buffered writes are flushed in a single MULTI/EXEC.
type RedisStore struct {
	cache  *cache.RedisClient
	prefix string
}

func NewRedisStore(rc *cache.RedisClient, prefix string) *RedisStore {
	return &RedisStore{cache: rc, prefix: prefix}
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return get(ctx, s.cache.Client, s.key(key))
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.cache.Client.Set(ctx, s.key(key), value, 0).Err()
}

// Update reruns fn whenever a key it read was changed before EXEC. Without
// a deadline on ctx it gives up after redisUpdateTimeout.
func (s *RedisStore) Update(ctx context.Context, fn func(tx KV) error) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, redisUpdateTimeout)
		defer cancel()
	}

	backoff := redisBackoffMin
	for retried := false; ; retried = true {
		err := s.cache.Client.Watch(ctx, func(rtx *redis.Tx) error {
			return s.attempt(ctx, rtx, fn)
		})
		if !errors.Is(err, redis.TxFailedErr) {
			if retried && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				return fmt.Errorf("%w: %w", ErrBusy, err)
			}
			return err
		}

		wait := backoff/2 + rand.N(backoff)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrBusy, ctx.Err())
		case <-time.After(wait):
		}
		backoff = min(backoff*2, redisBackoffMax)
	}
}

func (s *RedisStore) attempt(ctx context.Context, rtx *redis.Tx, fn func(tx KV) error) error {
	tx := newTxBuffer(func(ctx context.Context, key string) ([]byte, bool, error) {
		k := s.key(key)
		if err := rtx.Watch(ctx, k).Err(); err != nil {
			return nil, false, err
		}
		return get(ctx, rtx, k)
	})
	if err := fn(tx); err != nil {
		return err
	}
	if len(tx.order) == 0 {
		return nil
	}
	_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range tx.order {
			pipe.Set(ctx, s.key(k), tx.writes[k], 0)
		}
		return nil
	})
	return err
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func get(ctx context.Context, c getter, key string) ([]byte, bool, error) {
	v, err := c.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return v, true, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.cache.Client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.cache.Close()
}
