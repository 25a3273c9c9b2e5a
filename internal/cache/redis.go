package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrLockNotAcquired = errors.New("system busy, please try again later (lock)")

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

type RedisClient struct {
	Client *redis.Client
}

func NewRedisClient(ctx context.Context, cfg *RedisConfig) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{Client: client}, nil
}

// NewFromClient wraps an existing go-redis client.
func NewFromClient(client *redis.Client) *RedisClient {
	return &RedisClient{Client: client}
}

func (r *RedisClient) Close() error {
	return r.Client.Close()
}

// AcquireLock sets key to value if it is not held. It reports whether the
// lock was taken.
func (r *RedisClient) AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return r.Client.SetNX(ctx, key, value, ttl).Result()
}

// releaseScript deletes the key only while it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

func (r *RedisClient) ReleaseLock(ctx context.Context, key, value string) error {
	return releaseScript.Run(ctx, r.Client, []string{key}, value).Err()
}

// WithLock takes key with up to attempts tries spaced by wait and runs fn
// while holding it.
func (r *RedisClient) WithLock(ctx context.Context, key, value string, ttl time.Duration, attempts int, wait time.Duration, fn func() error) error {
	acquired := false
	for i := 0; i < attempts; i++ {
		ok, err := r.AcquireLock(ctx, key, value, ttl)
		if err != nil {
			return fmt.Errorf("acquire lock %q: %w", key, err)
		}
		if ok {
			acquired = true
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	if !acquired {
		return ErrLockNotAcquired
	}
	// The caller's ctx may be cancelled by now; release with a fresh one.
	defer r.ReleaseLock(context.Background(), key, value)

	return fn()
}
