package driven

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alorle/livetv-collector/internal/run"
)

// unlockScript deletes the key only if the token still matches.
const unlockScript = `
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	end
	return 0
`

// lockClient is the subset of go-redis used by the lock.
type lockClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// RunRedisLock implements the RunLock port with the Redis SET NX pattern,
// so collectors sharing a Redis instance never run at the same time.
type RunRedisLock struct {
	client lockClient
	key    string
	ttl    time.Duration
}

// NewRunRedisLock parses a Redis URL (e.g. "redis://host:6379/0") and returns a lock.
// Call Ping to verify the connection.
func NewRunRedisLock(rawURL, key string, ttl time.Duration) (*RunRedisLock, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return newRunRedisLock(redis.NewClient(opts), key, ttl)
}

func newRunRedisLock(client lockClient, key string, ttl time.Duration) (*RunRedisLock, error) {
	if key == "" {
		return nil, errors.New("lock key cannot be empty")
	}
	if ttl <= 0 {
		return nil, errors.New("lock ttl must be positive")
	}
	return &RunRedisLock{client: client, key: key, ttl: ttl}, nil
}

// Acquire takes the lock or returns run.ErrRunInProgress.
// The ttl bounds how long a crashed holder can block other collectors.
func (l *RunRedisLock) Acquire(ctx context.Context) (func(), error) {
	// Random token ensures only the holder can release the lock.
	token := randomToken()

	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lock %s: %w", l.key, err)
	}
	if !ok {
		return nil, run.ErrRunInProgress
	}

	return func() {
		// Background context so release works even if the run context is cancelled.
		_ = l.client.Eval(context.Background(), unlockScript, []string{l.key}, token).Err()
	}, nil
}

// Ping checks the connection to Redis.
func (l *RunRedisLock) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// Close shuts down the Redis client.
func (l *RunRedisLock) Close() error {
	if c, ok := l.client.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func randomToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
