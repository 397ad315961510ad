// Package ratelimit throttles password logins per username with fixed-window
// Redis counters.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/addonaccounts/internal/common"
	"github.com/redis/go-redis/v9"
)

var ErrUnavailable = errors.New("rate limiter unavailable")

// Limiter is consulted by the login flow. Check returns
// common.ErrTooManyAttempts once the failure budget of the window is spent.
type Limiter interface {
	Check(ctx context.Context, username string) error
	Fail(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

type RedisLimiter struct {
	redis       redis.UniversalClient
	maxAttempts int
	window      time.Duration
}

func NewRedisLimiter(client redis.UniversalClient, maxAttempts int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{redis: client, maxAttempts: maxAttempts, window: window}
}

func loginKey(username string) string {
	return "addonaccounts:login:" + strings.ToLower(username)
}

func (l *RedisLimiter) Check(ctx context.Context, username string) error {
	count, err := l.redis.Get(ctx, loginKey(username)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if count >= int64(l.maxAttempts) {
		return common.ErrTooManyAttempts
	}
	return nil
}

// Fail records a failed attempt. The window starts with the first failure.
// The counter and its expiry go out in one MULTI, and EXPIRE NX gives a key
// that somehow lost its TTL a window again on the next failure.
func (l *RedisLimiter) Fail(ctx context.Context, username string) error {
	key := loginKey(username)
	_, err := l.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, l.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (l *RedisLimiter) Reset(ctx context.Context, username string) error {
	if err := l.redis.Del(ctx, loginKey(username)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Noop never throttles.
type Noop struct{}

func (Noop) Check(context.Context, string) error { return nil }
func (Noop) Fail(context.Context, string) error  { return nil }
func (Noop) Reset(context.Context, string) error { return nil }

// New returns a Redis limiter for addr, or Noop when addr is empty.
func New(addr string, maxAttempts int, window time.Duration) Limiter {
	if addr == "" || maxAttempts <= 0 {
		return Noop{}
	}
	return NewRedisLimiter(redis.NewClient(&redis.Options{Addr: addr}), maxAttempts, window)
}
