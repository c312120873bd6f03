package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/macapp/admin-console/internal/core/ports"
)

// counter is the subset of the go-redis client used by LoginThrottle.
type counter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// LoginThrottle counts failed logins per user name in Redis.
// Key format: login:fail:<userName>
//
// The window starts at the first failure; once MaxAttempts failures are
// recorded further attempts are refused until the key expires.
type LoginThrottle struct {
	client      counter
	maxAttempts int64
	window      time.Duration
}

var _ ports.LoginThrottle = (*LoginThrottle)(nil)

// NewLoginThrottle wraps client. maxAttempts below 1 is treated as 1.
func NewLoginThrottle(client *redis.Client, maxAttempts int64, window time.Duration) *LoginThrottle {
	return newLoginThrottle(client, maxAttempts, window)
}

func newLoginThrottle(client counter, maxAttempts int64, window time.Duration) *LoginThrottle {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &LoginThrottle{client: client, maxAttempts: maxAttempts, window: window}
}

// Allow reports whether another attempt is permitted. On Redis errors it
// allows the attempt and returns the error for logging.
func (t *LoginThrottle) Allow(ctx context.Context, userName string) (bool, error) {
	raw, err := t.client.Get(ctx, t.key(userName)).Result()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return true, fmt.Errorf("login throttle get: %w", err)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return true, fmt.Errorf("login throttle parse %q: %w", raw, err)
	}
	return n < t.maxAttempts, nil
}

// Fail records a failed attempt.
func (t *LoginThrottle) Fail(ctx context.Context, userName string) error {
	key := t.key(userName)
	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("login throttle incr: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return fmt.Errorf("login throttle expire: %w", err)
		}
	}
	return nil
}

// Reset clears the failure counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, userName string) error {
	if err := t.client.Del(ctx, t.key(userName)).Err(); err != nil {
		return fmt.Errorf("login throttle reset: %w", err)
	}
	return nil
}

func (t *LoginThrottle) key(userName string) string {
	return "login:fail:" + userName
}

// NopThrottle never refuses an attempt. It is used when Redis is not
// configured.
type NopThrottle struct{}

var _ ports.LoginThrottle = NopThrottle{}

func (NopThrottle) Allow(context.Context, string) (bool, error) { return true, nil }
func (NopThrottle) Fail(context.Context, string) error          { return nil }
func (NopThrottle) Reset(context.Context, string) error         { return nil }
