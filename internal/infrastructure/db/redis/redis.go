// Package redis backs login throttling with Redis counters.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/macapp/admin-console/internal/infrastructure/config"
)

const (
	dialTimeout = 5 * time.Second
	// Throttle calls sit on the login path and fail open, so they give up fast.
	ioTimeout = time.Second
)

// Connect opens a client for cfg and pings it once. The client is closed
// again when the ping fails.
func Connect(ctx context.Context, cfg appconfig.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// NewThrottle connects to Redis and returns the client together with a
// LoginThrottle configured from cfg.
func NewThrottle(ctx context.Context, cfg appconfig.RedisConfig) (*redis.Client, *LoginThrottle, error) {
	client, err := Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, NewLoginThrottle(client, cfg.LoginMaxAttempts, cfg.LoginLockWindow), nil
}
