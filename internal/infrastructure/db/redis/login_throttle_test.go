package redis

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCounter is an in-memory stand-in for the Redis commands used by the
// throttle.
type memCounter struct {
	values  map[string]int64
	expires map[string]time.Duration
	err     error
}

func newMemCounter() *memCounter {
	return &memCounter{values: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (m *memCounter) Get(_ context.Context, key string) *redis.StringCmd {
	if m.err != nil {
		return redis.NewStringResult("", m.err)
	}
	v, ok := m.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(strconv.FormatInt(v, 10), nil)
}

func (m *memCounter) Incr(_ context.Context, key string) *redis.IntCmd {
	if m.err != nil {
		return redis.NewIntResult(0, m.err)
	}
	m.values[key]++
	return redis.NewIntResult(m.values[key], nil)
}

func (m *memCounter) Expire(_ context.Context, key string, d time.Duration) *redis.BoolCmd {
	m.expires[key] = d
	return redis.NewBoolResult(true, nil)
}

func (m *memCounter) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(m.values, k)
		delete(m.expires, k)
	}
	return redis.NewIntResult(int64(len(keys)), m.err)
}

func TestLoginThrottle_BlocksAfterMaxFailures(t *testing.T) {
	ctx := context.Background()
	mem := newMemCounter()
	th := newLoginThrottle(mem, 3, 15*time.Minute)

	for i := 0; i < 3; i++ {
		ok, err := th.Allow(ctx, "admin")
		require.NoError(t, err)
		require.True(t, ok, "attempt %d", i+1)
		require.NoError(t, th.Fail(ctx, "admin"))
	}

	ok, err := th.Allow(ctx, "admin")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 15*time.Minute, mem.expires["login:fail:admin"])

	ok, _ = th.Allow(ctx, "someone-else")
	assert.True(t, ok)
}

func TestLoginThrottle_ResetClearsCounter(t *testing.T) {
	ctx := context.Background()
	mem := newMemCounter()
	th := newLoginThrottle(mem, 1, time.Minute)

	require.NoError(t, th.Fail(ctx, "admin"))
	ok, _ := th.Allow(ctx, "admin")
	require.False(t, ok)

	require.NoError(t, th.Reset(ctx, "admin"))
	ok, err := th.Allow(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoginThrottle_FailsOpen(t *testing.T) {
	ctx := context.Background()
	mem := newMemCounter()
	mem.err = errors.New("connection refused")
	th := newLoginThrottle(mem, 1, time.Minute)

	ok, err := th.Allow(ctx, "admin")
	assert.True(t, ok)
	assert.Error(t, err)
	assert.Error(t, th.Fail(ctx, "admin"))
}

func TestNopThrottle(t *testing.T) {
	var th NopThrottle
	ok, err := th.Allow(context.Background(), "x")
	assert.True(t, ok)
	assert.NoError(t, err)
	assert.NoError(t, th.Fail(context.Background(), "x"))
	assert.NoError(t, th.Reset(context.Background(), "x"))
}
