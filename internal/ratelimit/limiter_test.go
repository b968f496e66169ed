package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterAllowsUpToMax(t *testing.T) {
	limiter := NewMemoryLimiter(3, time.Minute)
	key := KeyForUser("u1")

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(context.Background(), key)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should pass", i+1)
	}

	allowed, err := limiter.Allow(context.Background(), key)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestMemoryLimiterWindowExpires(t *testing.T) {
	limiter := NewMemoryLimiter(1, time.Minute)
	key := KeyForUser("u1")

	now := time.Now()
	limiter.SetClock(func() time.Time { return now })

	allowed, err := limiter.Allow(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(context.Background(), key)
	require.NoError(t, err)
	assert.False(t, allowed)

	// A fresh window starts once the old one ages out.
	limiter.SetClock(func() time.Time { return now.Add(time.Minute + time.Second) })
	allowed, err = limiter.Allow(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewMemoryLimiter(1, time.Minute)

	allowed, err := limiter.Allow(context.Background(), KeyForUser("u1"))
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(context.Background(), KeyForUser("u2"))
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(context.Background(), KeyForUser("u1"))
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestMemoryLimiterReset(t *testing.T) {
	limiter := NewMemoryLimiter(1, time.Minute)
	key := KeyForUser("u1")

	_, err := limiter.Allow(context.Background(), key)
	require.NoError(t, err)

	require.NoError(t, limiter.Reset(context.Background(), key))

	allowed, err := limiter.Allow(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, allowed)
}
