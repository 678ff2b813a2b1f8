package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucket_AllowWithinCapacity(t *testing.T) {
	bucket := newTokenBucket(3, 1.0)

	assert.True(t, bucket.allow())
	assert.True(t, bucket.allow())
	assert.True(t, bucket.allow())
	assert.False(t, bucket.allow())
}

func TestTokenBucket_Refill(t *testing.T) {
	// 100 tokens/sec so the bucket refills within the test
	bucket := newTokenBucket(1, 100.0)

	require.True(t, bucket.allow())
	require.False(t, bucket.allow())

	time.Sleep(20 * time.Millisecond)
	assert.True(t, bucket.allow())
}

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled: true,
		Limit:   2,
		Window:  time.Minute,
		Burst:   2,
	})
	defer limiter.Stop()

	allowed, info := limiter.Allow("client-a")
	assert.True(t, allowed)
	assert.Equal(t, 2, info.Limit)

	allowed, _ = limiter.Allow("client-a")
	assert.True(t, allowed)

	allowed, info = limiter.Allow("client-a")
	assert.False(t, allowed)
	assert.GreaterOrEqual(t, info.RetryAfter, time.Duration(0))
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled: true,
		Limit:   1,
		Window:  time.Minute,
		Burst:   1,
	})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("client-a")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("client-a")
	require.False(t, allowed)

	allowed, _ = limiter.Allow("client-b")
	assert.True(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false, Limit: 1, Window: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow("client-a")
		assert.True(t, allowed)
	}
}

func TestNewLimiter_NilConfigUsesDefaults(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	allowed, info := limiter.Allow("client-a")
	assert.True(t, allowed)
	assert.Equal(t, 30, info.Limit)
}
