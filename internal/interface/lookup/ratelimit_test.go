package lookup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimit_SlidingWindow(t *testing.T) {
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimit(2, time.Minute)
	rl.now = func() time.Time { return clock }

	ok, _ := rl.reserve()
	assert.True(t, ok)
	clock = clock.Add(30 * time.Second)
	ok, _ = rl.reserve()
	assert.True(t, ok)
	assert.Equal(t, 0, rl.Remaining())

	ok, wait := rl.reserve()
	assert.False(t, ok)
	assert.Equal(t, 30*time.Second, wait)

	clock = clock.Add(31 * time.Second)
	assert.Equal(t, 1, rl.Remaining())
	ok, _ = rl.reserve()
	assert.True(t, ok)
}

func TestRateLimit_Unlimited(t *testing.T) {
	rl := NewRateLimit(0, time.Minute)
	for i := 0; i < 100; i++ {
		require.NoError(t, rl.Wait(context.Background()))
	}
}

func TestRateLimit_WaitHonoursContext(t *testing.T) {
	rl := NewRateLimit(1, time.Hour)
	require.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, rl.Wait(ctx), context.Canceled)
}
