package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(t *testing.T) (*RateLimiter, *fakeClock, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := New(context.Background(), ClientConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	clock := &fakeClock{t: time.Unix(1_000, 0)}
	rl := NewRateLimiter(c, "defidash:test:")
	rl.now = clock.Now
	return rl, clock, mr
}

func TestRateLimiterSlidingWindow(t *testing.T) {
	ctx := context.Background()
	rl, clock, mr := newTestLimiter(t)
	window := 500 * time.Millisecond

	for i := 0; i < 3; i++ {
		ok, err := rl.Allow(ctx, "client", 3, window)
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i)
		clock.Advance(10 * time.Millisecond)
	}

	ok, err := rl.Allow(ctx, "client", 3, window)
	require.NoError(t, err)
	assert.False(t, ok, "fourth request inside the window")

	members, err := mr.ZMembers("defidash:test:client")
	require.NoError(t, err)
	assert.Len(t, members, 3, "rejected requests are not recorded")
	assert.Greater(t, mr.TTL("defidash:test:client"), time.Duration(0))

	ok, err = rl.Allow(ctx, "other", 3, window)
	require.NoError(t, err)
	assert.True(t, ok, "keys are limited independently")

	clock.Advance(window)
	ok, err = rl.Allow(ctx, "client", 3, window)
	require.NoError(t, err)
	assert.True(t, ok, "window has slid past the earlier requests")
}

func TestRateLimiterPartialSlide(t *testing.T) {
	ctx := context.Background()
	rl, clock, _ := newTestLimiter(t)
	window := time.Second

	for i := 0; i < 2; i++ {
		ok, err := rl.Allow(ctx, "client", 2, window)
		require.NoError(t, err)
		require.True(t, ok)
		clock.Advance(400 * time.Millisecond)
	}

	// first request at 0ms, second at 400ms; at 1001ms only the first has expired
	clock.Advance(201 * time.Millisecond)
	ok, err := rl.Allow(ctx, "client", 2, window)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = rl.Allow(ctx, "client", 2, window)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRateLimiterNonPositiveLimit(t *testing.T) {
	ctx := context.Background()
	rl, _, mr := newTestLimiter(t)

	for _, limit := range []int{0, -1} {
		for i := 0; i < 5; i++ {
			ok, err := rl.Allow(ctx, "client", limit, time.Second)
			require.NoError(t, err)
			assert.True(t, ok)
		}
	}
	assert.False(t, mr.Exists("defidash:test:client"))
}

func TestRateLimiterRedisDown(t *testing.T) {
	rl, _, mr := newTestLimiter(t)
	mr.Close()

	ok, err := rl.Allow(context.Background(), "client", 1, time.Second)
	require.Error(t, err)
	assert.False(t, ok)
}
