// Package memory provides an in-process domain.RateLimiter for single
// replica deployments without Redis.
package memory

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/alanyoungcy/defidash/internal/domain"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per key. A key may issue limit requests
// in a burst and regains one token every window/limit.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	idle     time.Duration
	now      func() time.Time
}

// NewRateLimiter creates a RateLimiter. Buckets idle for longer than idle
// are dropped by Cleanup.
func NewRateLimiter(idle time.Duration) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*entry),
		idle:     idle,
		now:      time.Now,
	}
}

// Allow consumes a token for key if one is available.
func (rl *RateLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 || window <= 0 {
		return true, nil
	}
	every := rate.Every(window / time.Duration(limit))
	now := rl.now()

	rl.mu.Lock()
	e, ok := rl.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(every, limit)}
		rl.limiters[key] = e
	} else if e.limiter.Limit() != every || e.limiter.Burst() != limit {
		e.limiter.SetLimitAt(now, every)
		e.limiter.SetBurstAt(now, limit)
	}
	e.lastSeen = now
	rl.mu.Unlock()

	return e.limiter.AllowN(now, 1), nil
}

// Cleanup drops buckets that have been idle for longer than the idle period
// and returns how many were removed.
func (rl *RateLimiter) Cleanup() int {
	cutoff := rl.now().Add(-rl.idle)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	removed := 0
	for key, e := range rl.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
			removed++
		}
	}
	return removed
}

// Run calls Cleanup every interval until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			rl.Cleanup()
		}
	}
}

var _ domain.RateLimiter = (*RateLimiter)(nil)
