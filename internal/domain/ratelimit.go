package domain

import (
	"context"
	"time"
)

// RateLimiter decides whether a request identified by key may proceed under
// a limit of `limit` requests per `window`.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
