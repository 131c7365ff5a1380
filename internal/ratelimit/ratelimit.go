// Package ratelimit throttles repeated attempts per key within a fixed window.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one Allow call
type Decision struct {
	Allowed bool
	Count   int
	ResetAt time.Time
}

// RetryAfter returns how long the caller should wait before the window resets
func (d Decision) RetryAfter(now time.Time) time.Duration {
	if d.ResetAt.Before(now) {
		return 0
	}
	return d.ResetAt.Sub(now)
}

// Limiter counts hits per key. A limit of zero or less disables limiting.
//
// Allow records a hit and reports whether it fits the window. Peek reports
// whether one more hit would fit without recording anything, so callers can
// count only failures.
type Limiter interface {
	Allow(ctx context.Context, key string) Decision
	Peek(ctx context.Context, key string) Decision
	Close() error
}
