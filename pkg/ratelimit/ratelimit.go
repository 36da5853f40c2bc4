// Package ratelimit paces outgoing requests so a source is never hammered.
package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Limiter enforces a minimum interval between operations, with optional
// random jitter added on top of each wait. Safe for concurrent use; callers
// contending on Wait are serialized.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	jitter   float64 // fraction of interval, 0.0 to 1.0
	last     time.Time
}

// New creates a Limiter allowing one operation per interval. A non-positive
// interval disables pacing entirely.
func New(interval time.Duration, jitter float64) *Limiter {
	if jitter < 0 {
		jitter = 0
	} else if jitter > 1 {
		jitter = 1
	}
	return &Limiter{interval: interval, jitter: jitter}
}

// Wait blocks until the next operation may proceed or ctx is canceled.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.interval <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	gap := l.interval
	if l.jitter > 0 {
		gap += time.Duration(rand.Float64() * l.jitter * float64(l.interval))
	}

	sleep := gap - time.Since(l.last)
	if sleep > 0 {
		timer := time.NewTimer(sleep)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	l.last = time.Now()
	return nil
}
