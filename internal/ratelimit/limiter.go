package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultLimit  = 10
	DefaultWindow = time.Minute
)

// Limiter enforces a fixed rolling window: no more than limit guarded calls
// per window. Acquire blocks until a permit is available; the count is bumped
// by the caller via Record only after the guarded call actually executed, so
// that a call suspended in Acquire is not counted twice.
type Limiter struct {
	mu          sync.Mutex
	limit       int
	window      time.Duration
	count       int
	windowStart time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewLimiter(limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		limit:       limit,
		window:      window,
		windowStart: time.Now(),
		now:         time.Now,
		sleep:       sleepContext,
	}
}

// Acquire grants a permit, suspending the caller until the current window
// expires when the limit is reached. It fails only on context cancellation.
// The check loops after every sleep: competing waiters may have refilled the
// fresh window in the meantime, and a permit is granted only while the count
// is under the limit.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	for {
		now := l.now()

		if now.Sub(l.windowStart) >= l.window {
			l.count = 0
			l.windowStart = now
		}

		if l.count < l.limit {
			l.mu.Unlock()
			return nil
		}

		wait := l.window - now.Sub(l.windowStart)
		l.mu.Unlock()

		if err := l.sleep(ctx, wait); err != nil {
			return err
		}

		l.mu.Lock()
	}
}

// Record counts one executed guarded call against the current window.
func (l *Limiter) Record() {
	l.mu.Lock()
	l.count++
	l.mu.Unlock()
}

// Reset clears the window, for operator override and tests.
func (l *Limiter) Reset() {
	l.mu.Lock()
	l.count = 0
	l.windowStart = l.now()
	l.mu.Unlock()
}

// Snapshot returns the current count, limit, and window start.
func (l *Limiter) Snapshot() (count, limit int, windowStart time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count, l.limit, l.windowStart
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
