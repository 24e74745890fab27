package ratelimit

import (
	"sync"
	"time"
)

// resetBuffer pads the provider-advertised cool-down so we never probe early.
const resetBuffer = 5 * time.Second

// QuotaGuard tracks a provider-imposed cool-down, independent of the rolling
// window. A hard quota error suspends all guarded calls until the advertised
// reset time passes.
type QuotaGuard struct {
	mu        sync.Mutex
	exhausted bool
	resetAt   time.Time

	now func() time.Time
}

func NewQuotaGuard() *QuotaGuard {
	return &QuotaGuard{now: time.Now}
}

// ShortCircuit reports whether guarded calls must be skipped. An expired
// cool-down is cleared before the decision is made.
func (g *QuotaGuard) ShortCircuit() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.exhausted {
		return false
	}
	if g.now().Before(g.resetAt) {
		return true
	}
	g.exhausted = false
	g.resetAt = time.Time{}
	return false
}

// RecordExhaustion starts a cool-down of retryAfter plus a safety buffer.
func (g *QuotaGuard) RecordExhaustion(retryAfter time.Duration) {
	g.mu.Lock()
	g.exhausted = true
	g.resetAt = g.now().Add(retryAfter + resetBuffer)
	g.mu.Unlock()
}

// Exhausted is a read-only probe for operators; it also clears expired state.
func (g *QuotaGuard) Exhausted() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.exhausted && !g.now().Before(g.resetAt) {
		g.exhausted = false
		g.resetAt = time.Time{}
	}
	return g.exhausted
}

// ResetAt returns the cool-down deadline, if any.
func (g *QuotaGuard) ResetAt() (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.exhausted {
		return time.Time{}, false
	}
	return g.resetAt, true
}

// Reset clears the cool-down, for operator override and tests.
func (g *QuotaGuard) Reset() {
	g.mu.Lock()
	g.exhausted = false
	g.resetAt = time.Time{}
	g.mu.Unlock()
}
