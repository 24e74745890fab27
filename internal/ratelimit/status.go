package ratelimit

import "time"

// Status is the operator-facing snapshot of the limiter and quota state.
type Status struct {
	RequestCount   int     `json:"request_count"`
	Limit          int     `json:"limit"`
	WindowStart    string  `json:"window_start"`
	QuotaExhausted bool    `json:"quota_exhausted"`
	QuotaResetTime *string `json:"quota_reset_time"`
}

// BuildStatus assembles a snapshot from a limiter and guard pair.
func BuildStatus(l *Limiter, g *QuotaGuard) Status {
	count, limit, windowStart := l.Snapshot()

	s := Status{
		RequestCount:   count,
		Limit:          limit,
		WindowStart:    windowStart.UTC().Format(time.RFC3339),
		QuotaExhausted: g.Exhausted(),
	}
	if resetAt, ok := g.ResetAt(); ok {
		formatted := resetAt.UTC().Format(time.RFC3339)
		s.QuotaResetTime = &formatted
	}
	return s
}
