package categorize

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mailsift/internal/model"
	"mailsift/internal/ratelimit"
	"mailsift/pkg/metrics"
)

const (
	// maxPromptChars bounds how much of the email body is sent to the provider.
	maxPromptChars = 500

	// providerTimeout bounds a single classification call.
	providerTimeout = 30 * time.Second
)

const promptTemplate = `Categorize the following email into exactly one of these categories: Interested, Meeting Booked, Not Interested, Spam, Out of Office.

Respond with only the category name.

Email:
%s`

// Categorizer assigns a CategoryLabel to email text. Every provider call is
// guarded by the rolling rate limiter and the quota cool-down; the two are
// kept independent so steady-state traffic obeys the window while a hard 429
// suspends the whole pipeline for the provider-advertised duration.
type Categorizer struct {
	provider Provider
	limiter  *ratelimit.Limiter
	guard    *ratelimit.QuotaGuard
	logger   *zap.Logger
}

func NewCategorizer(provider Provider, limiter *ratelimit.Limiter, guard *ratelimit.QuotaGuard, logger *zap.Logger) *Categorizer {
	return &Categorizer{
		provider: provider,
		limiter:  limiter,
		guard:    guard,
		logger:   logger,
	}
}

// Categorize never fails: every degraded path collapses into one of the
// synthetic labels. Quota cool-down active -> Pending Categorization without
// consuming a rate-limit permit. Provider quota error -> records the cool-down
// and returns Pending Categorization. Any other failure or an unmappable
// answer -> Uncategorized.
func (c *Categorizer) Categorize(ctx context.Context, text string) model.CategoryLabel {
	if c.guard.ShortCircuit() {
		metrics.IncrementQuotaShortCircuit()
		c.logger.Debug("Categorization short-circuited, provider quota exhausted")
		return model.CategoryPending
	}

	waitStart := time.Now()
	if err := c.limiter.Acquire(ctx); err != nil {
		// Context cancelled while waiting for a permit; the provider was
		// never consulted.
		c.logger.Warn("Rate limit wait aborted", zap.Error(err))
		return model.CategoryPending
	}
	metrics.ObserveRateLimitWait(time.Since(waitStart))

	prompt := fmt.Sprintf(promptTemplate, truncate(text, maxPromptChars))

	callCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	start := time.Now()
	raw, err := c.provider.GenerateText(callCtx, prompt)
	if err != nil {
		if isQuotaError(err) {
			retryAfter := retryAfterFrom(err)
			c.guard.RecordExhaustion(retryAfter)
			metrics.RecordCategorizeLatency("quota_exhausted", time.Since(start))
			c.logger.Warn("Provider quota exhausted, suspending categorization",
				zap.Duration("retry_after", retryAfter),
				zap.Error(err),
			)
			return model.CategoryPending
		}

		metrics.RecordCategorizeLatency("error", time.Since(start))
		c.logger.Error("Provider call failed", zap.Error(err))
		return model.CategoryUncategorized
	}

	c.limiter.Record()
	metrics.RecordCategorizeLatency("success", time.Since(start))

	label, ok := model.ParseProviderLabel(raw)
	if !ok {
		c.logger.Warn("Unrecognized provider response", zap.String("response", raw))
		return model.CategoryUncategorized
	}
	return label
}

// QuotaStatus returns the operator snapshot of the limiter and quota state.
func (c *Categorizer) QuotaStatus() ratelimit.Status {
	return ratelimit.BuildStatus(c.limiter, c.guard)
}

// QuotaExhausted is a read-only probe.
func (c *Categorizer) QuotaExhausted() bool {
	return c.guard.Exhausted()
}

// ResetQuota clears both the rolling window and the quota cool-down.
func (c *Categorizer) ResetQuota() {
	c.limiter.Reset()
	c.guard.Reset()
}

// truncate cuts s to at most n runes without splitting a code point.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
