package categorize

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mailsift/internal/model"
	"mailsift/internal/ratelimit"
)

type fakeProvider struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (p *fakeProvider) GenerateText(_ context.Context, prompt string) (string, error) {
	p.calls++
	p.prompts = append(p.prompts, prompt)
	return p.response, p.err
}

func newTestCategorizer(p Provider) *Categorizer {
	limiter := ratelimit.NewLimiter(ratelimit.DefaultLimit, ratelimit.DefaultWindow)
	return NewCategorizer(p, limiter, ratelimit.NewQuotaGuard(), zap.NewNop())
}

func TestCategorizeMapsProviderLabels(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     model.CategoryLabel
	}{
		{"exact match", "Interested", model.CategoryInterested},
		{"surrounding whitespace", "  Meeting Booked  \n", model.CategoryMeetingBooked},
		{"not interested", "Not Interested", model.CategoryNotInterested},
		{"spam", "Spam", model.CategorySpam},
		{"out of office", "Out of Office", model.CategoryOutOfOffice},
		{"unknown label", "Foo", model.CategoryUncategorized},
		{"wrong case", "interested", model.CategoryUncategorized},
		{"empty response", "", model.CategoryUncategorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCategorizer(&fakeProvider{response: tt.response})
			got := c.Categorize(context.Background(), "some email text")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategorizeTruncatesLongBodies(t *testing.T) {
	p := &fakeProvider{response: "Spam"}
	c := newTestCategorizer(p)

	body := strings.Repeat("a", 2000)
	c.Categorize(context.Background(), body)

	require.Len(t, p.prompts, 1)
	assert.Contains(t, p.prompts[0], strings.Repeat("a", 500))
	assert.NotContains(t, p.prompts[0], strings.Repeat("a", 501))
}

func TestCategorizeProviderErrorReturnsUncategorized(t *testing.T) {
	p := &fakeProvider{err: errors.New("connection refused")}
	c := newTestCategorizer(p)

	got := c.Categorize(context.Background(), "text")
	assert.Equal(t, model.CategoryUncategorized, got)
	assert.False(t, c.QuotaExhausted(), "a plain failure must not start a cool-down")

	// Failed calls do not consume a permit.
	assert.Equal(t, 0, c.QuotaStatus().RequestCount)
}

func TestCategorizeQuotaErrorStartsCoolDown(t *testing.T) {
	p := &fakeProvider{err: errors.New("429 RESOURCE_EXHAUSTED: Quota exceeded. Retry in 12s.")}
	c := newTestCategorizer(p)

	got := c.Categorize(context.Background(), "text")
	assert.Equal(t, model.CategoryPending, got)
	assert.True(t, c.QuotaExhausted())

	// While the cool-down runs, the provider is never consulted again.
	got = c.Categorize(context.Background(), "other text")
	assert.Equal(t, model.CategoryPending, got)
	assert.Equal(t, 1, p.calls)
}

func TestCategorizeResetQuotaResumesCalls(t *testing.T) {
	p := &fakeProvider{err: errors.New("quota exceeded")}
	c := newTestCategorizer(p)

	c.Categorize(context.Background(), "text")
	require.True(t, c.QuotaExhausted())

	p.err = nil
	p.response = "Interested"
	c.ResetQuota()

	got := c.Categorize(context.Background(), "text")
	assert.Equal(t, model.CategoryInterested, got)
	assert.Equal(t, 1, c.QuotaStatus().RequestCount)
}

func TestCategorizeSuccessConsumesOnePermit(t *testing.T) {
	p := &fakeProvider{response: "Interested"}
	c := newTestCategorizer(p)

	for i := 0; i < 3; i++ {
		c.Categorize(context.Background(), "text")
	}
	assert.Equal(t, 3, c.QuotaStatus().RequestCount)
}

func TestCategorizeCancelledContextReturnsPending(t *testing.T) {
	p := &fakeProvider{response: "Interested"}
	limiter := ratelimit.NewLimiter(1, time.Hour)
	c := NewCategorizer(p, limiter, ratelimit.NewQuotaGuard(), zap.NewNop())

	require.Equal(t, model.CategoryInterested, c.Categorize(context.Background(), "text"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := c.Categorize(ctx, "text")
	assert.Equal(t, model.CategoryPending, got)
	assert.Equal(t, 1, p.calls, "a cancelled wait must not reach the provider")
}
