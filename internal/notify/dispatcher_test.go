package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mailsift/internal/model"
)

type stubSender struct {
	name       string
	configured bool
	err        error
	panicMsg   string
	calls      int
}

func (s *stubSender) Name() string     { return s.name }
func (s *stubSender) Configured() bool { return s.configured }

func (s *stubSender) Send(_ context.Context, _ model.EmailEvent) error {
	s.calls++
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	return s.err
}

func interestedEvent() model.EmailEvent {
	return model.EmailEvent{
		Account:  "sales@example.com",
		UID:      "uid-1",
		Subject:  "Re: pricing",
		From:     "buyer@example.org",
		To:       []string{"sales@example.com"},
		Date:     time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
		Category: model.CategoryInterested,
	}
}

func findOutcome(t *testing.T, outcomes []Outcome, sink string) Outcome {
	t.Helper()
	for _, o := range outcomes {
		if o.Sink == sink {
			return o
		}
	}
	t.Fatalf("no outcome for sink %q", sink)
	return Outcome{}
}

func TestNotifySkipsNonInterestedCategories(t *testing.T) {
	s := &stubSender{name: "slack", configured: true}
	d := NewDispatcher(zap.NewNop(), s)

	for _, category := range []model.CategoryLabel{
		model.CategorySpam,
		model.CategoryNotInterested,
		model.CategoryMeetingBooked,
		model.CategoryOutOfOffice,
		model.CategoryPending,
		model.CategoryUncategorized,
	} {
		event := interestedEvent()
		event.Category = category
		outcomes := d.Notify(context.Background(), event)
		assert.Nil(t, outcomes, "category %q must not notify", category)
	}
	assert.Equal(t, 0, s.calls)
}

func TestNotifyFansOutToAllConfiguredSinks(t *testing.T) {
	slack := &stubSender{name: "slack", configured: true}
	webhook := &stubSender{name: "webhook", configured: true}
	d := NewDispatcher(zap.NewNop(), slack, webhook)

	outcomes := d.Notify(context.Background(), interestedEvent())

	require.Len(t, outcomes, 2)
	assert.Equal(t, 1, slack.calls)
	assert.Equal(t, 1, webhook.calls)
	for _, o := range outcomes {
		assert.True(t, o.Success)
		assert.False(t, o.Skipped)
		assert.Empty(t, o.Error)
	}
}

func TestNotifyUnconfiguredSinkIsSkippedNotFailed(t *testing.T) {
	slack := &stubSender{name: "slack", configured: false}
	webhook := &stubSender{name: "webhook", configured: true}
	d := NewDispatcher(zap.NewNop(), slack, webhook)

	outcomes := d.Notify(context.Background(), interestedEvent())
	require.Len(t, outcomes, 2)

	skipped := findOutcome(t, outcomes, "slack")
	assert.True(t, skipped.Success)
	assert.True(t, skipped.Skipped)
	assert.Equal(t, 0, slack.calls)

	sent := findOutcome(t, outcomes, "webhook")
	assert.True(t, sent.Success)
	assert.False(t, sent.Skipped)
}

func TestNotifyOneSinkFailureDoesNotAffectOthers(t *testing.T) {
	slack := &stubSender{name: "slack", configured: true, err: errors.New("channel_not_found")}
	webhook := &stubSender{name: "webhook", configured: true}
	d := NewDispatcher(zap.NewNop(), slack, webhook)

	outcomes := d.Notify(context.Background(), interestedEvent())
	require.Len(t, outcomes, 2)

	failed := findOutcome(t, outcomes, "slack")
	assert.False(t, failed.Success)
	assert.Contains(t, failed.Error, "channel_not_found")

	sent := findOutcome(t, outcomes, "webhook")
	assert.True(t, sent.Success)
	assert.Equal(t, 1, webhook.calls)
}

func TestNotifyRecoversSinkPanic(t *testing.T) {
	slack := &stubSender{name: "slack", configured: true, panicMsg: "boom"}
	webhook := &stubSender{name: "webhook", configured: true}
	d := NewDispatcher(zap.NewNop(), slack, webhook)

	outcomes := d.Notify(context.Background(), interestedEvent())
	require.Len(t, outcomes, 2)

	panicked := findOutcome(t, outcomes, "slack")
	assert.False(t, panicked.Success)
	assert.Contains(t, panicked.Error, "boom")

	assert.True(t, findOutcome(t, outcomes, "webhook").Success)
}

func TestNotifyNoSenders(t *testing.T) {
	d := NewDispatcher(zap.NewNop())
	outcomes := d.Notify(context.Background(), interestedEvent())
	assert.Empty(t, outcomes)
}
