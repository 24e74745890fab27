package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mailsift/internal/model"
)

type fakeSlackAPI struct {
	err      error
	channels []string
	calls    int
}

func (f *fakeSlackAPI) PostMessageContext(_ context.Context, channelID string, _ ...slack.MsgOption) (string, string, error) {
	f.calls++
	f.channels = append(f.channels, channelID)
	return channelID, "", f.err
}

func TestSlackSenderConfigured(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		channel string
		want    bool
	}{
		{"both set", "xoxb-token", "C123", true},
		{"missing token", "", "C123", false},
		{"missing channel", "xoxb-token", "", false},
		{"neither set", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSlackSender(tt.token, tt.channel, zap.NewNop())
			assert.Equal(t, tt.want, s.Configured())
		})
	}
}

func TestSlackSenderPostsToConfiguredChannel(t *testing.T) {
	api := &fakeSlackAPI{}
	s := &SlackSender{api: api, channelID: "C123", logger: zap.NewNop()}

	event := model.EmailEvent{
		Account:  "sales@example.com",
		UID:      "uid-3",
		Subject:  "Re: pricing",
		From:     "buyer@example.org",
		Date:     time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
		Category: model.CategoryInterested,
	}

	require.NoError(t, s.Send(context.Background(), event))
	assert.Equal(t, 1, api.calls)
	assert.Equal(t, []string{"C123"}, api.channels)
}

func TestSlackSenderWrapsAPIError(t *testing.T) {
	api := &fakeSlackAPI{err: errors.New("channel_not_found")}
	s := &SlackSender{api: api, channelID: "C123", logger: zap.NewNop()}

	err := s.Send(context.Background(), model.EmailEvent{Category: model.CategoryInterested})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel_not_found")
}
