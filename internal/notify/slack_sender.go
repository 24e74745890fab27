package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"mailsift/internal/model"
)

// slackPoster is the slice of the Slack API the sender uses; tests stub it.
type slackPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackSender posts a structured message to a Slack channel.
type SlackSender struct {
	api       slackPoster
	channelID string
	logger    *zap.Logger
}

// NewSlackSender builds the sink. With an empty bot token or channel id the
// sink stays unconfigured and dispatches become logged no-ops.
func NewSlackSender(botToken, channelID string, logger *zap.Logger) *SlackSender {
	s := &SlackSender{
		channelID: channelID,
		logger:    logger.Named("slack-sender"),
	}
	if botToken != "" && channelID != "" {
		s.api = slack.New(botToken)
	}
	return s
}

func (s *SlackSender) Name() string { return "slack" }

func (s *SlackSender) Configured() bool { return s.api != nil }

func (s *SlackSender) Send(ctx context.Context, event model.EmailEvent) error {
	header := slack.NewHeaderBlock(
		slack.NewTextBlockObject(slack.PlainTextType, "New Interested Email!", false, false),
	)
	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*From:*\n%s", event.From), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Account:*\n%s", event.Account), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Subject:*\n%s", event.Subject), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Date:*\n%s", event.Date.Format(time.RFC1123)), false, false),
	}
	section := slack.NewSectionBlock(nil, fields, nil)

	_, _, err := s.api.PostMessageContext(ctx, s.channelID,
		slack.MsgOptionBlocks(header, section),
	)
	if err != nil {
		return fmt.Errorf("slack post failed: %w", err)
	}
	return nil
}
