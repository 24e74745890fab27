package mqhandler

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	mqcontracts "mailsift/contracts/mq"
	"mailsift/internal/model"
	"mailsift/internal/notify"
	"mailsift/pkg/logger"
	"mailsift/pkg/trace"
)

type notifier interface {
	Notify(ctx context.Context, event model.EmailEvent) []notify.Outcome
}

type outcomeLog interface {
	Insert(ctx context.Context, log *model.NotificationLog) error
}

type dedupe interface {
	AcquireOnce(ctx context.Context, handler, uid string) bool
	Release(ctx context.Context, handler, uid string)
}

// EmailCategorizedNotifyHandler consumes email.categorized events and fans
// them out to the notification sinks. Dispatch happens at most once per email
// uid: redeliveries after the sinks have fired are deduped, so a failure to
// record the outcome log never causes a duplicate Slack message.
type EmailCategorizedNotifyHandler struct {
	dispatcher notifier
	logRepo    outcomeLog
	deduper    dedupe
	logger     *zap.Logger
}

func NewEmailCategorizedNotifyHandler(
	dispatcher notifier,
	logRepo outcomeLog,
	deduper dedupe,
	log *zap.Logger,
) *EmailCategorizedNotifyHandler {
	return &EmailCategorizedNotifyHandler{
		dispatcher: dispatcher,
		logRepo:    logRepo,
		deduper:    deduper,
		logger:     log,
	}
}

func (h *EmailCategorizedNotifyHandler) HandleEmailCategorized(ctx context.Context, raw json.RawMessage) error {
	var p mqcontracts.EmailCategorizedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal email categorized payload",
			zap.Error(err),
			zap.String("raw_payload", string(raw)),
		)
		return fmt.Errorf("json: %w", err)
	}

	if p.TraceID != "" {
		ctx = trace.WithContext(ctx, p.TraceID)
	}
	log := logger.WithTrace(ctx, h.logger)

	event := model.EmailEvent{
		Account:  p.Account,
		UID:      p.UID,
		Subject:  p.Subject,
		From:     p.From,
		To:       p.To,
		Date:     p.ReceivedAt,
		Category: model.CategoryLabel(p.Category),
	}

	if event.Category != model.CategoryInterested {
		log.Debug("No notification for category",
			zap.String("uid", p.UID),
			zap.String("category", p.Category),
		)
		return nil
	}

	if !h.deduper.AcquireOnce(ctx, "notify", p.UID) {
		log.Info("Skipped duplicated notify event",
			zap.String("uid", p.UID),
		)
		return nil
	}

	outcomes := h.dispatcher.Notify(ctx, event)

	// Outcome rows are best effort: the sinks already fired, so a log
	// failure must not trigger redelivery.
	for _, o := range outcomes {
		row := &model.NotificationLog{
			EmailUID: p.UID,
			Sink:     o.Sink,
			Success:  o.Success,
			Error:    o.Error,
		}
		if err := h.logRepo.Insert(ctx, row); err != nil {
			log.Error("Failed to record notification outcome",
				zap.String("uid", p.UID),
				zap.String("sink", o.Sink),
				zap.Error(err),
			)
		}
	}

	return nil
}
