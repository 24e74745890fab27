package notify

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"mailsift/internal/model"
	"mailsift/pkg/metrics"
)

// Dispatcher fans a categorized email out to the configured sinks. Sinks run
// concurrently and are joined before Notify returns; a sink failure is
// captured in its Outcome and never cancels or fails its siblings.
type Dispatcher struct {
	senders []Sender
	logger  *zap.Logger
}

func NewDispatcher(logger *zap.Logger, senders ...Sender) *Dispatcher {
	return &Dispatcher{
		senders: senders,
		logger:  logger.Named("dispatcher"),
	}
}

// Notify dispatches the event to every sink. It is a no-op unless the event
// is categorized as Interested. Notify itself never fails; all failure is
// encoded in the returned outcomes.
func (d *Dispatcher) Notify(ctx context.Context, event model.EmailEvent) []Outcome {
	if event.Category != model.CategoryInterested {
		return nil
	}

	outcomes := make([]Outcome, len(d.senders))
	var wg sync.WaitGroup
	for i, s := range d.senders {
		wg.Add(1)
		go func(i int, s Sender) {
			defer wg.Done()
			outcomes[i] = d.dispatchOne(ctx, s, event)
		}(i, s)
	}
	wg.Wait()

	for _, o := range outcomes {
		status := "success"
		if o.Skipped {
			status = "skipped"
		} else if !o.Success {
			status = "error"
		}
		metrics.IncrementNotificationOutcome(o.Sink, status)
	}

	return outcomes
}

func (d *Dispatcher) dispatchOne(ctx context.Context, s Sender, event model.EmailEvent) (outcome Outcome) {
	outcome.Sink = s.Name()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Sink panic recovered",
				zap.String("sink", s.Name()),
				zap.Any("panic", r),
			)
			outcome.Success = false
			outcome.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	if !s.Configured() {
		d.logger.Info("Sink not configured, skipping",
			zap.String("sink", s.Name()),
			zap.String("uid", event.UID),
		)
		outcome.Success = true
		outcome.Skipped = true
		return outcome
	}

	if err := s.Send(ctx, event); err != nil {
		d.logger.Error("Sink delivery failed",
			zap.String("sink", s.Name()),
			zap.String("uid", event.UID),
			zap.Error(err),
		)
		outcome.Success = false
		outcome.Error = err.Error()
		return outcome
	}

	d.logger.Info("Notification delivered",
		zap.String("sink", s.Name()),
		zap.String("uid", event.UID),
	)
	outcome.Success = true
	return outcome
}
