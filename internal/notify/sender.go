package notify

import (
	"context"

	"mailsift/internal/model"
)

// Sender is one external notification channel (Slack, webhook, ...).
type Sender interface {
	// Name returns the sink identifier used in logs and outcomes.
	Name() string

	// Configured reports whether the sink has usable credentials. An
	// unconfigured sink is skipped as a successful no-op.
	Configured() bool

	// Send delivers a notification for the given email event.
	Send(ctx context.Context, event model.EmailEvent) error
}

// Outcome is the per-sink result of a dispatch, kept for observability.
type Outcome struct {
	Sink    string `json:"sink"`
	Success bool   `json:"success"`
	Skipped bool   `json:"skipped"`
	Error   string `json:"error,omitempty"`
}
