package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"mailsift/internal/model"
	"mailsift/pkg/circuitbreaker"
)

const (
	webhookTimeout = 5 * time.Second

	// PlaceholderWebhookURL is the config template value; it means "not
	// configured" and disables the sink.
	PlaceholderWebhookURL = "https://webhook.site/your-unique-url"
)

// webhookEnvelope is the JSON payload POSTed to the webhook endpoint.
type webhookEnvelope struct {
	Event     string      `json:"event"`
	Timestamp string      `json:"timestamp"`
	Data      webhookData `json:"data"`
}

type webhookData struct {
	Account  string   `json:"account"`
	Subject  string   `json:"subject"`
	From     string   `json:"from"`
	To       []string `json:"to"`
	Date     string   `json:"date"`
	Category string   `json:"category"`
	UID      string   `json:"uid"`
}

// WebhookSender POSTs an email_interested event to a configured URL. The POST
// runs behind a circuit breaker so a dead endpoint fails fast instead of
// eating the full timeout on every dispatch.
type WebhookSender struct {
	url        string
	httpClient *http.Client
	cb         *circuitbreaker.CircuitBreaker
	logger     *zap.Logger
}

func NewWebhookSender(url string, logger *zap.Logger) *WebhookSender {
	return &WebhookSender{
		url: url,
		httpClient: &http.Client{
			Timeout: webhookTimeout,
		},
		cb:     circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig()),
		logger: logger.Named("webhook-sender"),
	}
}

func (w *WebhookSender) Name() string { return "webhook" }

func (w *WebhookSender) Configured() bool {
	return w.url != "" && w.url != PlaceholderWebhookURL
}

func (w *WebhookSender) Send(ctx context.Context, event model.EmailEvent) error {
	envelope := webhookEnvelope{
		Event:     "email_interested",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data: webhookData{
			Account:  event.Account,
			Subject:  event.Subject,
			From:     event.From,
			To:       event.To,
			Date:     event.Date.UTC().Format(time.RFC3339),
			Category: string(event.Category),
			UID:      event.UID,
		},
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	return w.cb.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := w.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("webhook post failed: %w", err)
		}
		defer func() {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}()

		if resp.StatusCode >= 300 {
			return fmt.Errorf("webhook returned status %d", resp.StatusCode)
		}

		w.logger.Debug("Webhook delivered", zap.String("uid", event.UID))
		return nil
	})
}
