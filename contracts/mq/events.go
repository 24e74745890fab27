package mq

import "time"

// Routing keys on the events exchange.
const (
	EmailReceivedKey    = "email.received"
	EmailCategorizedKey = "email.categorized"
)

// EmailReceivedPayload is published when an email is ingested.
type EmailReceivedPayload struct {
	EmailID    int       `json:"email_id"`
	Account    string    `json:"account"`
	UID        string    `json:"uid"`
	Subject    string    `json:"subject"`
	From       string    `json:"from"`
	To         []string  `json:"to"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
	TraceID    string    `json:"trace_id,omitempty"`
}

// EmailCategorizedPayload is published after a category has been assigned.
type EmailCategorizedPayload struct {
	EmailID    int       `json:"email_id"`
	Account    string    `json:"account"`
	UID        string    `json:"uid"`
	Subject    string    `json:"subject"`
	From       string    `json:"from"`
	To         []string  `json:"to"`
	Category   string    `json:"category"`
	ReceivedAt time.Time `json:"received_at"`
	TraceID    string    `json:"trace_id,omitempty"`
}
