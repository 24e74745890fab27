package model

import "time"

// Email is the persisted form of an ingested message.
type Email struct {
	ID         int           `json:"id"`
	Account    string        `json:"account"`
	UID        string        `json:"uid"`
	Subject    string        `json:"subject"`
	Sender     string        `json:"sender"`
	Recipients []string      `json:"recipients"`
	Body       string        `json:"body,omitempty"`
	Category   CategoryLabel `json:"category"`
	Status     string        `json:"status"` // received | categorized
	ReceivedAt time.Time     `json:"received_at"`
	CreatedAt  time.Time     `json:"created_at"`
}

// EmailEvent is the read-only view handed to the notification dispatcher.
type EmailEvent struct {
	Account  string        `json:"account"`
	UID      string        `json:"uid"`
	Subject  string        `json:"subject"`
	From     string        `json:"from"`
	To       []string      `json:"to"`
	Date     time.Time     `json:"date"`
	Category CategoryLabel `json:"category"`
}

type NotificationLog struct {
	ID        int       `json:"id"`
	EmailUID  string    `json:"email_uid"`
	Sink      string    `json:"sink"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
