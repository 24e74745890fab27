package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mailsift/internal/model"
)

func TestWebhookSenderConfigured(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"empty url", "", false},
		{"placeholder url", PlaceholderWebhookURL, false},
		{"real url", "https://hooks.example.com/x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWebhookSender(tt.url, zap.NewNop())
			assert.Equal(t, tt.want, w.Configured())
		})
	}
}

func TestWebhookSenderPostsEnvelope(t *testing.T) {
	var got webhookEnvelope
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		rw.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w := NewWebhookSender(srv.URL, zap.NewNop())
	event := model.EmailEvent{
		Account:  "sales@example.com",
		UID:      "uid-9",
		Subject:  "Re: pricing",
		From:     "buyer@example.org",
		To:       []string{"sales@example.com"},
		Date:     time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
		Category: model.CategoryInterested,
	}

	require.NoError(t, w.Send(context.Background(), event))

	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "email_interested", got.Event)
	assert.NotEmpty(t, got.Timestamp)
	assert.Equal(t, "sales@example.com", got.Data.Account)
	assert.Equal(t, "Re: pricing", got.Data.Subject)
	assert.Equal(t, "buyer@example.org", got.Data.From)
	assert.Equal(t, []string{"sales@example.com"}, got.Data.To)
	assert.Equal(t, "2025-06-01T09:30:00Z", got.Data.Date)
	assert.Equal(t, "Interested", got.Data.Category)
	assert.Equal(t, "uid-9", got.Data.UID)
}

func TestWebhookSenderNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	w := NewWebhookSender(srv.URL, zap.NewNop())
	err := w.Send(context.Background(), model.EmailEvent{Category: model.CategoryInterested})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestWebhookSenderUnreachableEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	w := NewWebhookSender(srv.URL, zap.NewNop())
	err := w.Send(context.Background(), model.EmailEvent{Category: model.CategoryInterested})
	assert.Error(t, err)
}
