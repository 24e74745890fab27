package categorize

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

func TestIsQuotaError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"api error 429", genai.APIError{Code: 429, Message: "rate limited"}, true},
		{"wrapped api error 429", fmt.Errorf("generate: %w", genai.APIError{Code: 429}), true},
		{"api error 500", genai.APIError{Code: 500, Message: "internal"}, false},
		{"quota in message", errors.New("Quota exceeded for model"), true},
		{"429 in message", errors.New("got HTTP 429 from upstream"), true},
		{"resource exhausted", errors.New("rpc error: RESOURCE_EXHAUSTED"), true},
		{"ordinary failure", errors.New("connection reset by peer"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isQuotaError(tt.err))
		})
	}
}

func TestRetryAfterFrom(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want time.Duration
	}{
		{"nil", nil, defaultRetryAfter},
		{"no hint", errors.New("quota exceeded"), defaultRetryAfter},
		{"integer seconds", errors.New("Quota exceeded. Retry in 17s."), 17 * time.Second},
		{"decimal seconds", errors.New("retry in 2.5s"), 2500 * time.Millisecond},
		{"case insensitive", errors.New("RETRY IN 30S"), 30 * time.Second},
		{"extra whitespace", errors.New("please retry  in  8 s"), 8 * time.Second},
		{"zero seconds", errors.New("retry in 0s"), defaultRetryAfter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, retryAfterFrom(tt.err))
		})
	}
}
