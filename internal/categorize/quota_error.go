package categorize

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"google.golang.org/genai"
)

// defaultRetryAfter is used when a quota error carries no usable hint.
const defaultRetryAfter = 60 * time.Second

// Provider error text is not a structured contract; everything that sniffs it
// lives here so it can be swapped per provider.

var retryAfterPattern = regexp.MustCompile(`(?i)retry\s+in\s+(\d+(?:\.\d+)?)\s*s`)

// isQuotaError reports whether err is a hard quota/rate error that should
// suspend all categorization, as opposed to an ordinary call failure.
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return true
	}

	msg := err.Error()
	if strings.Contains(strings.ToLower(msg), "quota") {
		return true
	}
	return strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

// retryAfterFrom extracts the provider-advertised cool-down ("retry in Ns",
// case-insensitive, decimal N) from the error text, defaulting to 60s.
func retryAfterFrom(err error) time.Duration {
	if err == nil {
		return defaultRetryAfter
	}

	m := retryAfterPattern.FindStringSubmatch(err.Error())
	if len(m) < 2 {
		return defaultRetryAfter
	}

	seconds, parseErr := strconv.ParseFloat(m[1], 64)
	if parseErr != nil || seconds <= 0 {
		return defaultRetryAfter
	}
	return time.Duration(seconds * float64(time.Second))
}
