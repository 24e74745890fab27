package model

import "strings"

// CategoryLabel is the closed set of email categories. The first five are the
// only answers the classification provider may give; the last two are produced
// locally when the provider cannot be consulted or its answer cannot be mapped.
type CategoryLabel string

const (
	CategoryInterested    CategoryLabel = "Interested"
	CategoryMeetingBooked CategoryLabel = "Meeting Booked"
	CategoryNotInterested CategoryLabel = "Not Interested"
	CategorySpam          CategoryLabel = "Spam"
	CategoryOutOfOffice   CategoryLabel = "Out of Office"

	// CategoryPending marks emails whose categorization was deferred because
	// the provider quota is exhausted.
	CategoryPending CategoryLabel = "Pending Categorization"
	// CategoryUncategorized marks emails whose provider answer could not be
	// mapped, or whose provider call failed for a non-quota reason.
	CategoryUncategorized CategoryLabel = "Uncategorized"
)

// ProviderLabels returns the labels the provider is allowed to answer with.
func ProviderLabels() []CategoryLabel {
	return []CategoryLabel{
		CategoryInterested,
		CategoryMeetingBooked,
		CategoryNotInterested,
		CategorySpam,
		CategoryOutOfOffice,
	}
}

// ParseProviderLabel maps a raw provider response to its canonical label.
// Surrounding whitespace is ignored. Returns false for empty or unknown
// responses.
func ParseProviderLabel(raw string) (CategoryLabel, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	for _, label := range ProviderLabels() {
		if trimmed == string(label) {
			return label, true
		}
	}
	return "", false
}
