package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProviderLabel(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  CategoryLabel
		valid bool
	}{
		{"interested", "Interested", CategoryInterested, true},
		{"meeting booked", "Meeting Booked", CategoryMeetingBooked, true},
		{"leading and trailing whitespace", "\n  Out of Office \t", CategoryOutOfOffice, true},
		{"wrong case", "SPAM", "", false},
		{"synthetic label rejected", "Pending Categorization", "", false},
		{"empty", "", "", false},
		{"whitespace only", "   ", "", false},
		{"free text", "This email looks Interested", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseProviderLabel(tt.raw)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProviderLabelsExcludesSyntheticCategories(t *testing.T) {
	labels := ProviderLabels()
	assert.Len(t, labels, 5)
	assert.NotContains(t, labels, CategoryPending)
	assert.NotContains(t, labels, CategoryUncategorized)
}
