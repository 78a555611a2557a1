package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lakbaycli/pkg/contracts/domain"
)

func TestFilename(t *testing.T) {
	generated := time.Date(2024, time.June, 15, 10, 30, 0, 0, manila)
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, manila)
	end := time.Date(2024, time.June, 30, 23, 59, 59, 999_000_000, manila)

	tests := []struct {
		name       string
		recordType domain.RecordType
		scope      domain.ReportScope
		ext        string
		expected   string
	}{
		{
			name:       "current page",
			recordType: domain.RecordTypeUsers,
			scope:      domain.ReportScope{Kind: domain.ScopeCurrentPage},
			ext:        "pdf",
			expected:   "LakbayCavite_Users_2024-06-15.pdf",
		},
		{
			name:       "all records xlsx",
			recordType: domain.RecordTypeEvents,
			scope:      domain.ReportScope{Kind: domain.ScopeAllRecords},
			ext:        "xlsx",
			expected:   "LakbayCavite_Events_2024-06-15.xlsx",
		},
		{
			name:       "date range",
			recordType: domain.RecordTypeEvents,
			scope:      domain.ReportScope{Kind: domain.ScopeDateRange, Start: start, End: end},
			ext:        "pdf",
			expected:   "LakbayCavite_Events_2024-06-01_to_2024-06-30.pdf",
		},
		{
			name:       "category with slash",
			recordType: domain.RecordTypeHotlines,
			scope:      domain.ReportScope{Kind: domain.ScopeCategoryFilter, Category: "Ambulance/ Medical"},
			ext:        "pdf",
			expected:   "LakbayCavite_Hotlines_Ambulance_Medical_2024-06-15.pdf",
		},
		{
			name:       "category with spaces",
			recordType: domain.RecordTypeHotlines,
			scope:      domain.ReportScope{Kind: domain.ScopeCategoryFilter, Category: "Disaster Response"},
			ext:        "csv",
			expected:   "LakbayCavite_Hotlines_Disaster_Response_2024-06-15.csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Filename("LakbayCavite", tt.recordType, tt.scope, generated, tt.ext))
		})
	}
}

func TestMonthlyFilename(t *testing.T) {
	assert.Equal(t, "LakbayCavite_Monthly_Report_2024-06.pdf", MonthlyFilename("LakbayCavite", time.Date(2024, time.June, 1, 0, 0, 0, 0, manila), "pdf"))
	assert.Equal(t, "Lakbay_Cavite_Monthly_Report_2025-01.csv", MonthlyFilename("Lakbay Cavite", time.Date(2025, time.January, 1, 0, 0, 0, 0, manila), "csv"))
}

func TestDayBounds(t *testing.T) {
	noonUTC := time.Date(2024, time.June, 1, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, time.June, 2, 0, 0, 0, 0, manila), StartOfDay(noonUTC, manila))
	assert.Equal(t, time.Date(2024, time.June, 2, 23, 59, 59, 999_000_000, manila), EndOfDay(noonUTC, manila))
}
