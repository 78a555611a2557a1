package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lakbaycli/internal/config"
	"lakbaycli/internal/shared/testutil"
	"lakbaycli/pkg/contracts/domain"
)

func TestPartitionCounts(t *testing.T) {
	tests := []struct {
		name       string
		categories []string
		expected   domain.AggregateCounts
	}{
		{
			name:       "no records",
			categories: nil,
			expected: domain.AggregateCounts{
				{Label: "Fire"}, {Label: "Police"}, {Label: "Ambulance/ Medical"}, {Label: "Disaster Response"}, {Label: "Others"},
			},
		},
		{
			name:       "known and unknown categories",
			categories: []string{"Fire", "Fire", "Police", "Coast Guard", "Ambulance/ Medical", ""},
			expected: domain.AggregateCounts{
				{Label: "Fire", Count: 2}, {Label: "Police", Count: 1}, {Label: "Ambulance/ Medical", Count: 1}, {Label: "Disaster Response"}, {Label: "Others", Count: 2},
			},
		},
		{
			name:       "explicit Others label lands in Others",
			categories: []string{"Others", "Disaster Response"},
			expected: domain.AggregateCounts{
				{Label: "Fire"}, {Label: "Police"}, {Label: "Ambulance/ Medical"}, {Label: "Disaster Response", Count: 1}, {Label: "Others", Count: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hotlines := testutil.Hotlines(tt.categories...)

			counts := HotlineCounts(hotlines)

			assert.Equal(t, tt.expected, counts)
			assert.Equal(t, len(hotlines), counts.Total())
		})
	}
}

func TestPartitionCounts_DuplicateCategoriesCollapse(t *testing.T) {
	counts := PartitionCounts([]string{"a", "b", "c"}, []string{"a", "a", config.OtherCategory}, func(s string) string { return s })

	assert.Equal(t, domain.AggregateCounts{{Label: "a", Count: 1}, {Label: "Others", Count: 2}}, counts)
}

func TestPartitionActive(t *testing.T) {
	for _, tc := range []struct{ total, active int }{{0, 0}, {5, 3}, {4, 4}, {7, 0}} {
		users := testutil.Users(tc.total, tc.active)

		counts := UserCounts(users)

		assert.Len(t, counts, 2)
		assert.Equal(t, tc.active, counts.Get(LabelActive))
		assert.Equal(t, tc.total-tc.active, counts.Get(LabelInactive))
		assert.Equal(t, tc.total, counts.Total())
	}

	events := EventCounts(testutil.Events(3, 1))
	assert.Equal(t, domain.AggregateCounts{{Label: "Active", Count: 1}, {Label: "Inactive", Count: 2}}, events)
}
