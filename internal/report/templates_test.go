package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lakbaycli/internal/shared/testutil"
	"lakbaycli/pkg/contracts/domain"
)

var manila = time.FixedZone("PST", 8*60*60)

func TestUserReport_Stats(t *testing.T) {
	users := testutil.Users(5, 3)

	doc := UserReport(TemplateInput[domain.User]{
		AppName:     "Lakbay Cavite",
		Title:       "User Report",
		Records:     users,
		Counts:      UserCounts(users),
		GeneratedAt: testutil.FixedNow,
		Location:    manila,
	})

	require.Len(t, doc.Stats.Items, 3)
	assert.Equal(t, Stat{Label: "Total", Value: 5, Color: ColorPrimary}, doc.Stats.Items[0])
	assert.Equal(t, Stat{Label: "Active", Value: 3, Color: ColorActive}, doc.Stats.Items[1])
	assert.Equal(t, Stat{Label: "Inactive", Value: 2, Color: ColorInactive}, doc.Stats.Items[2])
}

func TestUserReport_RowsInInputOrder(t *testing.T) {
	users := testutil.Users(4, 2)

	doc := UserReport(TemplateInput[domain.User]{Records: users, Counts: UserCounts(users), GeneratedAt: testutil.FixedNow})

	require.Len(t, doc.Tables, 1)
	table := doc.Tables[0]
	assert.Equal(t, 4, table.DataRows())
	for i, row := range table.Rows {
		assert.Equal(t, i, row.Index)
		assert.Equal(t, i%2 == 1, row.Alternate, "row %d", i)
		assert.False(t, row.Placeholder)
		assert.Equal(t, users[i].FullName(), row.Cells[1].Text)
		assert.Len(t, row.Cells, len(table.Columns))
	}
	assert.Equal(t, ColorActive, table.Rows[0].Cells[5].Color)
	assert.Equal(t, ColorInactive, table.Rows[3].Cells[5].Color)
}

func TestTemplates_EmptyInputRendersPlaceholder(t *testing.T) {
	docs := map[string]*Document{
		"users":    UserReport(TemplateInput[domain.User]{Counts: UserCounts(nil), GeneratedAt: testutil.FixedNow}),
		"events":   EventReport(TemplateInput[domain.Event]{Counts: EventCounts(nil), GeneratedAt: testutil.FixedNow}),
		"hotlines": HotlineReport(TemplateInput[domain.Hotline]{Counts: HotlineCounts(nil), GeneratedAt: testutil.FixedNow}),
	}

	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			require.Len(t, doc.Tables, 1)
			table := doc.Tables[0]
			require.Len(t, table.Rows, 1)
			assert.True(t, table.Rows[0].Placeholder)
			assert.Equal(t, PlaceholderText, table.Rows[0].Cells[0].Text)
			assert.Equal(t, 0, table.DataRows())
			assert.Equal(t, 0, doc.Stats.Items[0].Value)
		})
	}
}

func TestEventReport_UsesFormatters(t *testing.T) {
	events := []domain.Event{
		{Title: "Regatta", Description: strings.Repeat("x", 90), Venue: "Plaza", Municipality: "San Agustin", StartDate: testutil.FixedNow, IsActive: true},
		{Title: "Night Market"},
	}

	doc := EventReport(TemplateInput[domain.Event]{
		Records:     events,
		Counts:      EventCounts(events),
		GeneratedAt: testutil.FixedNow,
		Location:    manila,
	})

	rows := doc.Tables[0].Rows
	assert.Equal(t, strings.Repeat("x", 70)+"...", rows[0].Cells[2].Text)
	assert.Equal(t, "Plaza, San Agustin", rows[0].Cells[3].Text)
	assert.Equal(t, "Jun 15, 2024", rows[0].Cells[5].Text)
	assert.Equal(t, NoDescription, rows[1].Cells[2].Text)
	assert.Equal(t, NoLocation, rows[1].Cells[3].Text)
	assert.Equal(t, "N/A", rows[1].Cells[5].Text)
}

func TestHotlineReport_CategoryColors(t *testing.T) {
	hotlines := testutil.Hotlines("Fire", "Coast Guard", "Ambulance/ Medical")

	doc := HotlineReport(TemplateInput[domain.Hotline]{
		Records:     hotlines,
		Counts:      HotlineCounts(hotlines),
		GeneratedAt: testutil.FixedNow,
	})

	rows := doc.Tables[0].Rows
	assert.Equal(t, ColorFire, rows[0].Cells[2].Color)
	assert.Equal(t, ColorOther, rows[1].Cells[2].Color)
	assert.Equal(t, ColorMedical, rows[2].Cells[2].Color)

	labels := make([]string, 0, len(doc.Stats.Items))
	for _, s := range doc.Stats.Items {
		labels = append(labels, s.Label)
		assert.NotEqual(t, ColorNone, s.Color, s.Label)
	}
	assert.Equal(t, []string{"Total", "Fire", "Police", "Ambulance/ Medical", "Disaster Response", "Others"}, labels)
	assert.Equal(t, 1, doc.Stats.Items[5].Value)
}

func TestTemplates_HeaderAndFooter(t *testing.T) {
	generated := time.Date(2025, time.December, 31, 20, 0, 0, 0, time.UTC)

	doc := UserReport(TemplateInput[domain.User]{
		AppName:     "Lakbay Cavite",
		Title:       "User Report",
		ScopeLabel:  "Date Range: June 1, 2024 - June 30, 2024",
		GeneratedAt: generated,
		Location:    manila,
	})

	assert.Equal(t, "Lakbay Cavite", doc.Header.AppName)
	assert.Equal(t, "User Report", doc.Header.Title)
	assert.Equal(t, "Generated on January 1, 2026 at 4:00 AM", doc.Header.Generated)
	assert.Equal(t, "Date Range: June 1, 2024 - June 30, 2024", doc.Header.Annotation)
	assert.Equal(t, "© 2026 Lakbay Cavite. All rights reserved.", doc.Footer.Copyright)
}

func TestTemplates_Deterministic(t *testing.T) {
	users := testutil.Users(3, 1)
	in := TemplateInput[domain.User]{Records: users, Counts: UserCounts(users), GeneratedAt: testutil.FixedNow}

	assert.Equal(t, UserReport(in), UserReport(in))
}

func TestMonthlyReport(t *testing.T) {
	doc := MonthlyReport(MonthlyInput{
		AppName:  "Lakbay Cavite",
		Title:    "Monthly Report",
		Month:    time.Date(2024, time.June, 1, 0, 0, 0, 0, manila),
		NewUsers: 4,
		NewPosts: 2,
		Events:   1,
		Gender: []domain.GenderSlice{
			{Label: "Male", Count: 3},
			{Label: "Female", Count: 1},
		},
		GeneratedAt: testutil.FixedNow,
		Location:    manila,
	})

	assert.Equal(t, "Reporting Period: June 2024", doc.Header.Annotation)
	assert.Equal(t, []Stat{
		{Label: "New Users", Value: 4, Color: ColorPrimary},
		{Label: "New Posts", Value: 2, Color: ColorActive},
		{Label: "Events", Value: 1, Color: ColorOther},
	}, doc.Stats.Items)

	require.Len(t, doc.Tables, 2)
	gender := doc.Tables[0]
	assert.Equal(t, "Gender Distribution", gender.Heading)
	assert.Equal(t, []Cell{{Text: "Male"}, {Text: "3"}, {Text: "75.0%"}}, gender.Rows[0].Cells)
	assert.True(t, gender.Rows[1].Alternate)

	ages := doc.Tables[1]
	require.Len(t, ages.Rows, 1)
	assert.True(t, ages.Rows[0].Placeholder)
}

func TestShare(t *testing.T) {
	assert.Equal(t, "0.0%", Share(0, 0))
	assert.Equal(t, "33.3%", Share(1, 3))
	assert.Equal(t, "100.0%", Share(2, 2))
}
