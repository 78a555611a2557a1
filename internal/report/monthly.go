package report

import (
	"fmt"
	"strconv"
	"time"

	"lakbaycli/pkg/contracts/domain"
)

// MonthlyInput is the already-filtered dashboard data for one month
type MonthlyInput struct {
	AppName     string
	Title       string
	Month       time.Time
	NewUsers    int
	NewPosts    int
	Events      int
	Gender      []domain.GenderSlice
	AgeGroups   []domain.AgeGroupCount
	GeneratedAt time.Time
	Location    *time.Location
}

// MonthlyReport lays out the monthly dashboard summary: headline counts,
// then the gender and age group breakdowns.
func MonthlyReport(in MonthlyInput) *Document {
	stats := StatsBlock{
		Heading: "This Month",
		Items: []Stat{
			{Label: "New Users", Value: in.NewUsers, Color: ColorPrimary},
			{Label: "New Posts", Value: in.NewPosts, Color: ColorActive},
			{Label: "Events", Value: in.Events, Color: ColorOther},
		},
	}

	genderTotal := 0
	for _, g := range in.Gender {
		genderTotal += g.Count
	}
	gender := make([][]Cell, len(in.Gender))
	for i, g := range in.Gender {
		gender[i] = []Cell{text(orNA(g.Label)), text(strconv.Itoa(g.Count)), text(Share(g.Count, genderTotal))}
	}

	ages := make([][]Cell, len(in.AgeGroups))
	for i, a := range in.AgeGroups {
		ages[i] = []Cell{text(orNA(a.Range)), text(strconv.Itoa(a.Count))}
	}

	month := in.Month
	if in.Location != nil {
		month = month.In(in.Location)
	}

	return assemble(in.AppName, in.Title, "Reporting Period: "+month.Format("January 2006"), in.GeneratedAt, in.Location,
		stats,
		newTable("Gender Distribution", []Column{{Title: "Gender", Width: 2}, {Title: "Count", Width: 1}, {Title: "Share", Width: 1}}, gender),
		newTable("Age Groups", []Column{{Title: "Age Group", Width: 2}, {Title: "Count", Width: 1}}, ages),
	)
}

// Share renders part/total as a percentage with one decimal
func Share(part, total int) string {
	if total <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)*100/float64(total))
}
