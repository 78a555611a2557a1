package report

import (
	"fmt"
	"strconv"
	"time"

	"lakbaycli/internal/config"
	"lakbaycli/pkg/contracts/domain"
)

// GeneratedLayout is how the generation timestamp appears in headers
const GeneratedLayout = "January 2, 2006 at 3:04 PM"

// TemplateInput is everything a record template needs. Templates are pure:
// the same input always yields the same Document.
type TemplateInput[T any] struct {
	AppName     string
	Title       string
	Records     []T
	Counts      domain.AggregateCounts
	ScopeLabel  string
	GeneratedAt time.Time
	Location    *time.Location
	// DescriptionLength bounds free-text cells; zero means the default
	DescriptionLength int
}

// Template builds a Document from records of one type
type Template[T any] func(TemplateInput[T]) *Document

// UserReport lays out a user list
func UserReport(in TemplateInput[domain.User]) *Document {
	columns := []Column{
		{Title: "#", Width: 0.5},
		{Title: "Name", Width: 2},
		{Title: "Email", Width: 2.5},
		{Title: "Gender", Width: 1},
		{Title: "Role", Width: 1},
		{Title: "Status", Width: 1},
		{Title: "Joined", Width: 1.3},
	}

	body := make([][]Cell, len(in.Records))
	for i, u := range in.Records {
		body[i] = []Cell{
			text(strconv.Itoa(i + 1)),
			text(orNA(u.FullName())),
			text(orNA(u.Email)),
			text(orNA(u.Gender)),
			text(orNA(u.Role)),
			{Text: StatusLabel(u.IsActive), Color: StatusColor(u.IsActive)},
			text(FormatDate(u.CreatedAt, in.Location)),
		}
	}

	return assemble(in.AppName, in.Title, in.ScopeLabel, in.GeneratedAt, in.Location,
		statsFor("User Statistics", in.Counts),
		newTable("Users", columns, body))
}

// EventReport lays out an event list
func EventReport(in TemplateInput[domain.Event]) *Document {
	columns := []Column{
		{Title: "#", Width: 0.5},
		{Title: "Title", Width: 1.8},
		{Title: "Description", Width: 3},
		{Title: "Location", Width: 1.8},
		{Title: "Category", Width: 1.1},
		{Title: "Start Date", Width: 1.2},
		{Title: "Status", Width: 0.9},
	}

	body := make([][]Cell, len(in.Records))
	for i, e := range in.Records {
		body[i] = []Cell{
			text(strconv.Itoa(i + 1)),
			text(orNA(e.Title)),
			text(Truncate(e.Description, in.DescriptionLength)),
			text(FormatLocation(e.Venue, e.Municipality)),
			text(orNA(e.Category)),
			text(FormatDate(e.StartDate, in.Location)),
			{Text: StatusLabel(e.IsActive), Color: StatusColor(e.IsActive)},
		}
	}

	return assemble(in.AppName, in.Title, in.ScopeLabel, in.GeneratedAt, in.Location,
		statsFor("Event Statistics", in.Counts),
		newTable("Events", columns, body))
}

// HotlineReport lays out an emergency hotline directory
func HotlineReport(in TemplateInput[domain.Hotline]) *Document {
	columns := []Column{
		{Title: "#", Width: 0.5},
		{Title: "Name", Width: 2},
		{Title: "Category", Width: 1.5},
		{Title: "Phone Number", Width: 1.5},
		{Title: "Location", Width: 2.2},
		{Title: "Status", Width: 0.9},
	}

	body := make([][]Cell, len(in.Records))
	for i, h := range in.Records {
		body[i] = []Cell{
			text(strconv.Itoa(i + 1)),
			text(orNA(h.Name)),
			{Text: orNA(h.Category), Color: CategoryColor(h.Category)},
			text(orNA(h.PhoneNumber)),
			text(FormatLocation(h.Location, h.Municipality)),
			{Text: StatusLabel(h.IsActive), Color: StatusColor(h.IsActive)},
		}
	}

	return assemble(in.AppName, in.Title, in.ScopeLabel, in.GeneratedAt, in.Location,
		statsFor("Hotline Statistics", in.Counts),
		newTable("Hotlines", columns, body))
}

// statsFor lists the total first, then every bucket in order
func statsFor(heading string, counts domain.AggregateCounts) StatsBlock {
	items := make([]Stat, 0, len(counts)+1)
	items = append(items, Stat{Label: "Total", Value: counts.Total(), Color: ColorPrimary})
	for _, c := range counts {
		items = append(items, Stat{Label: c.Label, Value: c.Count, Color: countColor(c.Label)})
	}
	return StatsBlock{Heading: heading, Items: items}
}

func countColor(label string) ColorToken {
	switch label {
	case LabelActive:
		return ColorActive
	case LabelInactive:
		return ColorInactive
	default:
		return CategoryColor(label)
	}
}

func assemble(appName, title, annotation string, generatedAt time.Time, loc *time.Location, stats StatsBlock, tables ...Table) *Document {
	if appName == "" {
		appName = config.AppName
	}
	if loc != nil {
		generatedAt = generatedAt.In(loc)
	}

	return &Document{
		Header: Header{
			AppName:     appName,
			Title:       title,
			GeneratedAt: generatedAt,
			Generated:   "Generated on " + generatedAt.Format(GeneratedLayout),
			Annotation:  annotation,
		},
		Stats:  stats,
		Tables: tables,
		Footer: Footer{Copyright: Copyright(appName, generatedAt.Year())},
	}
}

// Copyright is the footer line for year
func Copyright(appName string, year int) string {
	return fmt.Sprintf("© %d %s. All rights reserved.", year, appName)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
