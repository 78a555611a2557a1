package domain

import (
	"fmt"
	"time"
)

// RecordType names the kind of records a report is built from
type RecordType string

const (
	RecordTypeUsers    RecordType = "Users"
	RecordTypeEvents   RecordType = "Events"
	RecordTypeHotlines RecordType = "Hotlines"
	RecordTypeMonthly  RecordType = "Monthly"
)

// ParseRecordType maps a URL or CLI token ("users", "events", ...) to a RecordType
func ParseRecordType(s string) (RecordType, error) {
	switch s {
	case "users", "Users":
		return RecordTypeUsers, nil
	case "events", "Events":
		return RecordTypeEvents, nil
	case "hotlines", "Hotlines":
		return RecordTypeHotlines, nil
	case "monthly", "Monthly":
		return RecordTypeMonthly, nil
	default:
		return "", fmt.Errorf("unknown record type %q", s)
	}
}

// ScopeKind selects which records populate a report
type ScopeKind string

const (
	ScopeCurrentPage    ScopeKind = "current_page"
	ScopeAllRecords     ScopeKind = "all_records"
	ScopeDateRange      ScopeKind = "date_range"
	ScopeCategoryFilter ScopeKind = "category_filter"
)

// ReportScope is the resolved selection strategy for one export.
// Start and End are only meaningful for ScopeDateRange, Category only for
// ScopeCategoryFilter.
type ReportScope struct {
	Kind     ScopeKind `json:"kind"`
	Start    time.Time `json:"start,omitempty"`
	End      time.Time `json:"end,omitempty"`
	Category string    `json:"category,omitempty"`
}

// Label returns the header annotation for the scope, or "" when the scope
// carries no range or filter.
func (s ReportScope) Label() string {
	switch s.Kind {
	case ScopeDateRange:
		return fmt.Sprintf("Date Range: %s - %s", s.Start.Format("January 2, 2006"), s.End.Format("January 2, 2006"))
	case ScopeCategoryFilter:
		return "Category: " + s.Category
	default:
		return ""
	}
}

// CategoryCount is one bucket of an AggregateCounts
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// AggregateCounts is an ordered category -> count summary of a record
// collection. Order is the order categories were declared in.
type AggregateCounts []CategoryCount

// Total sums every bucket
func (a AggregateCounts) Total() int {
	total := 0
	for _, c := range a {
		total += c.Count
	}
	return total
}

// Get returns the count for label, or 0 when the label is not present
func (a AggregateCounts) Get(label string) int {
	for _, c := range a {
		if c.Label == label {
			return c.Count
		}
	}
	return 0
}
