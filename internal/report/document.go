package report

import "time"

// PlaceholderText fills the single row of a table built from no records
const PlaceholderText = "No records found"

// Document is a renderable report. It is built fresh for every export and
// discarded once serialized.
type Document struct {
	Header Header
	Stats  StatsBlock
	Tables []Table
	Footer Footer
}

// Header is the block at the top of the first page
type Header struct {
	AppName     string
	Title       string
	GeneratedAt time.Time
	// Generated is GeneratedAt formatted for display
	Generated string
	// Annotation describes the date range or category filter, if any
	Annotation string
}

// Stat is one tagged figure of the statistics block
type Stat struct {
	Label string
	Value int
	Color ColorToken
}

// StatsBlock lists the total followed by every aggregate bucket
type StatsBlock struct {
	Heading string
	Items   []Stat
}

// Column is a table column. Width is relative to the other columns.
type Column struct {
	Title string
	Width float64
}

// Cell is one table cell. Color tags the cell, ColorNone means plain text.
type Cell struct {
	Text  string
	Color ColorToken
}

// Row is a table row. Alternate marks rows drawn with the alternate
// background; Placeholder marks the single "no records" row.
type Row struct {
	Index       int
	Cells       []Cell
	Alternate   bool
	Placeholder bool
}

// Table is a titled grid
type Table struct {
	Heading string
	Columns []Column
	Rows    []Row
}

// DataRows counts the rows that carry records
func (t Table) DataRows() int {
	n := 0
	for _, r := range t.Rows {
		if !r.Placeholder {
			n++
		}
	}
	return n
}

// Footer is repeated at the bottom of every page
type Footer struct {
	Copyright string
}

// newTable assigns row indexes and alternation. An empty body becomes a
// single placeholder row.
func newTable(heading string, columns []Column, body [][]Cell) Table {
	t := Table{Heading: heading, Columns: columns}
	if len(body) == 0 {
		t.Rows = []Row{{Cells: []Cell{{Text: PlaceholderText}}, Placeholder: true}}
		return t
	}

	t.Rows = make([]Row, len(body))
	for i, cells := range body {
		t.Rows[i] = Row{Index: i, Cells: cells, Alternate: i%2 == 1}
	}
	return t
}

func text(s string) Cell {
	return Cell{Text: s}
}
