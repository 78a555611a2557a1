package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"lakbaycli/internal/report"
)

const xlsxSheet = "Report"

// XLSXRenderer writes a document as a single worksheet with excelize
type XLSXRenderer struct{}

// NewXLSXRenderer creates an XLSX renderer
func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

func (r *XLSXRenderer) Extension() string { return "xlsx" }
func (r *XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Render implements Renderer
func (r *XLSXRenderer) Render(doc *report.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("xlsx: nil document")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	w := &xlsxWriter{f: f, styles: make(map[string]int)}
	w.header(doc.Header)
	w.stats(doc.Stats)
	for _, t := range doc.Tables {
		w.table(t)
	}
	w.row++
	w.set(1, doc.Footer.Copyright, w.style("muted", &excelize.Style{Font: &excelize.Font{Italic: true, Color: hex(colorTextMuted)}}))

	for i := 1; i <= w.maxCol; i++ {
		col, _ := excelize.ColumnNumberToName(i)
		width := 15.0
		if cw, ok := w.widths[i]; ok && cw > width {
			width = cw
		}
		if err := f.SetColWidth(xlsxSheet, col, col, width); err != nil {
			w.fail(err)
		}
	}

	if w.err != nil {
		return nil, fmt.Errorf("xlsx: %w", w.err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: write: %w", err)
	}
	return buf.Bytes(), nil
}

type xlsxWriter struct {
	f      *excelize.File
	row    int
	maxCol int
	widths map[int]float64
	styles map[string]int
	err    error
}

func (w *xlsxWriter) fail(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// style registers a named style once
func (w *xlsxWriter) style(name string, s *excelize.Style) int {
	if id, ok := w.styles[name]; ok {
		return id
	}
	id, err := w.f.NewStyle(s)
	w.fail(err)
	w.styles[name] = id
	return id
}

func (w *xlsxWriter) fillStyle(name string, fill [3]int, fontColor string, bold bool) int {
	return w.style(name, &excelize.Style{
		Font: &excelize.Font{Bold: bold, Color: fontColor},
		Fill: excelize.Fill{Type: "pattern", Color: []string{hex(fill)}, Pattern: 1},
	})
}

// set writes value into column col of the current row
func (w *xlsxWriter) set(col int, value interface{}, style int) {
	cell, err := excelize.CoordinatesToCellName(col, w.row)
	if err != nil {
		w.fail(err)
		return
	}
	w.fail(w.f.SetCellValue(xlsxSheet, cell, value))
	if style != 0 {
		w.fail(w.f.SetCellStyle(xlsxSheet, cell, cell, style))
	}
	if col > w.maxCol {
		w.maxCol = col
	}
}

func (w *xlsxWriter) header(h report.Header) {
	w.row = 1
	w.set(1, h.AppName, w.style("app", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16, Color: hex(rgb(report.ColorPrimary))}}))
	w.row++
	w.set(1, h.Title, w.style("title", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 13}}))
	w.row++
	w.set(1, h.Generated, 0)
	if h.Annotation != "" {
		w.row++
		w.set(1, h.Annotation, w.style("annotation", &excelize.Style{Font: &excelize.Font{Italic: true}}))
	}
	w.row += 2
}

func (w *xlsxWriter) stats(s report.StatsBlock) {
	if len(s.Items) == 0 {
		return
	}
	if s.Heading != "" {
		w.set(1, s.Heading, w.style("heading", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}}))
		w.row++
	}
	for _, item := range s.Items {
		w.set(1, item.Label, w.fillStyle("stat_"+string(item.Color), rgb(item.Color), "FFFFFF", true))
		w.set(2, item.Value, 0)
		w.row++
	}
	w.row++
}

func (w *xlsxWriter) table(t report.Table) {
	if t.Heading != "" {
		w.set(1, t.Heading, w.style("heading", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}}))
		w.row++
	}

	header := w.fillStyle("table_header", rgb(report.ColorPrimary), "FFFFFF", true)
	for i, c := range t.Columns {
		w.set(i+1, c.Title, header)
	}
	w.row++

	alt := w.fillStyle("row_alt", colorTableAlt, hex(colorText), false)
	for _, row := range t.Rows {
		if row.Placeholder {
			w.placeholder(row, len(t.Columns))
			continue
		}
		for i, cell := range row.Cells {
			style := 0
			switch {
			case cell.Color != report.ColorNone && row.Alternate:
				style = w.fillStyle("cell_alt_"+string(cell.Color), colorTableAlt, hex(rgb(cell.Color)), true)
			case cell.Color != report.ColorNone:
				style = w.style("cell_"+string(cell.Color), &excelize.Style{Font: &excelize.Font{Bold: true, Color: hex(rgb(cell.Color))}})
			case row.Alternate:
				style = alt
			}
			w.set(i+1, cell.Text, style)
			w.track(i+1, cell.Text)
		}
		w.row++
	}
	w.row++
}

func (w *xlsxWriter) placeholder(row report.Row, columns int) {
	text := report.PlaceholderText
	if len(row.Cells) > 0 {
		text = row.Cells[0].Text
	}
	w.set(1, text, w.style("placeholder", &excelize.Style{
		Font:      &excelize.Font{Italic: true, Color: hex(colorTextMuted)},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}))
	if columns > 1 {
		first, _ := excelize.CoordinatesToCellName(1, w.row)
		last, _ := excelize.CoordinatesToCellName(columns, w.row)
		w.fail(w.f.MergeCell(xlsxSheet, first, last))
	}
	w.row++
}

// track widens a column for long cell text, capped so descriptions wrap
func (w *xlsxWriter) track(col int, text string) {
	if w.widths == nil {
		w.widths = make(map[int]float64)
	}
	width := float64(len([]rune(text))) + 2
	if width > 60 {
		width = 60
	}
	if width > w.widths[col] {
		w.widths[col] = width
	}
}
