package render

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"lakbaycli/internal/report"
)

// utf8BOM helps Excel recognize UTF-8
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVRenderer writes the tables of a document as CSV. Header, stats and
// footer are not part of the output.
type CSVRenderer struct {
	// BOMPrefix writes a UTF-8 byte order mark first
	BOMPrefix bool
}

// NewCSVRenderer creates a CSV renderer that writes a BOM
func NewCSVRenderer() *CSVRenderer {
	return &CSVRenderer{BOMPrefix: true}
}

func (r *CSVRenderer) Extension() string   { return "csv" }
func (r *CSVRenderer) ContentType() string { return "text/csv; charset=utf-8" }

// Render implements Renderer. Multiple tables are separated by an empty
// record. A placeholder row keeps its text in the first column with the
// remaining columns blank.
func (r *CSVRenderer) Render(doc *report.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("csv: nil document")
	}

	var buf bytes.Buffer
	if r.BOMPrefix {
		buf.Write(utf8BOM)
	}

	writer := csv.NewWriter(&buf)
	for ti, t := range doc.Tables {
		if ti > 0 {
			if err := writer.Write([]string{}); err != nil {
				return nil, fmt.Errorf("csv: failed to write separator: %w", err)
			}
		}

		headers := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			headers[i] = c.Title
		}
		if err := writer.Write(headers); err != nil {
			return nil, fmt.Errorf("csv: failed to write headers: %w", err)
		}

		for i, row := range t.Rows {
			record := make([]string, max(len(row.Cells), len(t.Columns)))
			for j, cell := range row.Cells {
				record[j] = cell.Text
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("csv: failed to write record %d: %w", i, err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return buf.Bytes(), nil
}
