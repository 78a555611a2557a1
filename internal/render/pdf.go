package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"

	"lakbaycli/internal/report"
)

const (
	pdfMargin       = 15.0
	pdfFooterHeight = 15.0
	pdfLineHeight   = 5.0
	pdfCellPadding  = 1.5
	pdfFont         = "Helvetica"
	// landscapeColumns is the column count from which pages turn landscape
	landscapeColumns = 7
)

var disablePdfcpuConfig sync.Once

// PDFRenderer lays documents out on A4 pages with go-pdf/fpdf
type PDFRenderer struct {
	validate bool
}

// NewPDFRenderer creates a PDF renderer. With validate set, every output is
// parsed back with pdfcpu before it is returned.
func NewPDFRenderer(validate bool) *PDFRenderer {
	if validate {
		disablePdfcpuConfig.Do(func() { model.ConfigPath = "disable" })
	}
	return &PDFRenderer{validate: validate}
}

func (r *PDFRenderer) Extension() string   { return "pdf" }
func (r *PDFRenderer) ContentType() string { return "application/pdf" }

// Render implements Renderer
func (r *PDFRenderer) Render(doc *report.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("pdf: nil document")
	}

	orientation := "P"
	for _, t := range doc.Tables {
		if len(t.Columns) >= landscapeColumns {
			orientation = "L"
		}
	}

	pdf := fpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin+pdfFooterHeight)
	pdf.SetTitle(doc.Header.Title, true)
	pdf.SetAuthor(doc.Header.AppName, true)
	pdf.SetCreator("lakbaycli", true)
	if !doc.Header.GeneratedAt.IsZero() {
		pdf.SetCreationDate(doc.Header.GeneratedAt)
		pdf.SetModificationDate(doc.Header.GeneratedAt)
	}
	pdf.SetCatalogSort(true)
	pdf.AliasNbPages("")

	cp1252 := pdf.UnicodeTranslatorFromDescriptor("")
	w := &pdfWriter{pdf: pdf, tr: func(s string) string { return cp1252(cp1252Text(s)) }}
	w.pageWidth, w.pageHeight = pdf.GetPageSize()
	w.contentWidth = w.pageWidth - 2*pdfMargin

	pdf.SetFooterFunc(func() { w.footer(doc.Footer) })

	pdf.AddPage()
	w.header(doc.Header)
	w.stats(doc.Stats)
	for _, t := range doc.Tables {
		w.table(t)
	}

	if pdf.Err() {
		return nil, fmt.Errorf("pdf layout: %w", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}

	if r.validate {
		if err := ValidatePDF(buf.Bytes()); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// cp1252Text folds s into what the core fonts can draw. Accented letters
// outside cp1252 lose their marks, anything else becomes '?'.
func cp1252Text(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if _, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteRune(r)
			continue
		}
		kept := false
		for _, d := range norm.NFD.String(string(r)) {
			if unicode.Is(unicode.Mn, d) {
				continue
			}
			if _, ok := charmap.Windows1252.EncodeRune(d); ok {
				b.WriteRune(d)
				kept = true
			}
		}
		if !kept {
			b.WriteByte('?')
		}
	}
	return b.String()
}

// ValidatePDF parses data with pdfcpu in relaxed mode
func ValidatePDF(data []byte) error {
	if err := api.Validate(bytes.NewReader(data), pdfcpuConfig()); err != nil {
		return fmt.Errorf("pdf validation: %w", err)
	}
	return nil
}

// PageCount returns the number of pages of a PDF
func PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), pdfcpuConfig())
	if err != nil {
		return 0, fmt.Errorf("pdf page count: %w", err)
	}
	return n, nil
}

func pdfcpuConfig() *model.Configuration {
	disablePdfcpuConfig.Do(func() { model.ConfigPath = "disable" })
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return cfg
}

type pdfWriter struct {
	pdf          *fpdf.Fpdf
	tr           func(string) string
	pageWidth    float64
	pageHeight   float64
	contentWidth float64
}

func (w *pdfWriter) setFill(c [3]int)     { w.pdf.SetFillColor(c[0], c[1], c[2]) }
func (w *pdfWriter) setText(c [3]int)     { w.pdf.SetTextColor(c[0], c[1], c[2]) }
func (w *pdfWriter) setDraw(c [3]int)     { w.pdf.SetDrawColor(c[0], c[1], c[2]) }
func (w *pdfWriter) bottomLimit() float64 { return w.pageHeight - pdfMargin - pdfFooterHeight }

// fits reports whether h more millimetres fit above the footer
func (w *pdfWriter) fits(h float64) bool {
	return w.pdf.GetY()+h <= w.bottomLimit()
}

func (w *pdfWriter) header(h report.Header) {
	pdf := w.pdf
	primary := rgb(report.ColorPrimary)

	w.setFill(primary)
	pdf.Rect(0, 0, w.pageWidth, 6, "F")

	pdf.SetY(pdfMargin)
	pdf.SetFont(pdfFont, "B", 18)
	w.setText(primary)
	pdf.CellFormat(0, 9, w.tr(h.AppName), "", 1, "L", false, 0, "")

	pdf.SetFont(pdfFont, "B", 14)
	w.setText(colorText)
	pdf.CellFormat(0, 8, w.tr(h.Title), "", 1, "L", false, 0, "")

	pdf.SetFont(pdfFont, "", 9)
	w.setText(colorTextMuted)
	pdf.CellFormat(0, 6, w.tr(h.Generated), "", 1, "L", false, 0, "")

	if h.Annotation != "" {
		pdf.SetFont(pdfFont, "I", 10)
		w.setText(colorText)
		pdf.CellFormat(0, 6, w.tr(h.Annotation), "", 1, "L", false, 0, "")
	}

	w.setDraw(colorGridLine)
	y := pdf.GetY() + 2
	pdf.Line(pdfMargin, y, w.pageWidth-pdfMargin, y)
	pdf.SetY(y + 4)
}

// stats draws one colored chip per item, four to a row
func (w *pdfWriter) stats(s report.StatsBlock) {
	if len(s.Items) == 0 {
		return
	}
	pdf := w.pdf

	if s.Heading != "" {
		pdf.SetFont(pdfFont, "B", 11)
		w.setText(colorText)
		pdf.CellFormat(0, 7, w.tr(s.Heading), "", 1, "L", false, 0, "")
		pdf.Ln(1)
	}

	const perRow, gap, chipHeight = 4, 3.0, 16.0
	chipWidth := (w.contentWidth - gap*(perRow-1)) / perRow

	for i, item := range s.Items {
		col := i % perRow
		if col == 0 && i > 0 {
			pdf.SetY(pdf.GetY() + chipHeight + gap)
		}
		if col == 0 && !w.fits(chipHeight) {
			pdf.AddPage()
		}
		x := pdfMargin + float64(col)*(chipWidth+gap)
		y := pdf.GetY()

		w.setFill(rgb(item.Color))
		pdf.RoundedRect(x, y, chipWidth, chipHeight, 2, "1234", "F")

		w.setText([3]int{255, 255, 255})
		pdf.SetXY(x, y+2)
		pdf.SetFont(pdfFont, "B", 14)
		pdf.CellFormat(chipWidth, 7, strconv.Itoa(item.Value), "", 0, "C", false, 0, "")
		pdf.SetXY(x, y+9)
		pdf.SetFont(pdfFont, "", 8)
		pdf.CellFormat(chipWidth, 5, w.tr(item.Label), "", 0, "C", false, 0, "")
	}
	pdf.SetY(pdf.GetY() + chipHeight + 6)
}

func (w *pdfWriter) table(t report.Table) {
	pdf := w.pdf
	widths := w.columnWidths(t.Columns)

	if !w.fits(7 + 7 + pdfLineHeight + 2*pdfCellPadding) {
		pdf.AddPage()
	}
	if t.Heading != "" {
		pdf.SetFont(pdfFont, "B", 12)
		w.setText(colorText)
		pdf.CellFormat(0, 7, w.tr(t.Heading), "", 1, "L", false, 0, "")
	}
	w.tableHeader(t.Columns, widths)

	for _, row := range t.Rows {
		if row.Placeholder {
			w.placeholderRow(row)
			continue
		}

		lines := make([][][]byte, len(widths))
		height := pdfLineHeight
		pdf.SetFont(pdfFont, "", 8)
		for i, width := range widths {
			var txt string
			if i < len(row.Cells) {
				txt = row.Cells[i].Text
			}
			lines[i] = pdf.SplitLines([]byte(w.tr(txt)), width-2*pdfCellPadding)
			if len(lines[i]) == 0 {
				lines[i] = [][]byte{nil}
			}
			if h := float64(len(lines[i])) * pdfLineHeight; h > height {
				height = h
			}
		}
		height += 2 * pdfCellPadding

		if !w.fits(height) {
			pdf.AddPage()
			w.tableHeader(t.Columns, widths)
			pdf.SetFont(pdfFont, "", 8)
		}

		y := pdf.GetY()
		if row.Alternate {
			w.setFill(colorTableAlt)
			pdf.Rect(pdfMargin, y, w.contentWidth, height, "F")
		}

		x := pdfMargin
		for i, width := range widths {
			style := ""
			color := colorText
			if i < len(row.Cells) && row.Cells[i].Color != report.ColorNone {
				style = "B"
				color = rgb(row.Cells[i].Color)
			}
			pdf.SetFont(pdfFont, style, 8)
			w.setText(color)
			for j, line := range lines[i] {
				pdf.SetXY(x+pdfCellPadding, y+pdfCellPadding+float64(j)*pdfLineHeight)
				pdf.CellFormat(width-2*pdfCellPadding, pdfLineHeight, string(line), "", 0, "L", false, 0, "")
			}
			x += width
		}

		w.setDraw(colorGridLine)
		pdf.Line(pdfMargin, y+height, pdfMargin+w.contentWidth, y+height)
		pdf.SetXY(pdfMargin, y+height)
	}
	pdf.Ln(8)
}

func (w *pdfWriter) tableHeader(columns []report.Column, widths []float64) {
	pdf := w.pdf
	w.setFill(rgb(report.ColorPrimary))
	w.setText([3]int{255, 255, 255})
	pdf.SetFont(pdfFont, "B", 9)
	pdf.SetX(pdfMargin)
	for i, c := range columns {
		ln := 0
		if i == len(columns)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 7, w.tr(c.Title), "", ln, "L", true, 0, "")
	}
}

func (w *pdfWriter) placeholderRow(row report.Row) {
	pdf := w.pdf
	txt := report.PlaceholderText
	if len(row.Cells) > 0 {
		txt = row.Cells[0].Text
	}
	pdf.SetFont(pdfFont, "I", 9)
	w.setText(colorTextMuted)
	pdf.SetX(pdfMargin)
	pdf.CellFormat(w.contentWidth, 10, w.tr(txt), "B", 1, "C", false, 0, "")
}

// columnWidths scales relative widths to the content width
func (w *pdfWriter) columnWidths(columns []report.Column) []float64 {
	total := 0.0
	for _, c := range columns {
		if c.Width > 0 {
			total += c.Width
		} else {
			total++
		}
	}
	widths := make([]float64, len(columns))
	for i, c := range columns {
		weight := c.Width
		if weight <= 0 {
			weight = 1
		}
		widths[i] = w.contentWidth * weight / total
	}
	return widths
}

func (w *pdfWriter) footer(f report.Footer) {
	pdf := w.pdf
	pdf.SetY(w.pageHeight - pdfMargin - 5)
	pdf.SetFont(pdfFont, "", 8)
	w.setText(colorTextMuted)
	pdf.CellFormat(w.contentWidth/2, 5, w.tr(f.Copyright), "", 0, "L", false, 0, "")
	pdf.CellFormat(w.contentWidth/2, 5, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
}
