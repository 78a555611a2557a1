package render

import (
	"fmt"
	"strings"

	"lakbaycli/internal/config"
	"lakbaycli/internal/report"
)

// Renderer serializes a Document to a binary artifact
type Renderer interface {
	Render(doc *report.Document) ([]byte, error)
	// Extension is the file extension without the dot
	Extension() string
	ContentType() string
}

// Options configures the renderers built by ForFormat
type Options struct {
	ValidatePDF bool
}

// ForFormat returns the renderer for a format name (pdf, xlsx, csv). An
// empty format means PDF.
func ForFormat(format string, opts Options) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", config.FormatPDF:
		return NewPDFRenderer(opts.ValidatePDF), nil
	case config.FormatXLSX:
		return NewXLSXRenderer(), nil
	case config.FormatCSV:
		return NewCSVRenderer(), nil
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

// palette maps color tokens to RGB
var palette = map[report.ColorToken][3]int{
	report.ColorFire:     {220, 53, 69},
	report.ColorPolice:   {13, 110, 253},
	report.ColorMedical:  {25, 135, 84},
	report.ColorDisaster: {253, 126, 20},
	report.ColorOther:    {108, 117, 125},
	report.ColorPrimary:  {30, 58, 95},
	report.ColorActive:   {25, 135, 84},
	report.ColorInactive: {220, 53, 69},
}

var (
	colorText      = [3]int{44, 62, 80}
	colorTextMuted = [3]int{127, 140, 141}
	colorTableAlt  = [3]int{241, 245, 249}
	colorGridLine  = [3]int{220, 220, 220}
)

func rgb(token report.ColorToken) [3]int {
	if c, ok := palette[token]; ok {
		return c
	}
	return colorText
}

func hex(c [3]int) string {
	return fmt.Sprintf("%02X%02X%02X", c[0], c[1], c[2])
}
