package report

import (
	"strings"
	"time"
	"unicode/utf8"

	"lakbaycli/internal/config"
)

// Placeholder strings for absent values
const (
	NoDescription = "No description"
	NoLocation    = "No location specified"
	Ellipsis      = "..."
)

// ColorToken names a visual tag. Renderers map tokens to concrete colors.
type ColorToken string

const (
	ColorFire     ColorToken = "fire"
	ColorPolice   ColorToken = "police"
	ColorMedical  ColorToken = "medical"
	ColorDisaster ColorToken = "disaster"
	ColorOther    ColorToken = "other"

	ColorPrimary  ColorToken = "primary"
	ColorActive   ColorToken = "active"
	ColorInactive ColorToken = "inactive"
	ColorNone     ColorToken = ""
)

// Truncate shortens text to maxLength characters plus an ellipsis. Blank
// text becomes NoDescription. A non-positive maxLength uses the default.
func Truncate(text string, maxLength int) string {
	if strings.TrimSpace(text) == "" {
		return NoDescription
	}
	if maxLength <= 0 {
		maxLength = config.DefaultDescriptionLength
	}
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}

	runes := []rune(text)
	return string(runes[:maxLength]) + Ellipsis
}

// FormatLocation joins the non-blank location parts with ", "
func FormatLocation(primary, secondary string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{primary, secondary} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return NoLocation
	}
	return strings.Join(parts, ", ")
}

// CategoryColor maps a hotline category to its color token. Unknown
// categories get ColorOther.
func CategoryColor(category string) ColorToken {
	switch category {
	case config.CategoryFire:
		return ColorFire
	case config.CategoryPolice:
		return ColorPolice
	case config.CategoryMedical:
		return ColorMedical
	case config.CategoryDisaster:
		return ColorDisaster
	default:
		return ColorOther
	}
}

// StatusLabel renders an active flag
func StatusLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}

// StatusColor is the color token matching StatusLabel
func StatusColor(active bool) ColorToken {
	if active {
		return ColorActive
	}
	return ColorInactive
}

// FormatDate renders a date for table cells in loc, or "N/A" when unset
func FormatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "N/A"
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("Jan 2, 2006")
}
