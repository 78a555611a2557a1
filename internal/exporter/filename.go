package exporter

import (
	"strings"
	"time"

	"lakbaycli/pkg/contracts/domain"
)

// Filename builds <prefix>_<RecordType>[_<Category>]_<date|start_to_end>.<ext>.
// Dates are rendered in generated's location; range bounds in their own.
func Filename(prefix string, recordType domain.RecordType, scope domain.ReportScope, generated time.Time, ext string) string {
	parts := []string{pathSafe(prefix), string(recordType)}

	switch scope.Kind {
	case domain.ScopeDateRange:
		parts = append(parts, scope.Start.Format(DateLayout)+"_to_"+scope.End.Format(DateLayout))
	case domain.ScopeCategoryFilter:
		if c := pathSafe(scope.Category); c != "" {
			parts = append(parts, c)
		}
		parts = append(parts, generated.Format(DateLayout))
	default:
		parts = append(parts, generated.Format(DateLayout))
	}

	return strings.Join(parts, "_") + "." + ext
}

// MonthlyFilename builds <prefix>_Monthly_Report_<YYYY-MM>.<ext>
func MonthlyFilename(prefix string, month time.Time, ext string) string {
	return pathSafe(prefix) + "_Monthly_Report_" + month.Format("2006-01") + "." + ext
}

// pathSafe collapses path separators and whitespace runs into single
// underscores: "Ambulance/ Medical" becomes "Ambulance_Medical".
func pathSafe(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case '/', '\\', ':', ' ', '\t', '\n':
			return true
		}
		return false
	})
	return strings.Join(fields, "_")
}
