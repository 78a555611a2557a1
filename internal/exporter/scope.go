package exporter

import (
	"strings"
	"time"

	"lakbaycli/internal/apiclient"
	"lakbaycli/internal/config"
	apperrors "lakbaycli/internal/errors"
	"lakbaycli/pkg/contracts/domain"
)

// DateLayout is the date picker format accepted for range bounds
const DateLayout = "2006-01-02"

// ScopeParams is the raw filter selection of a filtered export. Either both
// dates or a category must be given, not both.
type ScopeParams struct {
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	Category  string `json:"category,omitempty"`
	Status    string `json:"status,omitempty"`
}

// StartOfDay returns midnight of t's calendar day in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns 23:59:59.999 of t's calendar day in loc
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
}

// parseDate accepts a date picker value or a full RFC 3339 timestamp
func parseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation(DateLayout, value, loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// resolveScope validates params without any network access and returns the
// scope plus the query it implies. An "All Categories" selection resolves
// to the all-records scope.
func resolveScope(recordType domain.RecordType, params ScopeParams, categories []string, categoryQuery func(string) apiclient.Query, s Settings) (domain.ReportScope, apiclient.Query, error) {
	rt := string(recordType)
	hasDates := strings.TrimSpace(params.StartDate) != "" || strings.TrimSpace(params.EndDate) != ""
	category := strings.TrimSpace(params.Category)

	switch {
	case hasDates && category != "":
		return domain.ReportScope{}, apiclient.Query{}, apperrors.NewValidationError(rt, "category", "Choose either a date range or a category, not both")

	case hasDates:
		if strings.TrimSpace(params.StartDate) == "" {
			return domain.ReportScope{}, apiclient.Query{}, apperrors.NewValidationError(rt, "startDate", "Please select a start date")
		}
		if strings.TrimSpace(params.EndDate) == "" {
			return domain.ReportScope{}, apiclient.Query{}, apperrors.NewValidationError(rt, "endDate", "Please select an end date")
		}
		start, err := parseDate(params.StartDate, s.Location)
		if err != nil {
			return domain.ReportScope{}, apiclient.Query{}, apperrors.NewValidationError(rt, "startDate", "Start date is not a valid date")
		}
		end, err := parseDate(params.EndDate, s.Location)
		if err != nil {
			return domain.ReportScope{}, apiclient.Query{}, apperrors.NewValidationError(rt, "endDate", "End date is not a valid date")
		}

		start = StartOfDay(start, s.Location)
		end = EndOfDay(end, s.Location)
		if start.After(end) {
			return domain.ReportScope{}, apiclient.Query{}, apperrors.NewValidationError(rt, "startDate", "Start date must not be after end date")
		}

		return domain.ReportScope{Kind: domain.ScopeDateRange, Start: start, End: end},
			apiclient.Query{StartDate: &start, EndDate: &end, Status: params.Status, Limit: s.AllRecordsLimit},
			nil

	case category == config.AllCategories:
		return domain.ReportScope{Kind: domain.ScopeAllRecords}, apiclient.Query{Limit: s.AllRecordsLimit}, nil

	case category != "":
		if !contains(categories, category) {
			return domain.ReportScope{}, apiclient.Query{}, apperrors.NewValidationError(rt, "category", "Unknown category: "+category)
		}
		q := categoryQuery(category)
		if q.Status == "" {
			q.Status = params.Status
		}
		if q.Limit == 0 {
			q.Limit = s.AllRecordsLimit
		}
		return domain.ReportScope{Kind: domain.ScopeCategoryFilter, Category: category}, q, nil

	default:
		return domain.ReportScope{}, apiclient.Query{}, apperrors.NewValidationError(rt, "startDate", "Select a date range or a category")
	}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
