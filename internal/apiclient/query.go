package apiclient

import (
	"net/url"
	"strconv"
	"time"
)

// TimestampLayout is how date bounds are sent to the API: millisecond
// precision with an explicit offset.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Query holds the list endpoint parameters. Zero values are omitted.
type Query struct {
	Limit     int
	StartDate *time.Time
	EndDate   *time.Time
	Category  string
	Status    string
}

// Values encodes q as URL query parameters
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.StartDate != nil {
		v.Set("startDate", q.StartDate.Format(TimestampLayout))
	}
	if q.EndDate != nil {
		v.Set("endDate", q.EndDate.Format(TimestampLayout))
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	return v
}
