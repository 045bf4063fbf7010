package grain

import (
	"strings"
	"time"
)

// Date layouts seen in the source documents. The scanner that produced the
// database stored dates as free text, so parsing is best-effort.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate parses a free-text date, normalized to UTC midnight.
// Returns nil for blank or unparsable input; callers treat a nil date as
// "skip this record from date-filtered aggregations", never an error.
func ParseDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := atMidnightUTC(t)
			return &d
		}
	}
	return nil
}

// DateOf builds a *time.Time at UTC midnight. Test and fixture helper.
func DateOf(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}
