package core

import (
	"fmt"
	"strings"
	"time"
)

// Accepted sampling-date layouts. Labels are day-first (DD/MM/YYYY) per the
// upload instructions; month/year and ISO forms are also accepted.
var sampleDateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"01/2006",
	"1/2006",
	"2006-01-02",
	"Jan 2006",
	"Jan-06",
}

// ParseSampleDate parses a date label from a spreadsheet header into a
// calendar date. The label is trimmed first; the raw label remains the
// canonical column key, parsing only matters for time-ordered presentation.
func ParseSampleDate(label string) (time.Time, error) {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty date label")
	}
	for _, layout := range sampleDateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date label %q matches no accepted layout", label)
}

// FormatMonthYear renders a parsed sampling date in the MM-YY style the
// charts use for axis labels.
func FormatMonthYear(t time.Time) string {
	return t.Format("01-06")
}
