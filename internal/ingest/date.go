package ingest

import (
	"strings"
	"time"
)

// CanonicalDateLayout is the YYYY-MM-DD output layout
const CanonicalDateLayout = "2006-01-02"

// Tried in order; day/month/year wins for ambiguous input like 03/04/2024.
var dateLayouts = []string{
	"2/1/2006",
	"2006-1-2",
	"1/2/2006",
}

var supportedDateFormats = []string{"dd/MM/yyyy", "yyyy-MM-dd", "MM/dd/yyyy"}

// ParseDate resolves a broker date string to YYYY-MM-DD. Anything after the
// first space (a time of day) is ignored.
func ParseDate(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", &DateFormatError{}
	}

	dateOnly, _, _ := strings.Cut(trimmed, " ")
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, dateOnly); err == nil {
			return t.Format(CanonicalDateLayout), nil
		}
	}

	return "", &DateFormatError{Value: raw}
}
