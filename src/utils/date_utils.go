package utils

import "time"

const ISODateFormat = "2006-01-02"

// dateLayouts are tried in order when parsing shipment dates. Upload files
// arrive with whatever format the extract tool produced, so several common
// layouts are accepted.
var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"2 Jan 2006",
}

// ParseFlexibleDate parses a date string against the accepted layouts.
// Returns zero time if nothing matches; unparseable dates degrade to the
// "no date" sentinel instead of failing the row.
func ParseFlexibleDate(dateStr string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FormatISODate renders a date for storage, or "" for the zero sentinel.
func FormatISODate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(ISODateFormat)
}
