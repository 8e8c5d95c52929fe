package services

import (
	"strings"
	"time"

	"csv_manager_backend/internal/models"
)

// dateListSeparator joins encoded reservation dates.
const dateListSeparator = ", "

// lenientDateLayouts are tried in order when decoding a date token. None may
// contain a comma since the list itself is comma-separated.
var lenientDateLayouts = []string{
	models.DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006.01.02",
	"20060102",
	"01/02/2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2 2006",
	"January 2 2006",
}

// EncodeDates renders dates as "YYYY-MM-DD, YYYY-MM-DD" in the given order.
// An empty slice encodes to "".
func EncodeDates(dates []time.Time) string {
	parts := make([]string, len(dates))
	for i, d := range dates {
		parts[i] = d.Format(models.DateLayout)
	}
	return strings.Join(parts, dateListSeparator)
}

// DecodeDates splits an encoded date list on commas, drops blank tokens, and
// parses each remaining token. Tokens that are not dates come back with
// Valid=false instead of failing the whole list.
func DecodeDates(encoded string) []models.ParsedDate {
	var out []models.ParsedDate
	for _, token := range strings.Split(encoded, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		d, ok := parseLenientDate(token)
		out = append(out, models.ParsedDate{Raw: token, Date: d, Valid: ok})
	}
	return out
}

// ValidDates returns only the successfully decoded dates, in encoded order.
func ValidDates(encoded string) []time.Time {
	var out []time.Time
	for _, pd := range DecodeDates(encoded) {
		if pd.Valid {
			out = append(out, pd.Date)
		}
	}
	return out
}

// ParseDateInputs parses user-entered YYYY-MM-DD values as an ordered date set.
// Duplicates are dropped, keeping the first occurrence.
func ParseDateInputs(inputs []string) ([]time.Time, error) {
	seen := make(map[time.Time]bool, len(inputs))
	var out []time.Time
	for _, in := range inputs {
		in = strings.TrimSpace(in)
		if in == "" {
			continue
		}
		d, err := time.Parse(models.DateLayout, in)
		if err != nil {
			return nil, ErrDateFormat
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out, nil
}

// parseLenientDate returns the calendar day of s at midnight UTC.
func parseLenientDate(s string) (time.Time, bool) {
	for _, layout := range lenientDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
