package utils

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// KigaliTZ is the default console timezone (CAT, UTC+2).
var KigaliTZ = time.FixedZone("CAT", 2*60*60)

// LoadLocation resolves a timezone name, falling back to KigaliTZ.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return KigaliTZ
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return KigaliTZ
	}
	return loc
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay compares calendar dates, ignoring the time of day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func MustParseDate(dateStr string) time.Time {
	t, _ := time.ParseInLocation(DateLayout, dateStr, time.UTC)
	return t
}

func ParseISOTime(s string) (*time.Time, error) {
	t, _, err := ParseISOTimeZoned(s)
	return t, err
}

// ParseISOTimeZoned also reports whether s carried a zone offset. Values
// without one are returned as UTC wall-clock times.
func ParseISOTimeZoned(s string) (*time.Time, bool, error) {
	if s == "" {
		return nil, false, fmt.Errorf("empty time string")
	}

	// Try standard RFC3339 format (ISO 8601)
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return &t, true, nil
	}

	// Try with nanoseconds (e.g. 2025-10-13T09:30:00.123Z)
	t, err = time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return &t, true, nil
	}

	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05.999999",
		DateLayout,
	}
	for _, layout := range layouts {
		if tt, e := time.ParseInLocation(layout, s, time.UTC); e == nil {
			return &tt, false, nil
		}
	}

	return nil, false, fmt.Errorf("failed to parse time: %v", s)
}
