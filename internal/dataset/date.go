package dataset

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical calendar-day format.
const DateLayout = "2006-01-02"

// dateLayouts are tried in order. Values carrying a zone keep the calendar
// day as written in that zone.
var dateLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-0700",
	"2006-01-02 15:04:05 -0700 MST",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"02.01.2006",
	"02.01.2006 15:04",
	"02.01.2006 15:04:05",
	"2.1.2006",
	"20060102",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Mon, 02 Jan 2006 15:04:05 -0700",
}

var (
	slashDateRegex = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})(?:[ T].*)?$`)
	unixRegex      = regexp.MustCompile(`^\d{9,10}$`)
)

// nullTokens are cell values that denote a missing date.
var nullTokens = map[string]bool{
	"":     true,
	"nat":  true,
	"nan":  true,
	"none": true,
	"null": true,
	"n/a":  true,
}

// ParseDate parses a date cell in any of the common formats and returns
// the calendar day at UTC midnight. ok is false when the value is empty or
// not recognised.
func ParseDate(s string) (day time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if nullTokens[strings.ToLower(s)] {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), true
		}
	}

	// mm/dd/yyyy, falling back to dd/mm/yyyy when the month is out of range.
	if m := slashDateRegex.FindStringSubmatch(s); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])

		month, dayOfMonth := a, b
		if a > 12 {
			month, dayOfMonth = b, a
		}

		if t, valid := civilDate(year, month, dayOfMonth); valid {
			return t, true
		}

		return time.Time{}, false
	}

	if unixRegex.MatchString(s) {
		secs, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return Day(time.Unix(secs, 0).UTC()), true
		}
	}

	return time.Time{}, false
}

// Day truncates t to its calendar day, expressed at UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// civilDate builds a UTC day and rejects values time.Date would normalise
// (e.g. February 30).
func civilDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}

	return t, true
}
