// Package dateutils provides the date parsing and calendar arithmetic used by
// statement extraction, the bill schedule and output naming.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date layouts seen in the supported statements and files
const (
	DateLayoutISO       = "2006-01-02"
	DateLayoutBrazilian = "02/01/2006"
	DateLayoutEuropean  = "02.01.2006"
	DateLayoutFull      = "2006-01-02 15:04:05"
	MonthLayout         = "2006-01"
	// StampLayout names daily output files, e.g. format_sheet_150126.xlsx
	StampLayout = "020106"
)

// statementFormats are tried in order. Day-first layouts come before any
// month-first one because every supported bank writes day first.
var statementFormats = []string{
	DateLayoutISO,
	DateLayoutBrazilian,
	DateLayoutEuropean,
	DateLayoutFull,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02-01-2006",
	"2/1/2006",
}

var spaces = regexp.MustCompile(`\s+`)

// CleanDateString trims and collapses whitespace.
func CleanDateString(dateStr string) string {
	return spaces.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseDateString parses a statement date and returns it at UTC midnight.
func ParseDateString(dateStr string) (time.Time, error) {
	clean := CleanDateString(dateStr)
	if clean == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range statementFormats {
		if t, err := time.Parse(layout, clean); err == nil {
			return Normalize(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// Normalize drops the clock part of t.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ToISODate formats t as YYYY-MM-DD.
func ToISODate(t time.Time) string {
	return t.Format(DateLayoutISO)
}

// StartOfMonth returns the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// EndOfMonth returns the last day of t's month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// DaysInYear is 366 for leap years and 365 otherwise.
func DaysInYear(year int) int {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
}

// MonthStarts returns n consecutive month starts beginning with t's month.
func MonthStarts(t time.Time, n int) []time.Time {
	start := StartOfMonth(t)
	months := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		months = append(months, start.AddDate(0, i, 0))
	}
	return months
}

// ParseMonth parses a YYYY-MM month.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (want YYYY-MM): %w", s, err)
	}
	return t, nil
}
