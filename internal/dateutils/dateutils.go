// Package dateutils provides the date parsing used to validate and order
// transaction dates read from bank exports.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO       = "2006-01-02"
	DateLayoutEuropean  = "02.01.2006"
	DateLayoutUS        = "01/02/2006"
	DateLayoutFull      = "2006-01-02 15:04:05"
	DateLayoutWithMonth = "2-Jan-2006"
	DateTimeFileLayout  = "2006-01-02_15-04-05"
)

// CommonFormats is the list of formats tried, in order, when parsing dates.
// Slash-separated day-first dates are deliberately absent: 01/02/2006 is read
// as January 2nd.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutFull,
	time.RFC3339,
	"2006/01/02",
	DateLayoutUS,
	"1/2/2006",
	DateLayoutEuropean,
	DateLayoutWithMonth,
	"Jan 2, 2006",
	"January 2, 2006",
	"02 Jan 2006",
}

// ParseDate attempts to parse a date string using CommonFormats.
// Returns the parsed time and the detected layout.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)
	if dateStr == "" {
		return time.Time{}, "", fmt.Errorf("empty date")
	}

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, format, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// CleanDateString trims the string and collapses internal whitespace
func CleanDateString(dateStr string) string {
	return strings.Join(strings.Fields(dateStr), " ")
}

// CompareDateStrings orders two date strings chronologically when both parse,
// falling back to plain string comparison otherwise. It returns -1, 0 or 1.
func CompareDateStrings(a, b string) int {
	ta, _, errA := ParseDate(a)
	tb, _, errB := ParseDate(b)
	if errA == nil && errB == nil {
		switch {
		case ta.Before(tb):
			return -1
		case ta.After(tb):
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(strings.TrimSpace(a), strings.TrimSpace(b))
}
