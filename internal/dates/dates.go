// Package dates normalizes the date formats seen in bank exports to the
// canonical YYYY-MM-DD form used everywhere else in the app.
package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	isoRe      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dayFirstRe = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)
)

// genericLayouts are tried in order for anything that is neither ISO nor
// day-first. Two-digit years are deliberately absent: they are ambiguous.
var genericLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// Normalize converts s to YYYY-MM-DD. Inputs already in ISO shape are
// verified against the calendar rather than passed through blind, so
// "2024-13-45" still fails. D/M/YYYY and DD/MM/YYYY are read day-first, as
// in European bank exports.
func Normalize(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty date")
	}
	if isoRe.MatchString(s) {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return "", fmt.Errorf("parse date %q: %w", s, err)
		}
		return t.Format(time.DateOnly), nil
	}
	if dayFirstRe.MatchString(s) {
		t, err := time.Parse("2/1/2006", s)
		if err != nil {
			return "", fmt.Errorf("parse date %q: %w", s, err)
		}
		return t.Format(time.DateOnly), nil
	}
	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.DateOnly), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", s)
}
