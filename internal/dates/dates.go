// Package dates converts between the string forms accepted on the wire and
// the calendar days stored with each exercise.
package dates

import (
	"errors"
	"strings"
	"time"
)

// DisplayLayout renders a day the same way in every locale, e.g. "Sun Jan 15 2023".
const DisplayLayout = "Mon Jan 02 2006"

var ErrInvalidDate = errors.New("dates: unrecognised date")

var layouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	DisplayLayout,
	"January 2, 2006",
	"Jan 2, 2006",
}

// Parse reads s in any of the supported layouts and returns the calendar day
// it names. Time of day and zone offset never move the day.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// Day truncates t to midnight UTC of its own wall-clock date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Today(now func() time.Time) time.Time {
	return Day(now())
}

func Format(t time.Time) string {
	return Day(t).Format(DisplayLayout)
}

// Between reports whether d falls inside the inclusive [from, to] range.
// A nil bound is open.
func Between(d time.Time, from, to *time.Time) bool {
	d = Day(d)
	if from != nil && d.Before(Day(*from)) {
		return false
	}
	if to != nil && d.After(Day(*to)) {
		return false
	}
	return true
}
