// Package dates implements the day-month-year date handling shared by the
// proxy, the development item service, and the terminal UI.
package dates

import (
	"fmt"
	"time"
)

// Layout is the only accepted item date shape, e.g. "01-06-2025".
const Layout = "02-01-2006"

// weekdays is the number of working days shown per week.
const weekdays = 5

// Parse strictly parses an item date. Anything other than a zero-padded
// DD-MM-YYYY string naming a real calendar day is rejected.
func Parse(value string) (time.Time, error) {
	if len(value) != len(Layout) {
		return time.Time{}, fmt.Errorf("date %q: want %s", value, "dd-mm-yyyy")
	}
	t, err := time.ParseInLocation(Layout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", value, err)
	}
	return t, nil
}

// Valid reports whether value is a strict DD-MM-YYYY date.
func Valid(value string) bool {
	_, err := Parse(value)
	return err == nil
}

// Format renders t in the item date layout.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// WeekStart returns midnight on the Monday of t's week. Sundays belong to
// the week that started six days earlier.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// Weeks returns the current and the next week as rows of Monday..Friday
// formatted dates.
func Weeks(now time.Time) [2][]string {
	monday := WeekStart(now)
	var out [2][]string
	for w := range out {
		row := make([]string, 0, weekdays)
		for d := 0; d < weekdays; d++ {
			row = append(row, Format(monday.AddDate(0, 0, w*7+d)))
		}
		out[w] = row
	}
	return out
}

// TwoWeekDates returns the ten selectable weekday dates: Monday to Friday of
// the current week followed by Monday to Friday of the next one.
func TwoWeekDates(now time.Time) []string {
	weeks := Weeks(now)
	out := make([]string, 0, 2*weekdays)
	out = append(out, weeks[0]...)
	return append(out, weeks[1]...)
}

// IsToday reports whether value is now's date.
func IsToday(value string, now time.Time) bool {
	return value == Format(now)
}

// GroupByDate buckets list by the date each element reports, keeping the
// input order within a bucket.
func GroupByDate[T any](list []T, date func(T) string) map[string][]T {
	out := make(map[string][]T)
	for _, v := range list {
		key := date(v)
		out[key] = append(out[key], v)
	}
	return out
}
