package dateutil

import (
	"fmt"
	"time"
)

// ISODate is the layout of canonical day keys (holiday dates, override keys)
const ISODate = "2006-01-02"

// Day returns the calendar day of t as midnight UTC.
// The year, month and day are read in t's own location, so a local midnight is never
// shifted to the previous day by the conversion.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date builds a calendar day from its components
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// FormatISO formats the calendar day of t as YYYY-MM-DD
func FormatISO(t time.Time) string {
	return t.Format(ISODate)
}

// ParseISO parses a YYYY-MM-DD string into a calendar day
func ParseISO(s string) (time.Time, error) {
	t, err := time.Parse(ISODate, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// ParseDate parses date string in various formats
func ParseDate(dateStr string) (time.Time, error) {
	formats := []string{
		ISODate,
		"02.01.2006",
		"2006/01/02",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z07:00",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return Day(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported date format: %q", dateStr)
}

// StartOfMonth returns the first day of the month
func StartOfMonth(year int, month time.Month) time.Time {
	return Date(year, month, 1)
}

// EndOfMonth returns the last day of the month
func EndOfMonth(year int, month time.Month) time.Time {
	return Date(year, month+1, 0)
}

// DaysInMonth returns the number of days in the month
func DaysInMonth(year int, month time.Month) int {
	return EndOfMonth(year, month).Day()
}

// MonthPrefix returns the YYYY-MM prefix shared by every ISO day of the month
func MonthPrefix(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// InRange reports whether the calendar day of date lies in [start, end] inclusive
func InRange(date, start, end time.Time) bool {
	d := Day(date)
	return !d.Before(Day(start)) && !d.After(Day(end))
}

// EachDay calls fn for every calendar day from start to end inclusive.
// Nothing is visited when start is after end.
func EachDay(start, end time.Time, fn func(day time.Time)) {
	last := Day(end)
	for d := Day(start); !d.After(last); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

// YearsBetween returns every year touched by [start, end], ascending
func YearsBetween(start, end time.Time) []int {
	var years []int
	for y := start.Year(); y <= end.Year(); y++ {
		years = append(years, y)
	}
	return years
}

// WeekdayOrder returns the seven weekdays starting from first
func WeekdayOrder(first time.Weekday) []time.Weekday {
	order := make([]time.Weekday, 7)
	for i := range order {
		order[i] = time.Weekday((int(first) + i) % 7)
	}
	return order
}

// Today returns today's calendar day
func Today() time.Time {
	return Day(time.Now())
}
