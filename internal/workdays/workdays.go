// Package workdays decides which days of a period are workable.
//
// Weekends (Saturday, Sunday) and calendar holidays are non-workable by default;
// a manual override for a date always wins over the default. Every function is
// pure: calendars and overrides are read, never modified, and nothing is cached
// between calls. Dates are handled at day granularity using the calendar day of
// each time.Time in its own location.
package workdays

import (
	"time"

	"github.com/username/workdays/internal/calendar"
	"github.com/username/workdays/pkg/dateutil"
)

// DayClassification describes one date after applying weekend, holiday and override rules
type DayClassification struct {
	Date               time.Time `json:"date"`
	IsWorkday          bool      `json:"is_workday"`
	IsWeekend          bool      `json:"is_weekend"`
	IsHoliday          bool      `json:"is_holiday"`
	HolidayName        string    `json:"holiday_name,omitempty"`
	IsInRange          bool      `json:"is_in_range"`
	IsManuallyExcluded bool      `json:"is_manually_excluded"`
	IsManuallyIncluded bool      `json:"is_manually_included"`
}

// ISODate returns the classified date as YYYY-MM-DD
func (d DayClassification) ISODate() string {
	return dateutil.FormatISO(d.Date)
}

// ClassifyDay classifies a single date. A nil calendar means no holidays.
func ClassifyDay(date time.Time, cal *calendar.HolidayCalendar, overrides Overrides) DayClassification {
	return classify(dateutil.Day(date), cal.Index(), overrides)
}

// CountWorkableDays counts workable days in [start, end], both ends inclusive.
// A zero start or end, or start after end, yields 0.
func CountWorkableDays(start, end time.Time, cal *calendar.HolidayCalendar, overrides Overrides) int {
	if start.IsZero() || end.IsZero() {
		return 0
	}

	holidays := cal.Index()
	count := 0
	dateutil.EachDay(start, end, func(day time.Time) {
		if classify(day, holidays, overrides).IsWorkday {
			count++
		}
	})
	return count
}

// EnumerateMonth classifies every day of the month in ascending order.
// IsInRange is set for days inside [rangeStart, rangeEnd] when both are non-zero;
// the range has no influence on workability.
func EnumerateMonth(year int, month time.Month, cal *calendar.HolidayCalendar, rangeStart, rangeEnd time.Time, overrides Overrides) []DayClassification {
	start := dateutil.StartOfMonth(year, month)
	end := dateutil.EndOfMonth(year, month)
	hasRange := !rangeStart.IsZero() && !rangeEnd.IsZero()

	holidays := cal.Index()
	days := make([]DayClassification, 0, end.Day())
	dateutil.EachDay(start, end, func(day time.Time) {
		info := classify(day, holidays, overrides)
		info.IsInRange = hasRange && dateutil.InRange(day, rangeStart, rangeEnd)
		days = append(days, info)
	})
	return days
}

// MonthWorkableDays counts workable days from the first to the last day of the month
func MonthWorkableDays(year int, month time.Month, cal *calendar.HolidayCalendar, overrides Overrides) int {
	return CountWorkableDays(dateutil.StartOfMonth(year, month), dateutil.EndOfMonth(year, month), cal, overrides)
}

// YearWorkableDays returns the workable day count of each month, January first
func YearWorkableDays(year int, cal *calendar.HolidayCalendar, overrides Overrides) [12]int {
	var counts [12]int
	for m := time.January; m <= time.December; m++ {
		counts[m-1] = MonthWorkableDays(year, m, cal, overrides)
	}
	return counts
}

// CountWorkdays returns how many classifications are workdays
func CountWorkdays(days []DayClassification) int {
	count := 0
	for _, d := range days {
		if d.IsWorkday {
			count++
		}
	}
	return count
}

// classify expects day to be normalized by dateutil.Day
func classify(day time.Time, holidays map[string]string, overrides Overrides) DayClassification {
	key := dateutil.FormatISO(day)
	holidayName, isHoliday := holidays[key]

	info := DayClassification{
		Date:        day,
		IsWeekend:   dateutil.IsWeekend(day),
		IsHoliday:   isHoliday,
		HolidayName: holidayName,
	}
	info.IsWorkday = !info.IsWeekend && !info.IsHoliday

	if ov, ok := overrides[key]; ok {
		if ov.Excluded {
			info.IsWorkday = false
			info.IsManuallyExcluded = true
		} else {
			info.IsWorkday = true
			info.IsManuallyIncluded = true
		}
	}

	return info
}

func defaultWorkday(day time.Time, holidays map[string]string) bool {
	_, isHoliday := holidays[dateutil.FormatISO(day)]
	return !dateutil.IsWeekend(day) && !isHoliday
}
