package workdays

import (
	"strings"
	"time"

	"github.com/username/workdays/internal/calendar"
	"github.com/username/workdays/pkg/dateutil"
)

// DayOverride is a manual decision for one date
type DayOverride struct {
	Date     string `json:"date"`     // YYYY-MM-DD
	Excluded bool   `json:"excluded"` // true = never counted, false = always counted
}

// Overrides maps ISO dates to manual decisions.
// The engine only reads it; the helpers below return modified copies.
type Overrides map[string]DayOverride

// Get returns the override for the calendar day of date
func (o Overrides) Get(date time.Time) (DayOverride, bool) {
	ov, ok := o[dateutil.FormatISO(dateutil.Day(date))]
	return ov, ok
}

// Clone returns a shallow copy; a nil map clones to an empty one
func (o Overrides) Clone() Overrides {
	clone := make(Overrides, len(o))
	for k, v := range o {
		clone[k] = v
	}
	return clone
}

// With returns a copy with the date forced excluded or included
func (o Overrides) With(date time.Time, excluded bool) Overrides {
	key := dateutil.FormatISO(dateutil.Day(date))
	clone := o.Clone()
	clone[key] = DayOverride{Date: key, Excluded: excluded}
	return clone
}

// Without returns a copy with no override for the date
func (o Overrides) Without(date time.Time) Overrides {
	clone := o.Clone()
	delete(clone, dateutil.FormatISO(dateutil.Day(date)))
	return clone
}

// Toggle returns a copy with the date advanced one step through the cycle
//
//	no override        -> excluded if the day is a workday by default, included otherwise
//	excluded           -> included
//	included           -> no override
func (o Overrides) Toggle(date time.Time, cal *calendar.HolidayCalendar) Overrides {
	current, ok := o.Get(date)
	switch {
	case !ok:
		return o.With(date, defaultWorkday(dateutil.Day(date), cal.Index()))
	case current.Excluded:
		return o.With(date, false)
	default:
		return o.Without(date)
	}
}

// ClearMonth returns a copy without any override in the month
func (o Overrides) ClearMonth(year int, month time.Month) Overrides {
	prefix := dateutil.MonthPrefix(year, month) + "-"
	clone := make(Overrides, len(o))
	for k, v := range o {
		if !strings.HasPrefix(k, prefix) {
			clone[k] = v
		}
	}
	return clone
}
