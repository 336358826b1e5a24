package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/username/workdays/internal/calendar"
	"github.com/username/workdays/internal/revenue"
	"github.com/username/workdays/internal/state"
	"github.com/username/workdays/internal/store"
	"github.com/username/workdays/internal/workdays"
	"github.com/username/workdays/pkg/dateutil"
)

// OverrideStore persists the override map
type OverrideStore interface {
	List(ctx context.Context) (workdays.Overrides, error)
	ListMonth(ctx context.Context, year int, month time.Month) (workdays.Overrides, error)
	Put(ctx context.Context, ov workdays.DayOverride) error
	Delete(ctx context.Context, date string) error
	ClearMonth(ctx context.Context, year int, month time.Month) (int64, error)
	ReplaceAll(ctx context.Context, overrides workdays.Overrides) error
	Events(ctx context.Context, limit int) ([]store.OverrideEvent, error)
}

// Manager answers workable-day questions for the selected country
type Manager struct {
	loader    calendar.Loader
	overrides OverrideStore
	prefs     *state.Store
	logger    *zap.Logger
}

// NewManager creates a new planner
func NewManager(
	loader calendar.Loader,
	overrides OverrideStore,
	prefs *state.Store,
	logger *zap.Logger,
) *Manager {
	return &Manager{
		loader:    loader,
		overrides: overrides,
		prefs:     prefs,
		logger:    logger,
	}
}

// Preferences returns the current preferences
func (m *Manager) Preferences() state.Preferences {
	return m.prefs.Get()
}

// Summary is the result for a date range
type Summary struct {
	Country        string
	Start          time.Time
	End            time.Time
	CalculatedDays int
	EffectiveDays  int
	ManualDays     *int
	Holidays       []calendar.Holiday // holidays inside the range
	Rate           revenue.Rate
	Currency       revenue.Currency
	Breakdown      revenue.Breakdown
}

// MonthAgenda is one month of classified days
type MonthAgenda struct {
	Country      string
	Year         int
	Month        time.Month
	FirstWeekday time.Weekday
	Days         []workdays.DayClassification
	WorkableDays int
}

// YearOverview holds the workable-day count of every month of a year
type YearOverview struct {
	Country string
	Year    int
	Months  [12]int
	Total   int
}

// HolidayCalendar loads the calendar for country and year.
// Any load failure degrades to nil: every weekday then counts as workable.
func (m *Manager) HolidayCalendar(ctx context.Context, country string, year int) *calendar.HolidayCalendar {
	country = m.country(country)

	cal, err := m.loader.Load(ctx, country, year)
	if err != nil {
		if errors.Is(err, calendar.ErrNotFound) {
			m.logger.Warn("No holiday calendar available, counting weekdays only",
				zap.String("country", country),
				zap.Int("year", year))
		} else {
			m.logger.Warn("Failed to load holiday calendar, counting weekdays only",
				zap.String("country", country),
				zap.Int("year", year),
				zap.Error(err))
		}
		return nil
	}
	return cal
}

// rangeCalendar merges the calendars of every year touched by [start, end]
func (m *Manager) rangeCalendar(ctx context.Context, country string, start, end time.Time) *calendar.HolidayCalendar {
	var cals []*calendar.HolidayCalendar
	for _, year := range dateutil.YearsBetween(start, end) {
		cals = append(cals, m.HolidayCalendar(ctx, country, year))
	}
	return calendar.Merge(country, cals...)
}

// Summary counts workable days in [start, end] and prices them with the saved rate
func (m *Manager) Summary(ctx context.Context, country string, start, end time.Time) (*Summary, error) {
	country = m.country(country)
	prefs := m.prefs.Get()

	overrides, err := m.overrides.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load overrides: %w", err)
	}

	rate, err := prefs.Rate.Rate()
	if err != nil {
		return nil, fmt.Errorf("invalid saved rate: %w", err)
	}
	cur, err := revenue.GetCurrency(prefs.Currency)
	if err != nil {
		return nil, fmt.Errorf("invalid saved currency: %w", err)
	}

	s := &Summary{
		Country:    country,
		Start:      start,
		End:        end,
		ManualDays: prefs.ManualDays,
		Rate:       rate,
		Currency:   cur,
	}

	if !start.IsZero() && !end.IsZero() {
		s.Start = dateutil.Day(start)
		s.End = dateutil.Day(end)
	}

	var cal *calendar.HolidayCalendar
	if !s.Start.IsZero() && !s.End.IsZero() && !s.Start.After(s.End) {
		cal = m.rangeCalendar(ctx, country, s.Start, s.End)
		for _, h := range holidaysOf(cal) {
			if d, err := dateutil.ParseISO(h.Date); err == nil && dateutil.InRange(d, s.Start, s.End) {
				s.Holidays = append(s.Holidays, h)
			}
		}
	}

	s.CalculatedDays = workdays.CountWorkableDays(start, end, cal, overrides)
	s.EffectiveDays = revenue.EffectiveDays(s.CalculatedDays, prefs.ManualDays)
	s.Breakdown = revenue.Calculate(s.EffectiveDays, rate, prefs.ContributionPercent)

	m.logger.Debug("Summary calculated",
		zap.String("country", country),
		zap.Int("calculated_days", s.CalculatedDays),
		zap.Int("effective_days", s.EffectiveDays))

	return s, nil
}

// MonthAgenda classifies every day of the month. Days outside [rangeStart, rangeEnd]
// are flagged; zero bounds disable the flagging.
func (m *Manager) MonthAgenda(ctx context.Context, country string, year int, month time.Month, rangeStart, rangeEnd time.Time) (*MonthAgenda, error) {
	country = m.country(country)

	overrides, err := m.overrides.ListMonth(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load overrides: %w", err)
	}

	cal := m.HolidayCalendar(ctx, country, year)
	days := workdays.EnumerateMonth(year, month, cal, rangeStart, rangeEnd, overrides)

	return &MonthAgenda{
		Country:      country,
		Year:         year,
		Month:        month,
		FirstWeekday: m.prefs.Get().FirstWeekday(),
		Days:         days,
		WorkableDays: workdays.CountWorkdays(days),
	}, nil
}

// YearOverview counts workable days per month
func (m *Manager) YearOverview(ctx context.Context, country string, year int) (*YearOverview, error) {
	country = m.country(country)

	overrides, err := m.overrides.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load overrides: %w", err)
	}

	cal := m.HolidayCalendar(ctx, country, year)
	overview := &YearOverview{
		Country: country,
		Year:    year,
		Months:  workdays.YearWorkableDays(year, cal, overrides),
	}
	for _, n := range overview.Months {
		overview.Total += n
	}
	return overview, nil
}

// ToggleDay advances the override cycle of date and returns its new classification
func (m *Manager) ToggleDay(ctx context.Context, country string, date time.Time) (workdays.DayClassification, error) {
	country = m.country(country)
	day := dateutil.Day(date)
	key := dateutil.FormatISO(day)

	overrides, err := m.overrides.List(ctx)
	if err != nil {
		return workdays.DayClassification{}, fmt.Errorf("failed to load overrides: %w", err)
	}

	cal := m.HolidayCalendar(ctx, country, day.Year())
	next := overrides.Toggle(day, cal)

	if ov, ok := next[key]; ok {
		err = m.overrides.Put(ctx, ov)
	} else {
		err = m.overrides.Delete(ctx, key)
	}
	if err != nil {
		return workdays.DayClassification{}, fmt.Errorf("failed to save override for %s: %w", key, err)
	}

	result := workdays.ClassifyDay(day, cal, next)
	m.logger.Info("Day toggled",
		zap.String("date", key),
		zap.Bool("workday", result.IsWorkday),
		zap.Bool("excluded", result.IsManuallyExcluded),
		zap.Bool("included", result.IsManuallyIncluded))

	return result, nil
}

// ClearMonth removes every saved override of the month
func (m *Manager) ClearMonth(ctx context.Context, year int, month time.Month) (int64, error) {
	removed, err := m.overrides.ClearMonth(ctx, year, month)
	if err != nil {
		return 0, fmt.Errorf("failed to clear %s: %w", dateutil.MonthPrefix(year, month), err)
	}
	return removed, nil
}

// ExportOverrides returns every saved override
func (m *Manager) ExportOverrides(ctx context.Context) (workdays.Overrides, error) {
	overrides, err := m.overrides.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load overrides: %w", err)
	}
	return overrides, nil
}

// ImportOverrides replaces the saved overrides with imported and returns how many
// are stored afterwards. A non-zero month limits the replacement to that month:
// saved overrides of other months are kept and imported ones outside it are ignored.
func (m *Manager) ImportOverrides(ctx context.Context, imported workdays.Overrides, year int, month time.Month) (int, error) {
	next := imported.Clone()

	if month != 0 {
		current, err := m.overrides.List(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to load overrides: %w", err)
		}
		next = current.ClearMonth(year, month)
		prefix := dateutil.MonthPrefix(year, month) + "-"
		for key, ov := range imported {
			if strings.HasPrefix(key, prefix) {
				next[key] = ov
			}
		}
	}

	if err := m.overrides.ReplaceAll(ctx, next); err != nil {
		return 0, fmt.Errorf("failed to import overrides: %w", err)
	}
	return len(next), nil
}

// History returns the latest override changes
func (m *Manager) History(ctx context.Context, limit int) ([]store.OverrideEvent, error) {
	return m.overrides.Events(ctx, limit)
}

// country resolves an empty country to the saved selection
func (m *Manager) country(country string) string {
	if country == "" {
		return m.prefs.Get().ActiveCountry()
	}
	return calendar.NormalizeCountry(country)
}

func holidaysOf(cal *calendar.HolidayCalendar) []calendar.Holiday {
	if cal == nil {
		return nil
	}
	return cal.Holidays
}
