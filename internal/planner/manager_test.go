package planner

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/username/workdays/internal/calendar"
	"github.com/username/workdays/internal/config"
	"github.com/username/workdays/internal/revenue"
	"github.com/username/workdays/internal/state"
	"github.com/username/workdays/internal/store"
	"github.com/username/workdays/internal/workdays"
	"github.com/username/workdays/pkg/dateutil"
)

type stubLoader struct {
	calendars map[string]*calendar.HolidayCalendar
	calls     int
}

func (s *stubLoader) Load(ctx context.Context, country string, year int) (*calendar.HolidayCalendar, error) {
	s.calls++
	if cal, ok := s.calendars[fmt.Sprintf("%s-%d", country, year)]; ok {
		return cal, nil
	}
	return nil, fmt.Errorf("stub %s %d: %w", country, year, calendar.ErrNotFound)
}

func newStubLoader() *stubLoader {
	return &stubLoader{calendars: map[string]*calendar.HolidayCalendar{
		"us-2025": {Year: 2025, Country: "us", Holidays: []calendar.Holiday{
			{Date: "2025-01-01", Name: "New Year's Day"},
			{Date: "2025-01-20", Name: "Martin Luther King Jr. Day"},
		}},
		"us-2026": {Year: 2026, Country: "us", Holidays: []calendar.Holiday{
			{Date: "2026-01-01", Name: "New Year's Day"},
		}},
	}}
}

func setupManager(t *testing.T) (*Manager, *state.Store) {
	t.Helper()

	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	prefs := state.NewStore(filepath.Join(t.TempDir(), "prefs.json"), state.Defaults(config.DefaultsConfig{
		Country:        "us",
		Currency:       "USD",
		FirstDayOfWeek: "monday",
		Rate:           revenue.RateConfig{Type: revenue.RateTypeDaily, DailyRate: 400},
	}, 2025), zap.NewNop())
	require.NoError(t, prefs.Load())

	repo := store.NewOverrideRepository(db, zap.NewNop())
	return NewManager(newStubLoader(), repo, prefs, zap.NewNop()), prefs
}

func TestManager_Summary(t *testing.T) {
	ctx := context.Background()
	m, prefs := setupManager(t)

	s, err := m.Summary(ctx, "", dateutil.Date(2025, time.January, 1), dateutil.Date(2025, time.January, 31))
	require.NoError(t, err)
	require.Equal(t, "us", s.Country)
	require.Equal(t, 21, s.CalculatedDays)
	require.Equal(t, 21, s.EffectiveDays)
	require.Len(t, s.Holidays, 2)
	require.True(t, s.Breakdown.Revenue.Equal(revenue.Compute(21, revenue.Daily{Rate: s.Rate.DayValue()})))
	require.Equal(t, "$8,400.00", s.Currency.Format(s.Breakdown.Revenue))

	percent := 25.0
	require.NoError(t, prefs.SetContribution(&percent))
	s, err = m.Summary(ctx, "us", dateutil.Date(2025, time.January, 1), dateutil.Date(2025, time.January, 31))
	require.NoError(t, err)
	require.Equal(t, "$2,100.00", s.Currency.Format(s.Breakdown.Contribution))
	require.Equal(t, "$6,300.00", s.Currency.Format(s.Breakdown.Net))

	manual := 18
	require.NoError(t, prefs.SetManualDays(&manual))
	s, err = m.Summary(ctx, "us", dateutil.Date(2025, time.January, 1), dateutil.Date(2025, time.January, 31))
	require.NoError(t, err)
	require.Equal(t, 21, s.CalculatedDays)
	require.Equal(t, 18, s.EffectiveDays)
	require.Equal(t, "$7,200.00", s.Currency.Format(s.Breakdown.Revenue))
}

func TestManager_SummarySpanningYears(t *testing.T) {
	m, _ := setupManager(t)

	s, err := m.Summary(context.Background(), "us", dateutil.Date(2025, time.December, 29), dateutil.Date(2026, time.January, 2))
	require.NoError(t, err)
	// Mon 29, Tue 30, Wed 31, Fri 2; Thu 1 is a holiday of the next year's calendar
	require.Equal(t, 4, s.CalculatedDays)
	require.Len(t, s.Holidays, 1)
	require.Equal(t, "2026-01-01", s.Holidays[0].Date)
}

func TestManager_SummaryEdgeRanges(t *testing.T) {
	ctx := context.Background()
	m, _ := setupManager(t)

	s, err := m.Summary(ctx, "us", time.Time{}, dateutil.Date(2025, time.January, 31))
	require.NoError(t, err)
	require.Zero(t, s.CalculatedDays)
	require.True(t, s.Breakdown.Revenue.IsZero())

	s, err = m.Summary(ctx, "us", dateutil.Date(2025, time.February, 1), dateutil.Date(2025, time.January, 1))
	require.NoError(t, err)
	require.Zero(t, s.CalculatedDays)
	require.Empty(t, s.Holidays)
}

func TestManager_MissingCalendarDegrades(t *testing.T) {
	ctx := context.Background()
	m, _ := setupManager(t)

	require.Nil(t, m.HolidayCalendar(ctx, "france", 2025))

	s, err := m.Summary(ctx, "france", dateutil.Date(2025, time.January, 1), dateutil.Date(2025, time.January, 31))
	require.NoError(t, err)
	require.Equal(t, 23, s.CalculatedDays)

	overview, err := m.YearOverview(ctx, "france", 2025)
	require.NoError(t, err)
	require.Equal(t, 261, overview.Total)
}

func TestManager_MonthAgendaMatchesSummary(t *testing.T) {
	ctx := context.Background()
	m, _ := setupManager(t)

	for month := time.January; month <= time.March; month++ {
		agenda, err := m.MonthAgenda(ctx, "us", 2025, month, time.Time{}, time.Time{})
		require.NoError(t, err)
		require.Len(t, agenda.Days, dateutil.DaysInMonth(2025, month))
		require.Equal(t, time.Monday, agenda.FirstWeekday)

		s, err := m.Summary(ctx, "us", dateutil.StartOfMonth(2025, month), dateutil.EndOfMonth(2025, month))
		require.NoError(t, err)
		require.Equal(t, s.CalculatedDays, agenda.WorkableDays, "month %v", month)
	}

	agenda, err := m.MonthAgenda(ctx, "us", 2025, time.January, dateutil.Date(2025, time.January, 10), dateutil.Date(2025, time.January, 12))
	require.NoError(t, err)
	inRange := 0
	for _, d := range agenda.Days {
		if d.IsInRange {
			inRange++
		}
	}
	require.Equal(t, 3, inRange)
}

func TestManager_YearOverview(t *testing.T) {
	m, _ := setupManager(t)

	overview, err := m.YearOverview(context.Background(), "us", 2025)
	require.NoError(t, err)
	require.Equal(t, 21, overview.Months[0])
	require.Equal(t, 20, overview.Months[1])

	sum := 0
	for _, n := range overview.Months {
		sum += n
	}
	require.Equal(t, sum, overview.Total)
}

func TestManager_ToggleDay(t *testing.T) {
	ctx := context.Background()
	m, _ := setupManager(t)
	wednesday := dateutil.Date(2025, time.January, 15)

	day, err := m.ToggleDay(ctx, "us", wednesday)
	require.NoError(t, err)
	require.False(t, day.IsWorkday)
	require.True(t, day.IsManuallyExcluded)

	day, err = m.ToggleDay(ctx, "us", wednesday)
	require.NoError(t, err)
	require.True(t, day.IsWorkday)
	require.True(t, day.IsManuallyIncluded)

	day, err = m.ToggleDay(ctx, "us", wednesday)
	require.NoError(t, err)
	require.True(t, day.IsWorkday)
	require.False(t, day.IsManuallyIncluded)
	require.False(t, day.IsManuallyExcluded)

	s, err := m.Summary(ctx, "us", dateutil.Date(2025, time.January, 1), dateutil.Date(2025, time.January, 31))
	require.NoError(t, err)
	require.Equal(t, 21, s.CalculatedDays)

	// a holiday is first forced to be workable
	day, err = m.ToggleDay(ctx, "us", dateutil.Date(2025, time.January, 20))
	require.NoError(t, err)
	require.True(t, day.IsWorkday)
	require.True(t, day.IsHoliday)

	s, err = m.Summary(ctx, "us", dateutil.Date(2025, time.January, 1), dateutil.Date(2025, time.January, 31))
	require.NoError(t, err)
	require.Equal(t, 22, s.CalculatedDays)
}

func TestManager_ClearMonthAndHistory(t *testing.T) {
	ctx := context.Background()
	m, _ := setupManager(t)

	for _, d := range []int{6, 7, 8} {
		_, err := m.ToggleDay(ctx, "us", dateutil.Date(2025, time.January, d))
		require.NoError(t, err)
	}
	_, err := m.ToggleDay(ctx, "us", dateutil.Date(2025, time.February, 3))
	require.NoError(t, err)

	removed, err := m.ClearMonth(ctx, 2025, time.January)
	require.NoError(t, err)
	require.Equal(t, int64(3), removed)

	overview, err := m.YearOverview(ctx, "us", 2025)
	require.NoError(t, err)
	require.Equal(t, 21, overview.Months[0])
	require.Equal(t, 19, overview.Months[1])

	events, err := m.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 5)
	require.Equal(t, store.ActionClearMonth, events[0].Action)
}

func TestNewCalendarLoader(t *testing.T) {
	loader := NewCalendarLoader(config.CalendarConfig{GenerateMissing: true}, zap.NewNop())

	// embedded dataset
	cal, err := loader.Load(context.Background(), "us", 2025)
	require.NoError(t, err)
	require.Len(t, cal.Holidays, 11)

	// rule-based fallback for a year outside the dataset
	cal, err = loader.Load(context.Background(), "fr", 2030)
	require.NoError(t, err)
	name, ok := cal.Lookup("2030-07-14")
	require.True(t, ok, "Bastille Day missing")
	require.NotEmpty(t, name)

	_, err = NewCalendarLoader(config.CalendarConfig{}, zap.NewNop()).Load(context.Background(), "us", 2030)
	require.ErrorIs(t, err, calendar.ErrNotFound)
}

func TestManager_ImportOverrides(t *testing.T) {
	ctx := context.Background()
	m, _ := setupManager(t)

	_, err := m.ToggleDay(ctx, "us", dateutil.Date(2025, time.January, 6))
	require.NoError(t, err)
	_, err = m.ToggleDay(ctx, "us", dateutil.Date(2025, time.February, 3))
	require.NoError(t, err)

	backup, err := m.ExportOverrides(ctx)
	require.NoError(t, err)
	require.Len(t, backup, 2)

	imported := workdays.Overrides{
		"2025-01-07": {Date: "2025-01-07", Excluded: true},
		"2025-01-11": {Date: "2025-01-11", Excluded: false},
		"2025-03-03": {Date: "2025-03-03", Excluded: true},
	}

	// month scope keeps February and ignores March
	stored, err := m.ImportOverrides(ctx, imported, 2025, time.January)
	require.NoError(t, err)
	require.Equal(t, 3, stored)

	all, err := m.ExportOverrides(ctx)
	require.NoError(t, err)
	require.Contains(t, all, "2025-02-03")
	require.Contains(t, all, "2025-01-07")
	require.NotContains(t, all, "2025-01-06")
	require.NotContains(t, all, "2025-03-03")

	agenda, err := m.MonthAgenda(ctx, "us", 2025, time.January, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.True(t, agenda.Days[6].IsManuallyExcluded)
	require.True(t, agenda.Days[10].IsManuallyIncluded)
	require.False(t, agenda.Days[5].IsManuallyExcluded)
	// 21 default days, minus the 7th, plus Saturday the 11th
	require.Equal(t, 21, agenda.WorkableDays)

	// full replacement restores the backup
	stored, err = m.ImportOverrides(ctx, backup, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 2, stored)

	all, err = m.ExportOverrides(ctx)
	require.NoError(t, err)
	require.Equal(t, backup, all)

	events, err := m.History(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, store.ActionImport, events[0].Action)
}
