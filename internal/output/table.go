package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/username/workdays/internal/calendar"
	"github.com/username/workdays/internal/planner"
	"github.com/username/workdays/internal/store"
	"github.com/username/workdays/internal/workdays"
	"github.com/username/workdays/pkg/dateutil"
)

// Grid cell markers
const (
	markHoliday  = "H"
	markExcluded = "-"
	markIncluded = "+"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	return t
}

// PrintSummaryTable outputs the range summary with the revenue breakdown
func PrintSummaryTable(w io.Writer, s *planner.Summary) {
	fmt.Fprintf(w, "Workable days for %s, %s to %s\n\n",
		countryName(s.Country), formatDate(s.Start), formatDate(s.End))

	t := newTable(w)
	t.AppendRow(table.Row{"Calculated days", s.CalculatedDays})
	if s.ManualDays != nil {
		t.AppendRow(table.Row{"Manual days", text.FgYellow.Sprint(*s.ManualDays)})
	}
	t.AppendRow(table.Row{"Holidays in range", len(s.Holidays)})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Rate", s.Rate.Describe(s.EffectiveDays, s.Currency)})
	t.AppendRow(table.Row{"Revenue", s.Currency.Format(s.Breakdown.Revenue)})
	if p := s.Breakdown.ContributionPercent; p != nil {
		t.AppendRow(table.Row{fmt.Sprintf("Contribution (%g%%)", *p), s.Currency.Format(s.Breakdown.Contribution)})
	}
	t.AppendFooter(table.Row{text.Bold.Sprint("Net"), text.Bold.Sprint(s.Currency.Format(s.Breakdown.Net))})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.Render()

	if len(s.Holidays) > 0 {
		fmt.Fprintln(w)
		for _, h := range s.Holidays {
			fmt.Fprintf(w, "  %s  %s\n", h.Date, h.Name)
		}
	}
}

// PrintMonthGrid outputs the month as a calendar grid starting on the configured weekday
func PrintMonthGrid(w io.Writer, a *planner.MonthAgenda) {
	fmt.Fprintf(w, "%s %d, %s: %d workable days\n\n", a.Month, a.Year, countryName(a.Country), a.WorkableDays)

	order := dateutil.WeekdayOrder(a.FirstWeekday)
	header := table.Row{}
	for _, wd := range order {
		header = append(header, wd.String()[:3])
	}

	t := newTable(w)
	t.AppendHeader(header)

	hasRange := false
	for _, d := range a.Days {
		if d.IsInRange {
			hasRange = true
			break
		}
	}

	row := make(table.Row, 0, 7)
	if len(a.Days) > 0 {
		offset := (int(a.Days[0].Date.Weekday()) - int(a.FirstWeekday) + 7) % 7
		for i := 0; i < offset; i++ {
			row = append(row, "")
		}
	}
	for _, d := range a.Days {
		row = append(row, gridCell(d, hasRange))
		if len(row) == 7 {
			t.AppendRow(row)
			row = make(table.Row, 0, 7)
		}
	}
	if len(row) > 0 {
		for len(row) < 7 {
			row = append(row, "")
		}
		t.AppendRow(row)
	}

	configs := make([]table.ColumnConfig, 7)
	for i := range configs {
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignRight, AlignHeader: text.AlignRight}
	}
	t.SetColumnConfigs(configs)
	t.Render()

	fmt.Fprintf(w, "%s holiday  %s excluded  %s included\n", markHoliday, markExcluded, markIncluded)
}

func gridCell(d workdays.DayClassification, hasRange bool) string {
	marker := " "
	switch {
	case d.IsManuallyExcluded:
		marker = markExcluded
	case d.IsManuallyIncluded:
		marker = markIncluded
	case d.IsHoliday:
		marker = markHoliday
	}
	cell := fmt.Sprintf("%2d%s", d.Date.Day(), marker)

	switch {
	case hasRange && !d.IsInRange:
		return text.FgHiBlack.Sprint(cell)
	case d.IsHoliday && !d.IsWorkday:
		return text.FgRed.Sprint(cell)
	case !d.IsWorkday:
		return text.FgHiBlack.Sprint(cell)
	}
	return cell
}

// PrintDayList outputs one row per day of the month
func PrintDayList(w io.Writer, a *planner.MonthAgenda) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Date", "Day", "Status", "Note"})

	for _, d := range a.Days {
		status := text.FgGreen.Sprint("workday")
		if !d.IsWorkday {
			status = text.FgHiBlack.Sprint("off")
		}

		var notes []string
		if d.IsHoliday {
			notes = append(notes, d.HolidayName)
		}
		if d.IsWeekend {
			notes = append(notes, "weekend")
		}
		if d.IsManuallyExcluded {
			notes = append(notes, "manually excluded")
		}
		if d.IsManuallyIncluded {
			notes = append(notes, "manually included")
		}

		t.AppendRow(table.Row{d.ISODate(), d.Date.Weekday().String()[:3], status, strings.Join(notes, ", ")})
	}

	t.AppendSeparator()
	t.AppendFooter(table.Row{"", "", text.Bold.Sprint(fmt.Sprintf("%d workable", a.WorkableDays)), ""})
	t.Render()
}

// PrintYearTable outputs the workable day count of each month
func PrintYearTable(w io.Writer, y *planner.YearOverview) {
	fmt.Fprintf(w, "%d, %s\n\n", y.Year, countryName(y.Country))

	t := newTable(w)
	t.AppendHeader(table.Row{"Month", "Workable days"})
	for i, n := range y.Months {
		t.AppendRow(table.Row{time.Month(i + 1).String(), n})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{text.Bold.Sprint("Total"), text.Bold.Sprint(y.Total)})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.Render()
}

// PrintHolidaysTable outputs a holiday calendar. A nil calendar prints a notice.
func PrintHolidaysTable(w io.Writer, country string, year int, cal *calendar.HolidayCalendar) {
	if cal == nil || len(cal.Holidays) == 0 {
		fmt.Fprintf(w, "No holidays available for %s %d\n", countryName(country), year)
		return
	}

	fmt.Fprintf(w, "Holidays for %s %d\n\n", countryName(country), year)

	t := newTable(w)
	t.AppendHeader(table.Row{"Date", "Day", "Name"})
	for _, h := range cal.Holidays {
		day := ""
		if d, err := dateutil.ParseISO(h.Date); err == nil {
			day = d.Weekday().String()[:3]
			if dateutil.IsWeekend(d) {
				day = text.FgHiBlack.Sprint(day)
			}
		}
		t.AppendRow(table.Row{h.Date, day, h.Name})
	}
	t.Render()
}

// PrintHistoryTable outputs recorded override changes
func PrintHistoryTable(w io.Writer, events []store.OverrideEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No override changes recorded")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"When", "Date", "Action"})
	for _, e := range events {
		t.AppendRow(table.Row{e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Date, e.Action})
	}
	t.Render()
}

// PrintToggleResult outputs the classification of a toggled day
func PrintToggleResult(w io.Writer, d workdays.DayClassification) {
	state := "default"
	switch {
	case d.IsManuallyExcluded:
		state = "manually excluded"
	case d.IsManuallyIncluded:
		state = "manually included"
	}

	verdict := text.FgGreen.Sprint("workable")
	if !d.IsWorkday {
		verdict = text.FgRed.Sprint("not workable")
	}
	fmt.Fprintf(w, "%s (%s) is now %s [%s]\n", d.ISODate(), d.Date.Weekday(), verdict, state)
}

func countryName(code string) string {
	for _, c := range calendar.AvailableCountries() {
		if c.Code == code {
			return c.Name
		}
	}
	return code
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return dateutil.FormatISO(t)
}
