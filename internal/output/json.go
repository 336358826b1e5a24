package output

import (
	"encoding/json"
	"io"

	"github.com/shopspring/decimal"

	"github.com/username/workdays/internal/calendar"
	"github.com/username/workdays/internal/planner"
	"github.com/username/workdays/internal/revenue"
	"github.com/username/workdays/internal/store"
	"github.com/username/workdays/internal/workdays"
)

// JSONSummary is the JSON output format for a range summary
type JSONSummary struct {
	Country             string             `json:"country"`
	Start               string             `json:"start"`
	End                 string             `json:"end"`
	CalculatedDays      int                `json:"calculated_days"`
	EffectiveDays       int                `json:"effective_days"`
	ManualDays          *int               `json:"manual_days"`
	Holidays            []calendar.Holiday `json:"holidays"`
	Rate                revenue.RateConfig `json:"rate"`
	Currency            string             `json:"currency"`
	Revenue             float64            `json:"revenue"`
	ContributionPercent *float64           `json:"contribution_percent"`
	Contribution        float64            `json:"contribution"`
	Net                 float64            `json:"net"`
}

// JSONMonth is the JSON output format for a month agenda
type JSONMonth struct {
	Country      string                       `json:"country"`
	Year         int                          `json:"year"`
	Month        int                          `json:"month"`
	WorkableDays int                          `json:"workable_days"`
	Days         []workdays.DayClassification `json:"days"`
}

// JSONYear is the JSON output format for a year overview
type JSONYear struct {
	Country string `json:"country"`
	Year    int    `json:"year"`
	Months  []int  `json:"months"`
	Total   int    `json:"total"`
}

// JSONEvent is the JSON output format for an override change
type JSONEvent struct {
	Date      string `json:"date"`
	Action    string `json:"action"`
	CreatedAt string `json:"created_at"`
}

func encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// PrintSummaryJSON outputs a range summary in JSON format
func PrintSummaryJSON(w io.Writer, s *planner.Summary) error {
	holidays := s.Holidays
	if holidays == nil {
		holidays = []calendar.Holiday{}
	}

	return encode(w, JSONSummary{
		Country:             s.Country,
		Start:               formatDate(s.Start),
		End:                 formatDate(s.End),
		CalculatedDays:      s.CalculatedDays,
		EffectiveDays:       s.EffectiveDays,
		ManualDays:          s.ManualDays,
		Holidays:            holidays,
		Rate:                revenue.ConfigFromRate(s.Rate),
		Currency:            s.Currency.Code,
		Revenue:             money(s.Breakdown.Revenue),
		ContributionPercent: s.Breakdown.ContributionPercent,
		Contribution:        money(s.Breakdown.Contribution),
		Net:                 money(s.Breakdown.Net),
	})
}

// PrintMonthJSON outputs a month agenda in JSON format
func PrintMonthJSON(w io.Writer, a *planner.MonthAgenda) error {
	return encode(w, JSONMonth{
		Country:      a.Country,
		Year:         a.Year,
		Month:        int(a.Month),
		WorkableDays: a.WorkableDays,
		Days:         a.Days,
	})
}

// PrintYearJSON outputs a year overview in JSON format
func PrintYearJSON(w io.Writer, y *planner.YearOverview) error {
	return encode(w, JSONYear{
		Country: y.Country,
		Year:    y.Year,
		Months:  y.Months[:],
		Total:   y.Total,
	})
}

// PrintHolidaysJSON outputs a holiday calendar in JSON format; nil prints an empty calendar
func PrintHolidaysJSON(w io.Writer, country string, year int, cal *calendar.HolidayCalendar) error {
	if cal == nil {
		cal = &calendar.HolidayCalendar{Year: year, Country: country, Holidays: []calendar.Holiday{}}
	}
	return encode(w, cal)
}

// PrintHistoryJSON outputs override changes in JSON format
func PrintHistoryJSON(w io.Writer, events []store.OverrideEvent) error {
	out := make([]JSONEvent, 0, len(events))
	for _, e := range events {
		out = append(out, JSONEvent{
			Date:      e.Date,
			Action:    e.Action,
			CreatedAt: e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	return encode(w, out)
}

// PrintDayJSON outputs a single day classification in JSON format
func PrintDayJSON(w io.Writer, d workdays.DayClassification) error {
	return encode(w, d)
}
