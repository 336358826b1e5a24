package calendar

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned when no holiday calendar exists for a country and year
var ErrNotFound = errors.New("holiday calendar not found")

// Holiday represents a single named public holiday
type Holiday struct {
	Date string `json:"date" yaml:"date"` // YYYY-MM-DD
	Name string `json:"name" yaml:"name"`
}

// HolidayCalendar is the immutable list of holidays for one country and year
type HolidayCalendar struct {
	Year     int       `json:"year" yaml:"year"`
	Country  string    `json:"country" yaml:"country"`
	Holidays []Holiday `json:"holidays" yaml:"holidays"`
}

// Lookup returns the holiday name for an ISO date string.
// Matching is plain string equality; a nil calendar has no holidays.
func (c *HolidayCalendar) Lookup(isoDate string) (string, bool) {
	if c == nil {
		return "", false
	}
	for _, h := range c.Holidays {
		if h.Date == isoDate {
			return h.Name, true
		}
	}
	return "", false
}

// Index returns the holidays keyed by date. A nil calendar yields an empty map.
func (c *HolidayCalendar) Index() map[string]string {
	if c == nil {
		return map[string]string{}
	}
	index := make(map[string]string, len(c.Holidays))
	for _, h := range c.Holidays {
		// first entry wins, as with Lookup
		if _, ok := index[h.Date]; !ok {
			index[h.Date] = h.Name
		}
	}
	return index
}

// Loader resolves a country and year to holiday calendar data
type Loader interface {
	// Load returns the calendar or an error wrapping ErrNotFound
	Load(ctx context.Context, country string, year int) (*HolidayCalendar, error)
}

// Country describes a country with bundled holiday data
type Country struct {
	Code string
	Name string
}

// AvailableCountries returns the countries shipped with the embedded dataset
func AvailableCountries() []Country {
	return []Country{
		{Code: "us", Name: "United States"},
		{Code: "france", Name: "France"},
	}
}

// AvailableYears returns the years shipped with the embedded dataset
func AvailableYears() []int {
	return []int{2025, 2026, 2027}
}

// NormalizeCountry lower-cases a country code and resolves aliases
func NormalizeCountry(country string) string {
	code := strings.ToLower(strings.TrimSpace(country))
	switch code {
	case "fr", "fra":
		return "france"
	case "usa", "united states":
		return "us"
	}
	return code
}

// Merge combines several calendars of the same country into one.
// Nil calendars are skipped; the result is nil when nothing is left.
func Merge(country string, calendars ...*HolidayCalendar) *HolidayCalendar {
	var merged *HolidayCalendar
	for _, c := range calendars {
		if c == nil {
			continue
		}
		if merged == nil {
			merged = &HolidayCalendar{Year: c.Year, Country: country}
		}
		merged.Holidays = append(merged.Holidays, c.Holidays...)
	}
	if merged != nil {
		sortHolidays(merged.Holidays)
	}
	return merged
}

func sortHolidays(holidays []Holiday) {
	sort.SliceStable(holidays, func(i, j int) bool {
		return holidays[i].Date < holidays[j].Date
	})
}

func cacheKey(country string, year int) string {
	return fmt.Sprintf("%s-%d", country, year)
}
