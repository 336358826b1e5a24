package calendar

import (
	"context"
	"fmt"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/fr"
	"github.com/rickar/cal/v2/us"
	"go.uber.org/zap"

	"github.com/username/workdays/pkg/dateutil"
)

// GeneratedLoader implements Loader from holiday rules instead of data files.
// It covers any year for the supported countries.
type GeneratedLoader struct {
	rules  map[string][]*cal.Holiday
	logger *zap.Logger
}

// NewGeneratedLoader creates a loader with the national holiday rules of the US and France
func NewGeneratedLoader(logger *zap.Logger) *GeneratedLoader {
	return &GeneratedLoader{
		rules: map[string][]*cal.Holiday{
			"us":     us.Holidays,
			"france": fr.Holidays,
		},
		logger: logger,
	}
}

// Load computes the calendar from the observed date of every rule in the year
func (gl *GeneratedLoader) Load(ctx context.Context, country string, year int) (*HolidayCalendar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	country = NormalizeCountry(country)
	rules, ok := gl.rules[country]
	if !ok {
		return nil, fmt.Errorf("%w: no holiday rules for %q", ErrNotFound, country)
	}

	result := &HolidayCalendar{
		Year:     year,
		Country:  country,
		Holidays: make([]Holiday, 0, len(rules)),
	}

	// observance can move a holiday across the year boundary, so the
	// neighbouring years are computed too and filtered by observed date
	seen := make(map[string]bool)
	for _, ruleYear := range []int{year - 1, year, year + 1} {
		for _, h := range rules {
			actual, observed := h.Calc(ruleYear)
			date := observed
			if date.IsZero() {
				date = actual
			}
			// zero when the rule is not in effect that year
			if date.IsZero() || date.Year() != year {
				continue
			}
			iso := dateutil.FormatISO(date)
			if seen[iso+h.Name] {
				continue
			}
			seen[iso+h.Name] = true
			result.Holidays = append(result.Holidays, Holiday{
				Date: iso,
				Name: h.Name,
			})
		}
	}
	sortHolidays(result.Holidays)

	gl.logger.Debug("Holiday calendar generated from rules",
		zap.String("country", country),
		zap.Int("year", year),
		zap.Int("holidays", len(result.Holidays)))

	return result, nil
}
