package revenue

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Rate type names used in configuration and the preferences file
const (
	RateTypeDaily  = "daily"
	RateTypeHourly = "hourly"
)

// DefaultHoursPerDay is used when an hourly rate does not specify hours
const DefaultHoursPerDay = 8

// Rate is a billing rate: either Daily or Hourly
type Rate interface {
	// DayValue returns the amount earned per workable day
	DayValue() decimal.Decimal
	// Describe renders the calculation for days, e.g. "20 days × $50/hr × 8 hrs"
	Describe(days int, c Currency) string
	isRate()
}

// Daily bills a fixed amount per day
type Daily struct {
	Rate decimal.Decimal
}

// DayValue returns the daily rate
func (d Daily) DayValue() decimal.Decimal {
	return d.Rate
}

// Describe renders "N days × rate/day"
func (d Daily) Describe(days int, c Currency) string {
	return fmt.Sprintf("%d days × %s/day", days, c.Format(d.Rate))
}

func (Daily) isRate() {}

// Hourly bills an hourly amount for a fixed number of hours per day
type Hourly struct {
	Rate        decimal.Decimal
	HoursPerDay decimal.Decimal
}

// DayValue returns rate × hours per day
func (h Hourly) DayValue() decimal.Decimal {
	return h.Rate.Mul(h.HoursPerDay)
}

// Describe renders "N days × H hrs × rate/hr"
func (h Hourly) Describe(days int, c Currency) string {
	return fmt.Sprintf("%d days × %s hrs × %s/hr", days, h.HoursPerDay.String(), c.Format(h.Rate))
}

func (Hourly) isRate() {}

// RateConfig is the flat, persisted form of a Rate
type RateConfig struct {
	Type        string  `json:"type" mapstructure:"type"`
	DailyRate   float64 `json:"daily_rate,omitempty" mapstructure:"daily_rate"`
	HourlyRate  float64 `json:"hourly_rate,omitempty" mapstructure:"hourly_rate"`
	HoursPerDay float64 `json:"hours_per_day,omitempty" mapstructure:"hours_per_day"`
}

// Validate checks the rate type and amounts
func (rc RateConfig) Validate() error {
	for _, v := range []float64{rc.DailyRate, rc.HourlyRate, rc.HoursPerDay} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("rate amounts must be finite numbers, got %v", v)
		}
	}

	switch strings.ToLower(rc.Type) {
	case RateTypeDaily:
		if rc.DailyRate < 0 {
			return fmt.Errorf("daily_rate must not be negative")
		}
	case RateTypeHourly:
		if rc.HourlyRate < 0 {
			return fmt.Errorf("hourly_rate must not be negative")
		}
		if rc.HoursPerDay < 0 || rc.HoursPerDay > 24 {
			return fmt.Errorf("hours_per_day must be between 0 and 24")
		}
	default:
		return fmt.Errorf("rate type must be '%s' or '%s', got '%s'", RateTypeDaily, RateTypeHourly, rc.Type)
	}
	return nil
}

// Rate converts the flat configuration into a Rate
func (rc RateConfig) Rate() (Rate, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}

	if strings.ToLower(rc.Type) == RateTypeDaily {
		return Daily{Rate: decimal.NewFromFloat(rc.DailyRate)}, nil
	}

	hours := rc.HoursPerDay
	if hours == 0 {
		hours = DefaultHoursPerDay
	}
	return Hourly{
		Rate:        decimal.NewFromFloat(rc.HourlyRate),
		HoursPerDay: decimal.NewFromFloat(hours),
	}, nil
}

// ConfigFromRate converts a Rate back to its flat form
func ConfigFromRate(r Rate) RateConfig {
	switch v := r.(type) {
	case Daily:
		return RateConfig{Type: RateTypeDaily, DailyRate: v.Rate.InexactFloat64()}
	case Hourly:
		return RateConfig{
			Type:        RateTypeHourly,
			HourlyRate:  v.Rate.InexactFloat64(),
			HoursPerDay: v.HoursPerDay.InexactFloat64(),
		}
	}
	return RateConfig{Type: RateTypeDaily}
}
