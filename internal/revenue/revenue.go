// Package revenue turns workable day counts into money.
package revenue

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Compute returns days × the rate's value per day.
// An absent rate, non-positive day value or no days yields zero.
func Compute(days int, rate Rate) decimal.Decimal {
	if rate == nil || days <= 0 {
		return decimal.Zero
	}
	perDay := rate.DayValue()
	if !perDay.IsPositive() {
		return decimal.Zero
	}
	return perDay.Mul(decimal.NewFromInt(int64(days)))
}

// Split divides an amount into a contribution of percent% and the net remainder.
// percent is clamped to [0, 100].
func Split(amount decimal.Decimal, percent float64) (contribution, net decimal.Decimal) {
	p := decimal.NewFromFloat(ClampPercent(percent))
	contribution = amount.Mul(p).Div(hundred)
	return contribution, amount.Sub(contribution)
}

// ClampPercent limits percent to [0, 100]
func ClampPercent(percent float64) float64 {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// EffectiveDays returns the manual day count when set, otherwise the calculated one.
// Negative manual values are clamped to zero.
func EffectiveDays(calculated int, manual *int) int {
	if manual == nil {
		return calculated
	}
	if *manual < 0 {
		return 0
	}
	return *manual
}

// Breakdown is the money side of a period summary
type Breakdown struct {
	Days                int
	Revenue             decimal.Decimal
	ContributionPercent *float64
	Contribution        decimal.Decimal
	Net                 decimal.Decimal
}

// Calculate builds the full breakdown for days at rate with an optional contribution
func Calculate(days int, rate Rate, contributionPercent *float64) Breakdown {
	b := Breakdown{
		Days:    days,
		Revenue: Compute(days, rate),
	}
	b.Net = b.Revenue
	if contributionPercent != nil {
		p := ClampPercent(*contributionPercent)
		b.ContributionPercent = &p
		b.Contribution, b.Net = Split(b.Revenue, p)
	}
	return b
}
