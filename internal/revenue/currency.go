package revenue

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency formats amounts with a symbol prefix and en-US grouping, e.g. $8,000.00
type Currency struct {
	Code    string
	Symbol  string
	Name    string
	printer *message.Printer
}

// supported currencies and their display names
var currencies = map[string]string{
	"USD": "US Dollar",
	"EUR": "Euro",
	"JPY": "Japanese Yen",
	"GBP": "British Pound",
}

// SupportedCurrencies returns the supported ISO codes
func SupportedCurrencies() []string {
	return []string{"USD", "EUR", "JPY", "GBP"}
}

// GetCurrency returns the Currency for a supported ISO code (case-insensitive)
func GetCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	name, ok := currencies[code]
	if !ok {
		return Currency{}, fmt.Errorf("unsupported currency %q (supported: %s)", code, strings.Join(SupportedCurrencies(), ", "))
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		return Currency{}, fmt.Errorf("invalid currency %q: %w", code, err)
	}

	printer := message.NewPrinter(language.AmericanEnglish)

	return Currency{
		Code:    code,
		Symbol:  printer.Sprint(currency.NarrowSymbol(unit)),
		Name:    name,
		printer: printer,
	}, nil
}

// MustCurrency is GetCurrency for known-good codes
func MustCurrency(code string) Currency {
	c, err := GetCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

// Format renders the amount with two decimals, e.g. $1,234.50
func (c Currency) Format(amount decimal.Decimal) string {
	printer := c.printer
	if printer == nil {
		printer = message.NewPrinter(language.AmericanEnglish)
	}
	value := amount.Round(2).InexactFloat64()
	formatted := printer.Sprint(number.Decimal(value,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2)))
	return c.Symbol + formatted
}
