// Package money rounds and formats currency amounts for display and export.
//
// Amounts are computed as float64 by the engine; everything shown to a
// user or written to a file goes through this package so that a value is
// rounded exactly once, half away from zero, to two decimal places.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places used for currency values.
const Places = 2

// DefaultSymbol is the currency prefix used when none is configured.
const DefaultSymbol = "L."

// Round rounds amount to Places decimals.
func Round(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(Places).InexactFloat64()
}

// Decimal returns amount as a decimal rounded to Places.
func Decimal(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Round(Places)
}

// Plain renders amount with exactly two decimals and no grouping, e.g. "1234.50".
func Plain(amount float64) string {
	return Decimal(amount).StringFixed(Places)
}

// Format renders amount with the symbol and thousands separators, e.g. "L.1,234.50".
func Format(amount float64, symbol string) string {
	d := Decimal(amount)
	neg := d.IsNegative()
	if neg {
		d = d.Neg()
	}

	fixed := d.StringFixed(Places)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	out := symbol + group(intPart) + "." + fracPart
	if neg {
		return "-" + out
	}
	return out
}

// Percent renders a rate such as 5 as "5.00%".
func Percent(rate float64) string {
	return decimal.NewFromFloat(rate).StringFixed(Places) + "%"
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
