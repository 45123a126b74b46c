// Package money formats euro amounts the way Spanish documents print them.
package money

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const (
	centsFormat = "#.###,##"
	wholeFormat = "#.###,"
)

// FormatEUR renders d with dot thousands and comma decimals, e.g. "1.234,56 €".
func FormatEUR(d decimal.Decimal) string {
	return humanize.FormatFloat(centsFormat, d.Round(2).InexactFloat64()) + " €"
}

// FormatEURWhole truncates d to whole euros, e.g. "1.234 €".
func FormatEURWhole(d decimal.Decimal) string {
	return humanize.FormatInteger(wholeFormat, int(d.Truncate(0).IntPart())) + " €"
}

// FormatDecimal prints d with a comma decimal separator and no grouping.
func FormatDecimal(d decimal.Decimal) string {
	return strings.Replace(d.String(), ".", ",", 1)
}
