package models

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatAmount renders an amount with two decimals and comma thousand
// separators, e.g. 1234.5 -> "1,234.50".
func FormatAmount(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	intPart, fracPart, _ := strings.Cut(rounded.Abs().StringFixed(2), ".")

	grouped := intPart
	if n, err := strconv.ParseInt(intPart, 10, 64); err == nil {
		grouped = humanize.Comma(n)
	}
	if rounded.IsNegative() {
		grouped = "-" + grouped
	}
	return grouped + "." + fracPart
}

// Percentage returns part/whole*100, or zero when whole is not positive.
func Percentage(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// SumMagnitudes adds up the absolute amounts of the given transactions.
func SumMagnitudes(transactions []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		total = total.Add(tx.Magnitude())
	}
	return total
}
