package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// RoundMoney rounds an amount to two decimal places (half away from zero).
// Rounding goes through decimal so 0.1+0.2 style drift does not leak into totals.
// Non-finite amounts are returned unchanged.
func RoundMoney(amount float64) float64 {
	if math.IsInf(amount, 0) || math.IsNaN(amount) {
		return amount
	}
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// FormatMoney formats an amount as a string like "₹12,500.50".
// Uses comma as thousands separator and always prints two decimals.
func FormatMoney(amount float64, symbol string) string {
	if math.IsInf(amount, 0) || math.IsNaN(amount) {
		return symbol + strconv.FormatFloat(amount, 'f', -1, 64)
	}
	d := decimal.NewFromFloat(amount).Round(2)
	neg := d.IsNegative()
	if neg {
		d = d.Neg()
	}

	s := d.StringFixed(2)
	intPart, fracPart := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot:]
	}

	var b strings.Builder
	b.Grow(len(s) + len(intPart)/3 + len(symbol) + 1)
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(symbol)

	// Insert separators from the left.
	rem := len(intPart) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(intPart[:rem])
	for i := rem; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	b.WriteString(fracPart)

	return b.String()
}

// FormatQuantity prints a quantity without trailing zeros ("3", "2.5")
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
