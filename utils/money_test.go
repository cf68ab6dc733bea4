package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundMoney(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   float64
	}{
		{"already two places", 12.5, 12.5},
		{"half rounds away from zero", 2.675, 2.68},
		{"negative half rounds away from zero", -1.005, -1.01},
		{"float drift is removed", 0.1 + 0.2, 0.3},
		{"zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundMoney(tt.amount))
		})
	}
}

func TestRoundMoney_NonFinitePassesThrough(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.True(t, math.IsInf(RoundMoney(math.Inf(1)), 1))
		assert.True(t, math.IsNaN(RoundMoney(math.NaN())))
	})
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{"zero", 0, "₹0.00"},
		{"one digit", 5, "₹5.00"},
		{"three digits", 999.5, "₹999.50"},
		{"four digits", 1234.5, "₹1,234.50"},
		{"seven digits", 1234567.891, "₹1,234,567.89"},
		{"exact group boundary", 100000, "₹100,000.00"},
		{"rounding carries into a new group", 999.999, "₹1,000.00"},
		{"negative", -1234.5, "-₹1,234.50"},
		{"negative short", -12, "-₹12.00"},
		{"negative that rounds to zero", -0.001, "₹0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(tt.amount, "₹"))
		})
	}
}

func TestFormatMoney_NonFinite(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.Equal(t, "$+Inf", FormatMoney(math.Inf(1), "$"))
		assert.Equal(t, "$NaN", FormatMoney(math.NaN(), "$"))
	})
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "3", FormatQuantity(3))
	assert.Equal(t, "2.5", FormatQuantity(2.5))
	assert.Equal(t, "0.125", FormatQuantity(0.125))
}
