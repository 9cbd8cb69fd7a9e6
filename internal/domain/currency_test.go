package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

// TestDefaultMinorUnits tests the exponent lookup for known and unknown currencies
func TestDefaultMinorUnits(t *testing.T) {
	tests := []struct {
		name     string
		currency string
		expected int
	}{
		{name: "default_two_decimals", currency: "USD", expected: 2},
		{name: "euro_two_decimals", currency: "EUR", expected: 2},
		{name: "danish_krone_two_decimals", currency: "DKK", expected: 2},
		{name: "yen_zero_decimals", currency: "JPY", expected: 0},
		{name: "won_zero_decimals", currency: "KRW", expected: 0},
		{name: "dong_zero_decimals", currency: "VND", expected: 0},
		{name: "kuwaiti_dinar_three_decimals", currency: "KWD", expected: 3},
		{name: "bahraini_dinar_three_decimals", currency: "BHD", expected: 3},
		{name: "unknown_currency_defaults_to_two", currency: "XXX", expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultMinorUnits(tt.currency); got != tt.expected {
				t.Errorf("DefaultMinorUnits(%q) = %d, want %d", tt.currency, got, tt.expected)
			}
		})
	}
}

// TestToMinorUnits tests decimal-to-minor-unit conversion including rounding
func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		exponent int
		expected int64
	}{
		{name: "two_decimals_exact", amount: "19.99", exponent: 2, expected: 1999},
		{name: "two_decimals_whole", amount: "100", exponent: 2, expected: 10000},
		{name: "zero_decimals", amount: "1500", exponent: 0, expected: 1500},
		{name: "three_decimals", amount: "1.234", exponent: 3, expected: 1234},
		{name: "rounds_half_up", amount: "10.005", exponent: 2, expected: 1001},
		{name: "rounds_down_below_half", amount: "10.004", exponent: 2, expected: 1000},
		{name: "sub_minor_precision", amount: "0.333333", exponent: 2, expected: 33},
		{name: "zero", amount: "0", exponent: 2, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := decimal.NewFromString(tt.amount)
			if err != nil {
				t.Fatalf("invalid amount %q: %v", tt.amount, err)
			}
			if got := ToMinorUnits(amount, tt.exponent); got != tt.expected {
				t.Errorf("ToMinorUnits(%s, %d) = %d, want %d", tt.amount, tt.exponent, got, tt.expected)
			}
		})
	}
}
