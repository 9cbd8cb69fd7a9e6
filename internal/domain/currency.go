package domain

import "github.com/shopspring/decimal"

// MinorUnitsLookup resolves a currency code to its minor-unit exponent.
type MinorUnitsLookup func(currency string) int

// minorUnitExponents lists the currencies whose exponent differs from the
// ISO 4217 default of 2.
var minorUnitExponents = map[string]int{
	"BHD": 3,
	"IQD": 3,
	"JOD": 3,
	"JPY": 0,
	"KRW": 0,
	"KWD": 3,
	"LYD": 3,
	"OMR": 3,
	"TND": 3,
	"VND": 0,
}

// DefaultMinorUnits is the static exponent table used when no other lookup
// is injected.
func DefaultMinorUnits(currency string) int {
	if exp, ok := minorUnitExponents[currency]; ok {
		return exp
	}
	return 2
}

// ToMinorUnits converts a decimal base-currency amount to the gateway's
// integer minor-unit representation, rounding half-up.
func ToMinorUnits(amount decimal.Decimal, exponent int) int64 {
	return amount.Shift(int32(exponent)).Round(0).IntPart()
}
