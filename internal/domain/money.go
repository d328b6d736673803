package domain

import "github.com/shopspring/decimal"

// Currency is the closed set of currency tags the ledger understands.
type Currency string

const (
	VES Currency = "VES"
	USD Currency = "USD"
	EUR Currency = "EUR"
)

// ValidCurrencies lists the currencies handlers accept on the boundary.
var ValidCurrencies = map[Currency]bool{
	VES: true,
	USD: true,
	EUR: true,
}

// IsValid reports whether c is one of the supported currency tags.
func (c Currency) IsValid() bool {
	return ValidCurrencies[c]
}

// MoneyTolerance is the absolute tolerance used when comparing two decimal
// amounts that should be "the same" after accumulated rounding (§7).
var MoneyTolerance = decimal.NewFromFloat(0.001)

// Round2 rounds d to 2 decimal places, the contract's universal rounding
// boundary for every arithmetic step touching money.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ApproxGTE reports whether a >= b within MoneyTolerance, i.e. a is not
// meaningfully smaller than b.
func ApproxGTE(a, b decimal.Decimal) bool {
	return a.Sub(b).GreaterThanOrEqual(MoneyTolerance.Neg())
}

// ApproxLTE reports whether a <= b within MoneyTolerance.
func ApproxLTE(a, b decimal.Decimal) bool {
	return b.Sub(a).GreaterThanOrEqual(MoneyTolerance.Neg())
}

// ApproxEqual reports whether a and b differ by no more than MoneyTolerance.
func ApproxEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(MoneyTolerance)
}

// ClampNonNegative returns d, or zero if d is negative.
func ClampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
