package handler

import "github.com/shopspring/decimal"

// decimalFromString parses a JSON string-encoded decimal, the convention
// used throughout the API for money fields to avoid float round-trip loss.
func decimalFromString(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
