package domain

import "github.com/shopspring/decimal"

// ApplyScholarship applies a student's scholarship discount to a VES amount.
// The percentage path takes precedence over the fixed-amount path when both
// are configured; only one discount path ever applies.
func ApplyScholarship(student *Student, amountVES decimal.Decimal) decimal.Decimal {
	if student == nil || !student.HasScholarship {
		return ClampNonNegative(Round2(amountVES))
	}

	result := amountVES
	switch {
	case student.ScholarshipPercentage.GreaterThan(decimal.Zero):
		discount := Round2(amountVES.Mul(student.ScholarshipPercentage).Div(decimal.NewFromInt(100)))
		result = amountVES.Sub(discount)
	case student.ScholarshipFixedAmountVES.GreaterThan(decimal.Zero):
		result = amountVES.Sub(student.ScholarshipFixedAmountVES)
	}

	return ClampNonNegative(Round2(result))
}
