package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payslip is an immutable snapshot of a single EmployeePayment's breakdown
// at the moment of payment. When an earlier PayrollRunEmployeeDetail exists
// for the employee it reuses its totals and period; otherwise the payment is
// treated as an advance against no specific run.
type Payslip struct {
	ID                int32                     `json:"id"`
	EmployeePaymentID int32                     `json:"employeePaymentId"`
	EmployeeID        int32                     `json:"employeeId"`
	PayrollRunID      *int32                    `json:"payrollRunId,omitempty"`
	PeriodStart       *time.Time                `json:"periodStart,omitempty"`
	PeriodEnd         *time.Time                `json:"periodEnd,omitempty"`
	IsAdvance         bool                      `json:"isAdvance"`
	BaseSalaryVES     decimal.Decimal           `json:"baseSalaryVes"`
	TotalEarningsVES  decimal.Decimal           `json:"totalEarningsVes"`
	TotalDeductionsVES decimal.Decimal          `json:"totalDeductionsVes"`
	NetAmountVES      decimal.Decimal           `json:"netAmountVes"`
	ComponentBreakdown []ComponentBreakdownEntry `json:"componentBreakdown"`
	IssuedAt          time.Time                 `json:"issuedAt"`
}

type PayslipRepository interface {
	GetByID(id int32) (*Payslip, error)
	GetByEmployeePayment(paymentID int32) (*Payslip, error)
	ListByEmployee(employeeID int32) ([]*Payslip, error)
}
