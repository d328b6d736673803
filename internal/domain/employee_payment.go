package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmployeePayment is the payroll-side symmetric counterpart of Payment.
type EmployeePayment struct {
	ID                      int32           `json:"id"`
	EmployeeID              int32           `json:"employeeId"`
	PaymentDate             time.Time       `json:"paymentDate"`
	AmountPaid              decimal.Decimal `json:"amountPaid"`
	CurrencyPaid            Currency        `json:"currencyPaid"`
	ExchangeRateApplied     *decimal.Decimal `json:"exchangeRateApplied,omitempty"`
	AmountPaidVESEquivalent decimal.Decimal `json:"amountPaidVesEquivalent"`
	Method                  PaymentMethod   `json:"method,omitempty"`
	CreatedAt               time.Time       `json:"createdAt"`
}

func (p *EmployeePayment) Validate() error {
	if p.EmployeeID <= 0 {
		return NewBusinessRuleViolation("employee_payment_employee_required", "employee is required")
	}
	if !p.CurrencyPaid.IsValid() {
		return ErrCurrencyNotSupported
	}
	if p.AmountPaid.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return nil
}

// EmployeePaymentAllocation mirrors PaymentAllocation on the payable-item side.
type EmployeePaymentAllocation struct {
	ID                    int32           `json:"id"`
	EmployeePaymentID     int32           `json:"employeePaymentId"`
	EmployeePayableItemID int32           `json:"employeePayableItemId"`
	AmountAllocatedVES    decimal.Decimal `json:"amountAllocatedVes"`
	CreatedAt             time.Time       `json:"createdAt"`
}

type RecordEmployeePaymentInput struct {
	EmployeeID  int32
	PaymentDate time.Time
	Amount      decimal.Decimal
	Currency    Currency
	Allocations []AllocationRequest
	Method      PaymentMethod
}

type RecordEmployeePaymentResult struct {
	Payment      *EmployeePayment
	Allocations  []*EmployeePaymentAllocation
	UpdatedItems []*EmployeePayableItem
	Payslip      *Payslip
}

type EmployeePaymentRepository interface {
	GetByID(id int32) (*EmployeePayment, error)
	ListByEmployee(employeeID int32) ([]*EmployeePayment, error)
	GetAllocationsByPayment(paymentID int32) ([]*EmployeePaymentAllocation, error)
	// RecordAtomic persists the payment, its allocations, the updated
	// payable items, and the accompanying payslip in one transaction.
	RecordAtomic(payment *EmployeePayment, allocations []*EmployeePaymentAllocation, updatedItems []*EmployeePayableItem, slip *Payslip) (*EmployeePayment, *Payslip, error)
}
