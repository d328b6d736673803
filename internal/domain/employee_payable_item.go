package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PayableItemStatus string

const (
	PayableItemPending       PayableItemStatus = "pending"
	PayableItemPartiallyPaid PayableItemStatus = "partially_paid"
	PayableItemPaid          PayableItemStatus = "paid"
)

// PayableSourceType identifies what created an EmployeePayableItem.
type PayableSourceType string

const (
	PayableSourcePayrollRun        PayableSourceType = "payroll_run"
	PayableSourceBalanceAdjustment PayableSourceType = "balance_adjustment"
)

// EmployeePayableItem is the school's discrete obligation to an employee,
// structurally symmetric to AppliedCharge.
type EmployeePayableItem struct {
	ID               int32             `json:"id"`
	EmployeeID       int32             `json:"employeeId"`
	SourceType       PayableSourceType `json:"sourceType"`
	SourceID         int32             `json:"sourceId"`
	Description      string            `json:"description"`
	AmountOriginal   decimal.Decimal   `json:"amountOriginal"`
	CurrencyOriginal Currency          `json:"currencyOriginal"`
	AmountVESAtCreation decimal.Decimal `json:"amountVesAtCreation"`
	AmountPaidVES    decimal.Decimal   `json:"amountPaidVes"`
	Status           PayableItemStatus `json:"status"`
	CreatedAt        time.Time         `json:"createdAt"`
}

func (i *EmployeePayableItem) IsOpen() bool {
	return i.Status == PayableItemPending || i.Status == PayableItemPartiallyPaid
}

// DeriveStatus recomputes status from amount_paid_ves vs amount_ves_at_creation.
func (i *EmployeePayableItem) DeriveStatus() PayableItemStatus {
	if ApproxGTE(i.AmountPaidVES, i.AmountVESAtCreation) {
		return PayableItemPaid
	}
	if i.AmountPaidVES.GreaterThan(decimal.Zero) {
		return PayableItemPartiallyPaid
	}
	return PayableItemPending
}

type AdjustmentType string

const (
	AdjustmentEarning   AdjustmentType = "earning"
	AdjustmentDeduction AdjustmentType = "deduction"
)

// EmployeeBalanceAdjustment is a manual earning or deduction outside the
// normal payroll run cycle. Deductions must target an existing payable item.
type EmployeeBalanceAdjustment struct {
	ID               int32           `json:"id"`
	EmployeeID       int32           `json:"employeeId"`
	Type             AdjustmentType  `json:"type"`
	Description      string          `json:"description"`
	AmountOriginal   decimal.Decimal `json:"amountOriginal"`
	CurrencyOriginal Currency        `json:"currencyOriginal"`
	TargetPayableItemID *int32       `json:"targetPayableItemId,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

func (a *EmployeeBalanceAdjustment) Validate() error {
	if a.EmployeeID <= 0 {
		return NewBusinessRuleViolation("adjustment_employee_required", "employee is required")
	}
	if a.AmountOriginal.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if !a.CurrencyOriginal.IsValid() {
		return ErrCurrencyNotSupported
	}
	if a.Type == AdjustmentDeduction && a.TargetPayableItemID == nil {
		return NewBusinessRuleViolation("adjustment_deduction_needs_target", "a deduction must target an existing payable item")
	}
	return nil
}

type EmployeePayableItemRepository interface {
	Create(item *EmployeePayableItem) (*EmployeePayableItem, error)
	GetByID(id int32) (*EmployeePayableItem, error)
	ListOpenByEmployee(employeeID int32) ([]*EmployeePayableItem, error)
	CreateBatch(items []*EmployeePayableItem) ([]*EmployeePayableItem, error)
	UpdatePaymentFields(items []*EmployeePayableItem) error
}

type EmployeeBalanceAdjustmentRepository interface {
	// CreateAtomic persists the adjustment and, for a deduction, the updated
	// target payable item, in one transaction.
	CreateAtomic(adj *EmployeeBalanceAdjustment, updatedItem *EmployeePayableItem) (*EmployeeBalanceAdjustment, error)
	ListByEmployee(employeeID int32) ([]*EmployeeBalanceAdjustment, error)
}
