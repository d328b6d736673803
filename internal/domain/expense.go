package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategory and Supplier are supplemented catalogue entities: the
// original system tracks operational expenditure (including salaries paid
// through payroll) alongside the representative-side ledger, so reporting
// can study the two in isolation (§4.9).
type ExpenseCategory struct {
	ID       int32  `json:"id"`
	Name     string `json:"name"`
	IsSalary bool   `json:"isSalary"`
}

func (c *ExpenseCategory) Validate() error {
	if c.Name == "" {
		return ErrNameRequired
	}
	return nil
}

type Supplier struct {
	ID      int32   `json:"id"`
	Name    string  `json:"name"`
	RIF     *string `json:"rif,omitempty"`
	Contact *string `json:"contact,omitempty"`
}

func (s *Supplier) Validate() error {
	if s.Name == "" {
		return ErrNameRequired
	}
	return nil
}

type ExpensePaymentStatus string

const (
	ExpensePaymentPending       ExpensePaymentStatus = "pending"
	ExpensePaymentPartiallyPaid ExpensePaymentStatus = "partially_paid"
	ExpensePaymentPaid          ExpensePaymentStatus = "paid"
	ExpensePaymentCancelled     ExpensePaymentStatus = "cancelled"
)

// Expense is an operational outlay, recorded and paid down independently of
// the payroll and student-billing ledgers.
type Expense struct {
	ID                int32                `json:"id"`
	Description       string               `json:"description"`
	CategoryID        int32                `json:"categoryId"`
	SupplierID        *int32               `json:"supplierId,omitempty"`
	ExpenseDate       time.Time            `json:"expenseDate"`
	AmountOriginal    decimal.Decimal      `json:"amountOriginal"`
	CurrencyOriginal  Currency             `json:"currencyOriginal"`
	AmountVES         decimal.Decimal      `json:"amountVes"`
	AmountPaidVES     decimal.Decimal      `json:"amountPaidVes"`
	PaymentStatus     ExpensePaymentStatus `json:"paymentStatus"`
	RecordedByUserID  int32                `json:"recordedByUserId"`
	CreatedAt         time.Time            `json:"createdAt"`
	UpdatedAt         time.Time            `json:"updatedAt"`
}

func (e *Expense) Validate() error {
	if e.Description == "" {
		return NewBusinessRuleViolation("expense_description_required", "description is required")
	}
	if e.CategoryID <= 0 {
		return NewBusinessRuleViolation("expense_category_required", "category is required")
	}
	if e.AmountOriginal.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if !e.CurrencyOriginal.IsValid() {
		return ErrCurrencyNotSupported
	}
	return nil
}

func (e *Expense) DeriveStatus() ExpensePaymentStatus {
	if e.PaymentStatus == ExpensePaymentCancelled {
		return ExpensePaymentCancelled
	}
	if ApproxGTE(e.AmountPaidVES, e.AmountVES) {
		return ExpensePaymentPaid
	}
	if e.AmountPaidVES.GreaterThan(decimal.Zero) {
		return ExpensePaymentPartiallyPaid
	}
	return ExpensePaymentPending
}

// ExpensePayment is a discrete payment recorded against an Expense.
type ExpensePayment struct {
	ID          int32           `json:"id"`
	ExpenseID   int32           `json:"expenseId"`
	PaymentDate time.Time       `json:"paymentDate"`
	AmountVES   decimal.Decimal `json:"amountVes"`
	Method      PaymentMethod   `json:"method,omitempty"`
	Notes       *string         `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type ExpenseSummaryByCategory struct {
	CategoryID   int32           `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	TotalVES     decimal.Decimal `json:"totalVes"`
	Count        int32           `json:"count"`
}

type ExpenseSummaryBySupplier struct {
	SupplierID   int32           `json:"supplierId"`
	SupplierName string          `json:"supplierName"`
	TotalVES     decimal.Decimal `json:"totalVes"`
	Count        int32           `json:"count"`
}

type ExpenseTrendPoint struct {
	Period   string          `json:"period"`
	TotalVES decimal.Decimal `json:"totalVes"`
}

type ExpenseFilter struct {
	DateFrom       *time.Time
	DateTo         *time.Time
	CategoryID     *int32
	SupplierID     *int32
	Status         *ExpensePaymentStatus
	SearchDescription *string
	ExcludeSalaries bool
}

type ExpenseRepository interface {
	Create(expense *Expense) (*Expense, error)
	GetByID(id int32) (*Expense, error)
	List(filter ExpenseFilter) ([]*Expense, error)
	Update(expense *Expense) (*Expense, error)
	// RecordPaymentAtomic persists a payment and the updated expense status.
	RecordPaymentAtomic(payment *ExpensePayment, updatedExpense *Expense) (*ExpensePayment, error)
	ListPaymentsByExpense(expenseID int32) ([]*ExpensePayment, error)
	SummaryByCategory(dateFrom, dateTo time.Time, excludeSalaries bool) ([]ExpenseSummaryByCategory, error)
	SummaryBySupplier(dateFrom, dateTo time.Time, excludeSalaries bool) ([]ExpenseSummaryBySupplier, error)
	Trend(dateFrom, dateTo time.Time, granularity string, excludeSalaries bool) ([]ExpenseTrendPoint, error)
}

type ExpenseCategoryRepository interface {
	Create(c *ExpenseCategory) (*ExpenseCategory, error)
	GetByID(id int32) (*ExpenseCategory, error)
	List() ([]*ExpenseCategory, error)
}

type SupplierRepository interface {
	Create(s *Supplier) (*Supplier, error)
	GetByID(id int32) (*Supplier, error)
	List() ([]*Supplier, error)
}
