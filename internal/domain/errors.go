package domain

import (
	"errors"
	"fmt"
)

// Generic errors, mapped by the handler layer onto RFC 7807 problem kinds.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrInternalError = errors.New("internal error")
	ErrConflict      = errors.New("conflict")
	ErrNameRequired  = errors.New("name is required")
)

// Per-entity not-found errors.
var (
	ErrUserNotFound            = errors.New("user not found")
	ErrRepresentativeNotFound  = errors.New("representative not found")
	ErrStudentNotFound         = errors.New("student not found")
	ErrGradeLevelNotFound      = errors.New("grade level not found")
	ErrChargeConceptNotFound   = errors.New("charge concept not found")
	ErrExchangeRateNotFound    = errors.New("exchange rate not found")
	ErrAppliedChargeNotFound   = errors.New("applied charge not found")
	ErrPaymentNotFound         = errors.New("payment not found")
	ErrInvoiceNotFound         = errors.New("invoice not found")
	ErrCreditNoteNotFound      = errors.New("credit note not found")
	ErrConfigurationNotFound   = errors.New("school configuration not found")
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrDepartmentNotFound      = errors.New("department not found")
	ErrPositionNotFound        = errors.New("position not found")
	ErrSalaryComponentNotFound = errors.New("salary component not found")
	ErrPayrollRunNotFound      = errors.New("payroll run not found")
	ErrPayrollRunDetailNotFound      = errors.New("payroll run employee detail not found")
	ErrEmployeePayableItemNotFound   = errors.New("employee payable item not found")
	ErrEmployeePaymentNotFound = errors.New("employee payment not found")
	ErrPayslipNotFound         = errors.New("payslip not found")
	ErrExpenseNotFound         = errors.New("expense not found")
	ErrExpenseCategoryNotFound = errors.New("expense category not found")
	ErrSupplierNotFound        = errors.New("supplier not found")
)

// Domain-specific rule errors that aren't simple not-found/already-exists.
var (
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrNameTooLong          = errors.New("name exceeds maximum length")
	ErrDescriptionTooLong   = errors.New("description exceeds maximum length")
	ErrCurrencyNotSupported = errors.New("currency is not supported")
	ErrStudentNotActive     = errors.New("student is not active")
	ErrEmployeeNotActive    = errors.New("employee is not active")
	ErrInvoiceAlreadyAnnulled = errors.New("invoice is already annulled")
	ErrAppliedChargeAlreadyCancelled = errors.New("applied charge is already cancelled")
	ErrAppliedChargeFullyPaid        = errors.New("applied charge is already fully paid")
	ErrPayrollRunNotDraft            = errors.New("payroll run is not in draft status")
	ErrPayrollRunAlreadyConfirmed    = errors.New("payroll run is already confirmed")
)

// Validation constants.
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 1000
	MaxReferenceLength   = 100
)

// ErrMustPayEarlierMonth is returned when a payroll or billing operation is
// attempted out of sequence relative to an earlier unresolved period.
type ErrMustPayEarlierMonth struct {
	Expected  string
	Requested string
}

func (e ErrMustPayEarlierMonth) Error() string {
	return fmt.Sprintf("must process %s before %s", e.Expected, e.Requested)
}

// ErrRateMissing is returned when a currency conversion is attempted for a
// date with no published exchange rate and the caller requires one.
type ErrRateMissing struct {
	CurrencyCode string
	Date         string
}

func (e ErrRateMissing) Error() string {
	return fmt.Sprintf("no exchange rate published for %s on %s", e.CurrencyCode, e.Date)
}

// ErrBusinessRuleViolation wraps a domain-specific rule violation that isn't
// a plain not-found/validation/conflict case, carrying a machine-checkable
// Code alongside a human message.
type ErrBusinessRuleViolation struct {
	Code    string
	Message string
}

func (e ErrBusinessRuleViolation) Error() string {
	return e.Message
}

// NewBusinessRuleViolation builds an ErrBusinessRuleViolation with the given
// code and formatted message.
func NewBusinessRuleViolation(code, format string, args ...interface{}) error {
	return ErrBusinessRuleViolation{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ErrInsufficientCredit is returned when a credit reapplication or refund
// is attempted for more than the representative's available credit balance.
type ErrInsufficientCredit struct {
	Available string
	Requested string
}

func (e ErrInsufficientCredit) Error() string {
	return fmt.Sprintf("insufficient credit: available %s, requested %s", e.Available, e.Requested)
}

// ErrInvalidStatusTransition is returned when an entity's status machine
// rejects a requested transition.
type ErrInvalidStatusTransition struct {
	Entity string
	From   string
	To     string
}

func (e ErrInvalidStatusTransition) Error() string {
	return fmt.Sprintf("%s cannot transition from %s to %s", e.Entity, e.From, e.To)
}
