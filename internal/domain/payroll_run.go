package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PayrollRunStatus string

const (
	PayrollStatusDraft    PayrollRunStatus = "draft"
	PayrollStatusConfirmed PayrollRunStatus = "confirmed"
	PayrollStatusPaidOut   PayrollRunStatus = "paid_out"
	PayrollStatusCancelled PayrollRunStatus = "cancelled"
)

// PayrollRun is a periodic payroll draft that, once confirmed, materialises
// per-employee details and payable items.
type PayrollRun struct {
	ID                   int32            `json:"id"`
	Name                 string           `json:"name"`
	PeriodStart          time.Time        `json:"periodStart"`
	PeriodEnd            time.Time        `json:"periodEnd"`
	PayFrequencyCovered  PayFrequency     `json:"payFrequencyCovered"`
	ExchangeRateUSDVES   *decimal.Decimal `json:"exchangeRateUsdVes,omitempty"`
	Status               PayrollRunStatus `json:"status"`
	ConfirmingUserID     *int32           `json:"confirmingUserId,omitempty"`
	ConfirmedAt          *time.Time       `json:"confirmedAt,omitempty"`
	Notes                string           `json:"notes,omitempty"`
	CreatedAt            time.Time        `json:"createdAt"`
	UpdatedAt            time.Time        `json:"updatedAt"`
}

func (r *PayrollRun) Validate() error {
	if r.Name == "" {
		return ErrNameRequired
	}
	if !r.PeriodStart.Before(r.PeriodEnd) {
		return NewBusinessRuleViolation("payroll_run_period_invalid", "period_start must be before period_end")
	}
	switch r.PayFrequencyCovered {
	case PayFrequencyMonthly, PayFrequencyFortnightly, PayFrequencyHourly:
	default:
		return NewBusinessRuleViolation("payroll_run_frequency_invalid", "unrecognised pay_frequency_covered %q", r.PayFrequencyCovered)
	}
	return nil
}

// CanTransitionTo enforces §4.8's forbidden transitions.
func (r *PayrollRun) CanTransitionTo(next PayrollRunStatus) bool {
	switch r.Status {
	case PayrollStatusCancelled:
		return false
	case PayrollStatusPaidOut:
		return next == PayrollStatusCancelled
	case PayrollStatusConfirmed:
		return next == PayrollStatusPaidOut || next == PayrollStatusCancelled
	case PayrollStatusDraft:
		return next == PayrollStatusConfirmed || next == PayrollStatusCancelled
	default:
		return false
	}
}

// ComponentBreakdownEntry is one line of a serialised earnings/deductions
// breakdown attached to a PayrollRunEmployeeDetail.
type ComponentBreakdownEntry struct {
	Name      string          `json:"name"`
	Type      ComponentType   `json:"type"`
	AmountVES decimal.Decimal `json:"amountVes"`
}

// PayrollRunEmployeeDetail is the per-employee result of a confirmed run.
type PayrollRunEmployeeDetail struct {
	ID                 int32                     `json:"id"`
	PayrollRunID       int32                     `json:"payrollRunId"`
	EmployeeID         int32                     `json:"employeeId"`
	BaseSalaryVES      decimal.Decimal           `json:"baseSalaryVes"`
	TotalEarningsVES   decimal.Decimal           `json:"totalEarningsVes"`
	TotalDeductionsVES decimal.Decimal           `json:"totalDeductionsVes"`
	NetAmountToPayVES  decimal.Decimal           `json:"netAmountToPayVes"`
	ComponentBreakdown []ComponentBreakdownEntry `json:"componentBreakdown"`
	HoursProcessed     *decimal.Decimal          `json:"hoursProcessed,omitempty"`
	ProcessingNote     *string                   `json:"processingNote,omitempty"`
}

type ConfirmRunInput struct {
	PayrollRunID     int32
	ConfirmingUserID int32
	HoursByEmployee  map[int32]decimal.Decimal
}

type ConfirmRunResult struct {
	Run            *PayrollRun
	Details        []*PayrollRunEmployeeDetail
	SkippedNotes   map[int32]string
}

type PayrollRunRepository interface {
	Create(run *PayrollRun) (*PayrollRun, error)
	GetByID(id int32) (*PayrollRun, error)
	List() ([]*PayrollRun, error)
	Update(run *PayrollRun) (*PayrollRun, error)
	Delete(id int32) error
	// ConfirmAtomic deletes any prior details for the run, persists the new
	// details, decrements employee accumulated hours, and marks the run
	// confirmed, all in one transaction.
	ConfirmAtomic(run *PayrollRun, details []*PayrollRunEmployeeDetail, hoursDecrement map[int32]decimal.Decimal) (*PayrollRun, []*PayrollRunEmployeeDetail, error)
	ListDetailsByRun(runID int32) ([]*PayrollRunEmployeeDetail, error)
	GetDetailByRunAndEmployee(runID, employeeID int32) (*PayrollRunEmployeeDetail, error)
}
