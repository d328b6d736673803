package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppliedChargeStatus is the lifecycle state of an AppliedCharge.
type AppliedChargeStatus string

const (
	ChargeStatusPending        AppliedChargeStatus = "pending"
	ChargeStatusPartiallyPaid  AppliedChargeStatus = "partially_paid"
	ChargeStatusPaid           AppliedChargeStatus = "paid"
	ChargeStatusOverdue        AppliedChargeStatus = "overdue"
	ChargeStatusCancelled      AppliedChargeStatus = "cancelled"
)

// AppliedCharge is the central ledger row: a dated obligation issued against
// a student for a concept.
type AppliedCharge struct {
	ID          int32  `json:"id"`
	StudentID   int32  `json:"studentId"`
	ConceptID   int32  `json:"conceptId"`
	InvoiceID   *int32 `json:"invoiceId,omitempty"`
	Description string `json:"description,omitempty"`

	// Snapshot at issuance.
	OriginalConceptAmount   decimal.Decimal `json:"originalConceptAmount"`
	OriginalConceptCurrency Currency        `json:"originalConceptCurrency"`
	IsIndexed               bool            `json:"isIndexed"`
	ExchangeRateAtEmission  *decimal.Decimal `json:"exchangeRateAppliedAtEmission,omitempty"`

	// Obligation.
	AmountDueOriginalCurrency decimal.Decimal `json:"amountDueOriginalCurrency"`
	AmountDueVESAtEmission    decimal.Decimal `json:"amountDueVesAtEmission"`

	// Fulfilment.
	AmountPaidOriginalCurrencyEquivalent decimal.Decimal `json:"amountPaidOriginalCurrencyEquivalent"`
	AmountPaidVES                        decimal.Decimal `json:"amountPaidVes"`

	IssueDate time.Time           `json:"issueDate"`
	DueDate   time.Time           `json:"dueDate"`
	Status    AppliedChargeStatus `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *AppliedCharge) Validate() error {
	if a.StudentID <= 0 {
		return NewBusinessRuleViolation("applied_charge_student_required", "student is required")
	}
	if a.ConceptID <= 0 {
		return NewBusinessRuleViolation("applied_charge_concept_required", "concept is required")
	}
	if a.DueDate.Before(a.IssueDate) {
		return NewBusinessRuleViolation("applied_charge_due_before_issue", "due_date must be on or after issue_date")
	}
	return nil
}

// IsTerminal reports whether the charge is in a state where only description
// (and, for non-cancelled terminal states, cancellation) may still change.
func (a *AppliedCharge) IsTerminal() bool {
	return a.Status == ChargeStatusPaid || a.Status == ChargeStatusCancelled
}

// IsOpen reports whether the charge still carries an outstanding balance
// eligible for payment allocation or credit reapplication.
func (a *AppliedCharge) IsOpen() bool {
	switch a.Status {
	case ChargeStatusPending, ChargeStatusPartiallyPaid, ChargeStatusOverdue:
		return true
	default:
		return false
	}
}

// EffectiveStatus derives the read-time status, materialising the "overdue"
// label when an open charge's due_date has passed. Persisted status never
// stores "overdue" directly except as set by a prior read-triggered update;
// callers that need the live label should prefer this over the stored field.
func (a *AppliedCharge) EffectiveStatus(today time.Time) AppliedChargeStatus {
	if a.Status == ChargeStatusPending && a.DueDate.Before(today) {
		return ChargeStatusOverdue
	}
	if a.Status == ChargeStatusPartiallyPaid && a.DueDate.Before(today) {
		return ChargeStatusOverdue
	}
	return a.Status
}

// DeriveStatusFromPayments recomputes status from the paid/due amounts per
// the §4.4 rule: paid when fully paid in original currency (within
// tolerance), partially_paid when any positive amount has been paid, else
// pending (overdue is a derived read-time label, not stored here).
func (a *AppliedCharge) DeriveStatusFromPayments() AppliedChargeStatus {
	if a.Status == ChargeStatusCancelled {
		return ChargeStatusCancelled
	}
	if ApproxGTE(a.AmountPaidOriginalCurrencyEquivalent, a.AmountDueOriginalCurrency) {
		return ChargeStatusPaid
	}
	if a.AmountPaidOriginalCurrencyEquivalent.GreaterThan(decimal.Zero) {
		return ChargeStatusPartiallyPaid
	}
	return ChargeStatusPending
}

// TodayValueVES returns the outstanding debt in VES as of today: for indexed
// charges the pending original-currency balance re-converted at today's
// rate; for VES charges the emission-time VES value net of payments.
func (a *AppliedCharge) TodayValueVES(latestRate *decimal.Decimal) decimal.Decimal {
	if !a.IsIndexed {
		return ClampNonNegative(Round2(a.AmountDueVESAtEmission.Sub(a.AmountPaidVES)))
	}
	pendingOriginal := a.AmountDueOriginalCurrency.Sub(a.AmountPaidOriginalCurrencyEquivalent)
	pendingOriginal = ClampNonNegative(pendingOriginal)
	if latestRate == nil {
		return ClampNonNegative(Round2(a.AmountDueVESAtEmission.Sub(a.AmountPaidVES)))
	}
	return Round2(pendingOriginal.Mul(*latestRate))
}

type AppliedChargeFilter struct {
	StudentID         *int32
	RepresentativeID  *int32
	ConceptID         *int32
	Status            *AppliedChargeStatus
	OpenOnly          bool
	IssueDateFrom     *time.Time
	IssueDateTo       *time.Time
	InvoiceID         *int32
}

type AppliedChargeRepository interface {
	Create(charge *AppliedCharge) (*AppliedCharge, error)
	GetByID(id int32) (*AppliedCharge, error)
	List(filter AppliedChargeFilter) ([]*AppliedCharge, error)
	// ListOpenForRepresentativeOrdered returns open charges for the
	// representative's students ordered by (due_date asc, issue_date asc),
	// the ordering the FIFO credit engine relies on.
	ListOpenForRepresentativeOrdered(representativeID int32) ([]*AppliedCharge, error)
	// ExistsForStudentConceptInRange reports whether a non-cancelled charge
	// for (student, concept) already has issue_date within [from, to].
	ExistsForStudentConceptInRange(studentID, conceptID int32, from, to time.Time) (bool, error)
	Update(charge *AppliedCharge) (*AppliedCharge, error)
	// UpdatePaymentFields atomically persists the payment-derived fields and
	// status for a batch of charges, used by the payment/credit engines.
	UpdatePaymentFields(charges []*AppliedCharge) error
	ClearInvoiceLink(invoiceID int32) error
}
