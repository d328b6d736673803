package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is a free-form tag on how a payment was received; the
// catalogue is open (cash, transfer, card, zelle, ...), so it is modelled as
// a plain string rather than a closed enum.
type PaymentMethod string

// Payment is a representative-level receipt. Once created its amount is
// never edited; only its allocations change (via C6 credit reapplication).
type Payment struct {
	ID                      int32           `json:"id"`
	RepresentativeID        int32           `json:"representativeId"`
	PaymentDate             time.Time       `json:"paymentDate"`
	AmountPaid              decimal.Decimal `json:"amountPaid"`
	CurrencyPaid            Currency        `json:"currencyPaid"`
	ExchangeRateApplied     *decimal.Decimal `json:"exchangeRateApplied,omitempty"`
	AmountPaidVESEquivalent decimal.Decimal `json:"amountPaidVesEquivalent"`
	Method                  PaymentMethod   `json:"method"`
	Reference               *string         `json:"reference,omitempty"`
	Notes                   *string         `json:"notes,omitempty"`
	CreatedAt               time.Time       `json:"createdAt"`
}

func (p *Payment) Validate() error {
	if p.RepresentativeID <= 0 {
		return NewBusinessRuleViolation("payment_representative_required", "representative is required")
	}
	if !p.CurrencyPaid.IsValid() {
		return ErrCurrencyNotSupported
	}
	if p.AmountPaid.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if p.Method == "" {
		return NewBusinessRuleViolation("payment_method_required", "method is required")
	}
	return nil
}

// PaymentAllocation links a fraction of a payment's VES equivalent to a
// specific applied charge.
type PaymentAllocation struct {
	ID                   int32           `json:"id"`
	PaymentID            int32           `json:"paymentId"`
	AppliedChargeID       int32           `json:"appliedChargeId"`
	AmountAllocatedVES    decimal.Decimal `json:"amountAllocatedVes"`
	CreatedAt            time.Time       `json:"createdAt"`
}

// AllocationRequest is caller input: an amount to allocate expressed in the
// payment's own currency (converted to VES before persistence).
type AllocationRequest struct {
	AppliedChargeID int32
	AmountToAllocate decimal.Decimal
}

// RecordPaymentInput is the parameter object for C4's record_payment.
type RecordPaymentInput struct {
	RepresentativeID int32
	PaymentDate      time.Time
	Amount           decimal.Decimal
	Currency         Currency
	Allocations      []AllocationRequest
	Method           PaymentMethod
	Reference        *string
	Notes            *string
}

// RecordPaymentResult is what C4 returns after a successful commit.
type RecordPaymentResult struct {
	Payment            *Payment
	Allocations        []*PaymentAllocation
	UnallocatedRemainder decimal.Decimal
	UpdatedCharges      []*AppliedCharge
}

type PaymentFilter struct {
	RepresentativeID *int32
	DateFrom         *time.Time
	DateTo           *time.Time
}

type PaymentRepository interface {
	GetByID(id int32) (*Payment, error)
	List(filter PaymentFilter) ([]*Payment, error)
	ListByRepresentative(representativeID int32) ([]*Payment, error)
	// ListWithPositiveRemainder returns payments for the representative whose
	// amount_ves_equivalent exceeds the sum of their allocations, ordered by
	// (payment_date asc, created_at asc) — the FIFO credit-source ordering.
	ListWithPositiveRemainder(representativeID int32) ([]*Payment, error)
	GetAllocationsByPayment(paymentID int32) ([]*PaymentAllocation, error)
	GetAllocationsByCharge(chargeID int32) ([]*PaymentAllocation, error)
	// SumAllocations returns the total VES allocated out of a payment so far.
	SumAllocations(paymentID int32) (decimal.Decimal, error)
	// RecordPaymentAtomic persists the payment, its allocations, and the
	// updated applied charges within a single transaction.
	RecordPaymentAtomic(payment *Payment, allocations []*PaymentAllocation, updatedCharges []*AppliedCharge) (*Payment, []*PaymentAllocation, error)
	// ApplyCreditAtomic persists newly created allocations drawn from
	// existing payments' unallocated remainders, plus the charges they paid
	// down, within a single transaction.
	ApplyCreditAtomic(allocations []*PaymentAllocation, updatedCharges []*AppliedCharge) error
}
