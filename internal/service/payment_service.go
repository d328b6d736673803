package service

import (
	"time"

	"github.com/aluvasquez/schoolledger/internal/clock"
	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/aluvasquez/schoolledger/internal/websocket"
	"github.com/shopspring/decimal"
)

// PaymentService is the Payment & Allocation Engine (C4): records a
// representative payment and splits its VES equivalent across selected
// applied charges.
type PaymentService struct {
	paymentRepo domain.PaymentRepository
	chargeRepo  domain.AppliedChargeRepository
	studentRepo domain.StudentRepository
	currency    *CurrencyService
	clock       clock.Clock
	events      websocket.EventPublisher
}

func NewPaymentService(
	paymentRepo domain.PaymentRepository,
	chargeRepo domain.AppliedChargeRepository,
	studentRepo domain.StudentRepository,
	currency *CurrencyService,
	clk clock.Clock,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		chargeRepo:  chargeRepo,
		studentRepo: studentRepo,
		currency:    currency,
		clock:       clk,
		events:      &websocket.NoOpPublisher{},
	}
}

func (s *PaymentService) SetEventPublisher(pub websocket.EventPublisher) {
	s.events = pub
}

// RecordPayment implements the §4.4 record_payment contract.
func (s *PaymentService) RecordPayment(input domain.RecordPaymentInput) (*domain.RecordPaymentResult, error) {
	payment := &domain.Payment{
		RepresentativeID: input.RepresentativeID,
		PaymentDate:      input.PaymentDate,
		AmountPaid:       input.Amount,
		CurrencyPaid:     input.Currency,
		Method:           input.Method,
		Reference:        input.Reference,
		Notes:            input.Notes,
	}
	if err := payment.Validate(); err != nil {
		return nil, err
	}

	amountVES, rateApplied, err := s.currency.ConvertToVES(input.Amount, input.Currency, input.PaymentDate)
	if err != nil {
		return nil, err
	}
	payment.AmountPaidVESEquivalent = amountVES
	payment.ExchangeRateApplied = rateApplied

	today := s.clock.LocalToday(clock.Caracas)

	allocations := make([]*domain.PaymentAllocation, 0, len(input.Allocations))
	updatedCharges := make([]*domain.AppliedCharge, 0, len(input.Allocations))
	totalAllocatedVES := decimal.Zero

	for _, req := range input.Allocations {
		charge, err := s.chargeRepo.GetByID(req.AppliedChargeID)
		if err != nil {
			return nil, err
		}
		student, err := s.studentRepo.GetByID(charge.StudentID)
		if err != nil {
			return nil, err
		}
		if student.RepresentativeID != input.RepresentativeID {
			return nil, domain.NewBusinessRuleViolation("allocation_wrong_representative", "applied charge %d does not belong to a student of this representative", charge.ID)
		}
		if charge.Status == domain.ChargeStatusPaid || charge.Status == domain.ChargeStatusCancelled {
			return nil, domain.NewBusinessRuleViolation("allocation_charge_closed", "applied charge %d is already paid or cancelled", charge.ID)
		}

		var allocationVES decimal.Decimal
		if input.Currency == domain.VES {
			allocationVES = req.AmountToAllocate
		} else {
			allocationVES, _, err = s.currency.ConvertToVES(req.AmountToAllocate, input.Currency, input.PaymentDate)
			if err != nil {
				return nil, err
			}
		}

		balanceVES, err := s.currentBalanceVES(charge, today)
		if err != nil {
			return nil, err
		}
		if !domain.ApproxLTE(allocationVES, balanceVES) {
			return nil, domain.NewBusinessRuleViolation("allocation_exceeds_balance", "allocation to charge %d exceeds its outstanding balance", charge.ID)
		}

		creditOriginal, err := s.originalCurrencyCredit(charge, input.Currency, req.AmountToAllocate, allocationVES, input.PaymentDate)
		if err != nil {
			return nil, err
		}

		charge.AmountPaidVES = domain.Round2(charge.AmountPaidVES.Add(allocationVES))
		charge.AmountPaidOriginalCurrencyEquivalent = domain.Round2(charge.AmountPaidOriginalCurrencyEquivalent.Add(creditOriginal))
		charge.Status = charge.DeriveStatusFromPayments()

		updatedCharges = append(updatedCharges, charge)
		allocations = append(allocations, &domain.PaymentAllocation{
			AppliedChargeID:    charge.ID,
			AmountAllocatedVES: allocationVES,
		})
		totalAllocatedVES = totalAllocatedVES.Add(allocationVES)
	}

	if !domain.ApproxLTE(totalAllocatedVES, amountVES) {
		return nil, domain.NewBusinessRuleViolation("allocation_exceeds_payment", "total allocations exceed the payment's VES equivalent")
	}
	remainder := domain.ClampNonNegative(domain.Round2(amountVES.Sub(totalAllocatedVES)))

	createdPayment, createdAllocations, err := s.paymentRepo.RecordPaymentAtomic(payment, allocations, updatedCharges)
	if err != nil {
		return nil, domain.ErrInternalError
	}

	s.events.Publish(websocket.ChannelAdmin, websocket.PaymentRecorded(createdPayment))

	return &domain.RecordPaymentResult{
		Payment:              createdPayment,
		Allocations:          createdAllocations,
		UnallocatedRemainder: remainder,
		UpdatedCharges:       updatedCharges,
	}, nil
}

// originalCurrencyCredit resolves the amount to credit toward a charge's
// original-currency balance for an allocation priced in the payment's
// currency, per §4.4 step 4.
func (s *PaymentService) originalCurrencyCredit(charge *domain.AppliedCharge, paymentCurrency domain.Currency, amountInPaymentCurrency, allocationVES decimal.Decimal, paymentDate time.Time) (decimal.Decimal, error) {
	if !charge.IsIndexed {
		return allocationVES, nil
	}
	if paymentCurrency == charge.OriginalConceptCurrency {
		return amountInPaymentCurrency, nil
	}
	return s.currency.ConvertFromVES(allocationVES, charge.OriginalConceptCurrency, paymentDate)
}

// currentBalanceVES computes a charge's live outstanding VES balance,
// consulting today's rate for indexed charges per §4.3.
func (s *PaymentService) currentBalanceVES(charge *domain.AppliedCharge, today time.Time) (decimal.Decimal, error) {
	if !charge.IsIndexed {
		return charge.TodayValueVES(nil), nil
	}
	rate, err := s.currency.LatestRate(charge.OriginalConceptCurrency, domain.VES, today)
	if err != nil {
		return decimal.Zero, err
	}
	if rate == nil {
		return charge.TodayValueVES(nil), nil
	}
	return charge.TodayValueVES(&rate.Rate), nil
}
