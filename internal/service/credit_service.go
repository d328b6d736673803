package service

import (
	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/aluvasquez/schoolledger/internal/websocket"
	"github.com/shopspring/decimal"
)

// CreditService is the Credit Reapplication Engine (C6): FIFO application of
// a representative's total unallocated credit to their oldest open debts.
type CreditService struct {
	paymentRepo domain.PaymentRepository
	chargeRepo  domain.AppliedChargeRepository
	events      websocket.EventPublisher
}

func NewCreditService(paymentRepo domain.PaymentRepository, chargeRepo domain.AppliedChargeRepository) *CreditService {
	return &CreditService{paymentRepo: paymentRepo, chargeRepo: chargeRepo, events: &websocket.NoOpPublisher{}}
}

func (s *CreditService) SetEventPublisher(pub websocket.EventPublisher) {
	s.events = pub
}

// CreditApplicationResult is what §4.6 returns: the allocations made and the
// remaining credit after the run.
type CreditApplicationResult struct {
	Allocations     []*domain.PaymentAllocation
	RemainingCredit decimal.Decimal
}

// creditSource tracks a payment's remaining unallocated VES as it is drained.
type creditSource struct {
	payment   *domain.Payment
	remaining decimal.Decimal
}

// ApplyRepresentativeCredit implements §4.6's apply_representative_credit.
func (s *CreditService) ApplyRepresentativeCredit(representativeID int32) (*CreditApplicationResult, error) {
	sourcePayments, err := s.paymentRepo.ListWithPositiveRemainder(representativeID)
	if err != nil {
		return nil, err
	}

	sources := make([]*creditSource, 0, len(sourcePayments))
	totalCredit := decimal.Zero
	for _, p := range sourcePayments {
		allocated, err := s.paymentRepo.SumAllocations(p.ID)
		if err != nil {
			return nil, err
		}
		remaining := domain.ClampNonNegative(domain.Round2(p.AmountPaidVESEquivalent.Sub(allocated)))
		if remaining.GreaterThan(decimal.Zero) {
			sources = append(sources, &creditSource{payment: p, remaining: remaining})
			totalCredit = totalCredit.Add(remaining)
		}
	}

	if !totalCredit.GreaterThan(domain.MoneyTolerance) {
		return &CreditApplicationResult{Allocations: nil, RemainingCredit: decimal.Zero}, nil
	}

	openCharges, err := s.chargeRepo.ListOpenForRepresentativeOrdered(representativeID)
	if err != nil {
		return nil, err
	}

	newAllocations := make([]*domain.PaymentAllocation, 0)
	updatedCharges := make([]*domain.AppliedCharge, 0)

	sourceIdx := 0
	for _, charge := range openCharges {
		balance := domain.ClampNonNegative(charge.TodayValueVES(nil))
		if !balance.GreaterThan(domain.MoneyTolerance) {
			continue
		}
		chargeModified := false

		for balance.GreaterThan(domain.MoneyTolerance) && sourceIdx < len(sources) {
			src := sources[sourceIdx]
			if !src.remaining.GreaterThan(domain.MoneyTolerance) {
				sourceIdx++
				continue
			}
			take := src.remaining
			if take.GreaterThan(balance) {
				take = balance
			}
			take = domain.Round2(take)
			if take.LessThanOrEqual(decimal.Zero) {
				sourceIdx++
				continue
			}

			charge.AmountPaidVES = domain.Round2(charge.AmountPaidVES.Add(take))
			charge.AmountPaidOriginalCurrencyEquivalent = domain.Round2(charge.AmountPaidOriginalCurrencyEquivalent.Add(originalEquivalentForVESCredit(charge, take)))
			charge.Status = charge.DeriveStatusFromPayments()
			chargeModified = true

			newAllocations = append(newAllocations, &domain.PaymentAllocation{
				PaymentID:          src.payment.ID,
				AppliedChargeID:    charge.ID,
				AmountAllocatedVES: take,
			})

			src.remaining = domain.Round2(src.remaining.Sub(take))
			balance = domain.Round2(balance.Sub(take))

			if !src.remaining.GreaterThan(domain.MoneyTolerance) {
				sourceIdx++
			}
		}

		if chargeModified {
			updatedCharges = append(updatedCharges, charge)
		}
		if sourceIdx >= len(sources) {
			break
		}
	}

	if len(newAllocations) > 0 {
		if err := s.paymentRepo.ApplyCreditAtomic(newAllocations, updatedCharges); err != nil {
			return nil, domain.ErrInternalError
		}
		s.events.Publish(websocket.ChannelAdmin, websocket.CreditApplied(newAllocations))
	}

	remaining := decimal.Zero
	for _, src := range sources {
		remaining = remaining.Add(src.remaining)
	}

	return &CreditApplicationResult{
		Allocations:     newAllocations,
		RemainingCredit: domain.Round2(remaining),
	}, nil
}

// originalEquivalentForVESCredit approximates the original-currency credit
// for a VES-sourced allocation: for indexed charges it back-converts at the
// charge's emission rate (credit reapplication has no payment-time rate of
// its own to draw on), for VES charges it is the VES amount itself.
func originalEquivalentForVESCredit(charge *domain.AppliedCharge, amountVES decimal.Decimal) decimal.Decimal {
	if !charge.IsIndexed || charge.ExchangeRateAtEmission == nil {
		return amountVES
	}
	return domain.Round2(amountVES.Div(*charge.ExchangeRateAtEmission))
}
