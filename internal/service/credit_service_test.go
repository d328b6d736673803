package service

import (
	"testing"
	"time"

	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/aluvasquez/schoolledger/internal/testutil"
	"github.com/shopspring/decimal"
)

func TestCreditService_ApplyRepresentativeCredit_AppliesFIFOToOldestCharge(t *testing.T) {
	paymentRepo := testutil.NewMockPaymentRepository()
	chargeRepo := testutil.NewMockAppliedChargeRepository()
	svc := NewCreditService(paymentRepo, chargeRepo)

	rep := int32(3)
	payment := &domain.Payment{
		RepresentativeID:        rep,
		PaymentDate:             time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		AmountPaid:              decimal.NewFromFloat(300),
		CurrencyPaid:            domain.VES,
		AmountPaidVESEquivalent: decimal.NewFromFloat(300),
		Method:                  "cash",
	}
	payment, _, err := paymentRepo.RecordPaymentAtomic(payment, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error seeding payment: %v", err)
	}

	older, _ := chargeRepo.Create(&domain.AppliedCharge{
		StudentID:                 1,
		AmountDueOriginalCurrency: decimal.NewFromFloat(200),
		AmountDueVESAtEmission:    decimal.NewFromFloat(200),
		IssueDate:                 time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		DueDate:                   time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		Status:                    domain.ChargeStatusPending,
	})
	newer, _ := chargeRepo.Create(&domain.AppliedCharge{
		StudentID:                 1,
		AmountDueOriginalCurrency: decimal.NewFromFloat(200),
		AmountDueVESAtEmission:    decimal.NewFromFloat(200),
		IssueDate:                 time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		DueDate:                   time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC),
		Status:                    domain.ChargeStatusPending,
	})

	result, err := svc.ApplyRepresentativeCredit(rep)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result.Allocations) != 2 {
		t.Fatalf("expected two allocations (older charge in full, then the newer charge with the rest), got %d", len(result.Allocations))
	}
	if result.Allocations[0].AppliedChargeID != older.ID {
		t.Errorf("expected credit to apply to the older (earlier-due) charge %d first, got %d", older.ID, result.Allocations[0].AppliedChargeID)
	}
	if !result.Allocations[0].AmountAllocatedVES.Equal(decimal.NewFromFloat(200)) {
		t.Errorf("expected the full 200 VES to allocate to the older charge, got %s", result.Allocations[0].AmountAllocatedVES.String())
	}
	if result.Allocations[1].AppliedChargeID != newer.ID {
		t.Errorf("expected the leftover credit to apply to the newer charge %d, got %d", newer.ID, result.Allocations[1].AppliedChargeID)
	}
	if !result.Allocations[1].AmountAllocatedVES.Equal(decimal.NewFromFloat(100)) {
		t.Errorf("expected the leftover 100 VES to allocate to the newer charge, got %s", result.Allocations[1].AmountAllocatedVES.String())
	}
	if !result.RemainingCredit.Equal(decimal.Zero) {
		t.Errorf("expected no remaining credit once the leftover 100 VES moves to the newer charge, got %s", result.RemainingCredit.String())
	}

	refetchedNewer, err := chargeRepo.GetByID(newer.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refetchedNewer.Status != domain.ChargeStatusPartiallyPaid {
		t.Errorf("expected the newer charge to be partially paid by the leftover 100 VES, got status %s", refetchedNewer.Status)
	}
}

func TestCreditService_ApplyRepresentativeCredit_NoCreditIsNoOp(t *testing.T) {
	paymentRepo := testutil.NewMockPaymentRepository()
	chargeRepo := testutil.NewMockAppliedChargeRepository()
	svc := NewCreditService(paymentRepo, chargeRepo)

	result, err := svc.ApplyRepresentativeCredit(42)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result.Allocations) != 0 {
		t.Errorf("expected no allocations when the representative has no unallocated credit, got %d", len(result.Allocations))
	}
}
