package service

import (
	"testing"
	"time"

	"github.com/aluvasquez/schoolledger/internal/clock"
	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/aluvasquez/schoolledger/internal/testutil"
	"github.com/shopspring/decimal"
)

func TestPaymentService_RecordPayment_FullyPaysCharge(t *testing.T) {
	paymentRepo := testutil.NewMockPaymentRepository()
	chargeRepo := testutil.NewMockAppliedChargeRepository()
	studentRepo := testutil.NewMockStudentRepository()
	rateRepo := testutil.NewMockExchangeRateRepository()
	currency := NewCurrencyService(rateRepo, clock.Real{})
	svc := NewPaymentService(paymentRepo, chargeRepo, studentRepo, currency, clock.Real{})

	rep := int32(7)
	student, _ := studentRepo.Create(&domain.Student{FirstName: "A", LastName: "B", GradeLevelID: 1, RepresentativeID: rep, IsActive: true})
	charge, _ := chargeRepo.Create(&domain.AppliedCharge{
		StudentID:                 student.ID,
		AmountDueOriginalCurrency: decimal.NewFromFloat(500),
		AmountDueVESAtEmission:    decimal.NewFromFloat(500),
		IssueDate:                 time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		DueDate:                   time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:                    domain.ChargeStatusPending,
	})

	result, err := svc.RecordPayment(domain.RecordPaymentInput{
		RepresentativeID: rep,
		PaymentDate:      time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		Amount:           decimal.NewFromFloat(500),
		Currency:         domain.VES,
		Method:           "cash",
		Allocations: []domain.AllocationRequest{
			{AppliedChargeID: charge.ID, AmountToAllocate: decimal.NewFromFloat(500)},
		},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.UnallocatedRemainder.IsZero() {
		t.Errorf("expected no remainder, got %s", result.UnallocatedRemainder.String())
	}
	if len(result.UpdatedCharges) != 1 || result.UpdatedCharges[0].Status != domain.ChargeStatusPaid {
		t.Fatalf("expected the charge to be fully paid, got %+v", result.UpdatedCharges)
	}
}

func TestPaymentService_RecordPayment_PartialPaymentLeavesBalance(t *testing.T) {
	paymentRepo := testutil.NewMockPaymentRepository()
	chargeRepo := testutil.NewMockAppliedChargeRepository()
	studentRepo := testutil.NewMockStudentRepository()
	rateRepo := testutil.NewMockExchangeRateRepository()
	currency := NewCurrencyService(rateRepo, clock.Real{})
	svc := NewPaymentService(paymentRepo, chargeRepo, studentRepo, currency, clock.Real{})

	rep := int32(1)
	student, _ := studentRepo.Create(&domain.Student{FirstName: "A", LastName: "B", GradeLevelID: 1, RepresentativeID: rep, IsActive: true})
	charge, _ := chargeRepo.Create(&domain.AppliedCharge{
		StudentID:                 student.ID,
		AmountDueOriginalCurrency: decimal.NewFromFloat(500),
		AmountDueVESAtEmission:    decimal.NewFromFloat(500),
		IssueDate:                 time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		DueDate:                   time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:                    domain.ChargeStatusPending,
	})

	result, err := svc.RecordPayment(domain.RecordPaymentInput{
		RepresentativeID: rep,
		PaymentDate:      time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		Amount:           decimal.NewFromFloat(200),
		Currency:         domain.VES,
		Method:           "cash",
		Allocations: []domain.AllocationRequest{
			{AppliedChargeID: charge.ID, AmountToAllocate: decimal.NewFromFloat(200)},
		},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.UpdatedCharges[0].Status != domain.ChargeStatusPartiallyPaid {
		t.Errorf("expected partially_paid, got %s", result.UpdatedCharges[0].Status)
	}
}

func TestPaymentService_RecordPayment_RejectsAllocationExceedingBalance(t *testing.T) {
	paymentRepo := testutil.NewMockPaymentRepository()
	chargeRepo := testutil.NewMockAppliedChargeRepository()
	studentRepo := testutil.NewMockStudentRepository()
	rateRepo := testutil.NewMockExchangeRateRepository()
	currency := NewCurrencyService(rateRepo, clock.Real{})
	svc := NewPaymentService(paymentRepo, chargeRepo, studentRepo, currency, clock.Real{})

	rep := int32(1)
	student, _ := studentRepo.Create(&domain.Student{FirstName: "A", LastName: "B", GradeLevelID: 1, RepresentativeID: rep, IsActive: true})
	charge, _ := chargeRepo.Create(&domain.AppliedCharge{
		StudentID:                 student.ID,
		AmountDueOriginalCurrency: decimal.NewFromFloat(100),
		AmountDueVESAtEmission:    decimal.NewFromFloat(100),
		IssueDate:                 time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		DueDate:                   time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:                    domain.ChargeStatusPending,
	})

	_, err := svc.RecordPayment(domain.RecordPaymentInput{
		RepresentativeID: rep,
		PaymentDate:      time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		Amount:           decimal.NewFromFloat(500),
		Currency:         domain.VES,
		Method:           "cash",
		Allocations: []domain.AllocationRequest{
			{AppliedChargeID: charge.ID, AmountToAllocate: decimal.NewFromFloat(500)},
		},
	})
	if err == nil {
		t.Fatal("expected an error when an allocation exceeds the charge's outstanding balance")
	}
}
