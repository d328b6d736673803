package service

import (
	"testing"
	"time"

	"github.com/aluvasquez/schoolledger/internal/clock"
	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/aluvasquez/schoolledger/internal/testutil"
	"github.com/shopspring/decimal"
)

func newReportingServiceFixture(t *testing.T, fixedNow time.Time) (*ReportingService, *testutil.MockAppliedChargeRepository, *testutil.MockRepresentativeRepository, *testutil.MockPaymentRepository) {
	t.Helper()
	chargeRepo := testutil.NewMockAppliedChargeRepository()
	paymentRepo := testutil.NewMockPaymentRepository()
	repRepo := testutil.NewMockRepresentativeRepository()
	categoryRepo := testutil.NewMockExpenseCategoryRepository()
	expenseRepo := testutil.NewMockExpenseRepository(categoryRepo)
	svc := NewReportingService(chargeRepo, paymentRepo, repRepo, expenseRepo, clock.Fixed{At: fixedNow})
	return svc, chargeRepo, repRepo, paymentRepo
}

func TestReportingService_ClassifyDelinquency(t *testing.T) {
	fixedNow := time.Date(2026, 5, 15, 12, 0, 0, 0, time.UTC)
	svc, _, _, _ := newReportingServiceFixture(t, fixedNow)

	green := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	orange := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	red := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	if got := svc.ClassifyDelinquency(&green); got != DelinquencyGreen {
		t.Errorf("expected green, got %s", got)
	}
	if got := svc.ClassifyDelinquency(&orange); got != DelinquencyOrange {
		t.Errorf("expected orange, got %s", got)
	}
	if got := svc.ClassifyDelinquency(&red); got != DelinquencyRed {
		t.Errorf("expected red, got %s", got)
	}
	if got := svc.ClassifyDelinquency(nil); got != DelinquencyGreen {
		t.Errorf("expected green for a representative with no open charges, got %s", got)
	}
}

func TestReportingService_DelinquencyReport_ClassifiesOutstandingDebt(t *testing.T) {
	fixedNow := time.Date(2026, 5, 15, 12, 0, 0, 0, time.UTC)
	svc, chargeRepo, repRepo, _ := newReportingServiceFixture(t, fixedNow)

	withDebt, _ := repRepo.Create(&domain.Representative{FirstName: "A", LastName: "B", IdentificationType: "V", IdentificationNumber: "1", Email: "a@b.com"})

	chargeRepo.Create(&domain.AppliedCharge{
		StudentID:                 1,
		AmountDueOriginalCurrency: decimal.NewFromFloat(100),
		AmountDueVESAtEmission:    decimal.NewFromFloat(100),
		IssueDate:                 time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		DueDate:                   time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		Status:                    domain.ChargeStatusPending,
	})

	report, err := svc.DelinquencyReport()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(report) != 1 {
		t.Fatalf("expected exactly one representative in the report, got %d", len(report))
	}
	if report[0].RepresentativeID != withDebt.ID {
		t.Errorf("expected the report to cover the representative with open debt (%d), got %d", withDebt.ID, report[0].RepresentativeID)
	}
	if report[0].Class != DelinquencyRed {
		t.Errorf("expected a charge three months overdue to be red, got %s", report[0].Class)
	}
}
