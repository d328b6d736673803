package service

import (
	"testing"
	"time"

	"github.com/aluvasquez/schoolledger/internal/clock"
	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/aluvasquez/schoolledger/internal/testutil"
	"github.com/shopspring/decimal"
)

func newAppliedChargeServiceFixture(t *testing.T) (*AppliedChargeService, *testutil.MockStudentRepository, *testutil.MockChargeConceptRepository, *testutil.MockExchangeRateRepository) {
	t.Helper()
	studentRepo := testutil.NewMockStudentRepository()
	conceptRepo := testutil.NewMockChargeConceptRepository()
	rateRepo := testutil.NewMockExchangeRateRepository()
	chargeRepo := testutil.NewMockAppliedChargeRepository()
	currency := NewCurrencyService(rateRepo, clock.Real{})
	svc := NewAppliedChargeService(chargeRepo, studentRepo, conceptRepo, currency, clock.Real{})
	return svc, studentRepo, conceptRepo, rateRepo
}

func TestAppliedChargeService_IssueCharge_VESConcept(t *testing.T) {
	svc, studentRepo, conceptRepo, _ := newAppliedChargeServiceFixture(t)

	student, err := studentRepo.Create(&domain.Student{
		FirstName: "Ana", LastName: "Perez", GradeLevelID: 1, RepresentativeID: 1, IsActive: true,
	})
	if err != nil {
		t.Fatalf("unexpected error creating student: %v", err)
	}
	concept, err := conceptRepo.Create(&domain.ChargeConcept{
		Name: "Tuition", DefaultAmount: decimal.NewFromFloat(1000), DefaultAmountCurrency: domain.VES,
		DefaultFrequency: domain.FrequencyMonthly, IsActive: true,
	})
	if err != nil {
		t.Fatalf("unexpected error creating concept: %v", err)
	}

	issue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	due := issue.AddDate(0, 0, 10)

	charge, err := svc.IssueCharge(student.ID, concept.ID, "March tuition", issue, due)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if charge.Status != domain.ChargeStatusPending {
		t.Errorf("expected pending status, got %s", charge.Status)
	}
	if !charge.AmountDueVESAtEmission.Equal(decimal.NewFromFloat(1000)) {
		t.Errorf("expected amount due of 1000 VES, got %s", charge.AmountDueVESAtEmission.String())
	}
	if charge.IsIndexed {
		t.Error("expected a VES-denominated concept to not be indexed")
	}
}

func TestAppliedChargeService_IssueCharge_IndexedConceptAppliesScholarship(t *testing.T) {
	svc, studentRepo, conceptRepo, rateRepo := newAppliedChargeServiceFixture(t)

	student, _ := studentRepo.Create(&domain.Student{
		FirstName: "Luis", LastName: "Gomez", GradeLevelID: 1, RepresentativeID: 1, IsActive: true,
		HasScholarship: true, ScholarshipPercentage: decimal.NewFromFloat(50),
	})
	concept, _ := conceptRepo.Create(&domain.ChargeConcept{
		Name: "Tuition USD", DefaultAmount: decimal.NewFromFloat(100), DefaultAmountCurrency: domain.USD,
		DefaultFrequency: domain.FrequencyMonthly, IsActive: true,
	})

	issue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	due := issue.AddDate(0, 0, 10)
	rateRepo.Create(&domain.ExchangeRate{FromCurrency: domain.USD, ToCurrency: domain.VES, RateDate: issue, Rate: decimal.NewFromFloat(40)})

	charge, err := svc.IssueCharge(student.ID, concept.ID, "", issue, due)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !charge.IsIndexed {
		t.Error("expected a USD-denominated concept to be indexed")
	}
	// 100 USD * 40 = 4000 VES, 50% scholarship -> 2000 VES due, i.e. 50 USD equivalent.
	if !charge.AmountDueVESAtEmission.Equal(decimal.NewFromFloat(2000)) {
		t.Errorf("expected 2000 VES due after scholarship, got %s", charge.AmountDueVESAtEmission.String())
	}
	if !charge.AmountDueOriginalCurrency.Equal(decimal.NewFromFloat(50)) {
		t.Errorf("expected 50 USD due after scholarship, got %s", charge.AmountDueOriginalCurrency.String())
	}
}

func TestAppliedChargeService_IssueCharge_InactiveStudentRejected(t *testing.T) {
	svc, studentRepo, conceptRepo, _ := newAppliedChargeServiceFixture(t)
	student, _ := studentRepo.Create(&domain.Student{FirstName: "A", LastName: "B", GradeLevelID: 1, RepresentativeID: 1, IsActive: false})
	concept, _ := conceptRepo.Create(&domain.ChargeConcept{
		Name: "Fee", DefaultAmount: decimal.NewFromFloat(10), DefaultAmountCurrency: domain.VES,
		DefaultFrequency: domain.FrequencyOneShot, IsActive: true,
	})

	issue := time.Now()
	if _, err := svc.IssueCharge(student.ID, concept.ID, "", issue, issue); err != domain.ErrStudentNotActive {
		t.Errorf("expected ErrStudentNotActive, got %v", err)
	}
}

func TestAppliedChargeService_CancelCharge(t *testing.T) {
	svc, studentRepo, conceptRepo, _ := newAppliedChargeServiceFixture(t)
	student, _ := studentRepo.Create(&domain.Student{FirstName: "A", LastName: "B", GradeLevelID: 1, RepresentativeID: 1, IsActive: true})
	concept, _ := conceptRepo.Create(&domain.ChargeConcept{
		Name: "Fee", DefaultAmount: decimal.NewFromFloat(10), DefaultAmountCurrency: domain.VES,
		DefaultFrequency: domain.FrequencyOneShot, IsActive: true,
	})
	issue := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	charge, err := svc.IssueCharge(student.ID, concept.ID, "", issue, issue)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cancelled, err := svc.CancelCharge(charge.ID)
	if err != nil {
		t.Fatalf("expected no error cancelling a pending charge, got %v", err)
	}
	if cancelled.Status != domain.ChargeStatusCancelled {
		t.Errorf("expected cancelled status, got %s", cancelled.Status)
	}

	if _, err := svc.CancelCharge(charge.ID); err != domain.ErrAppliedChargeAlreadyCancelled {
		t.Errorf("expected ErrAppliedChargeAlreadyCancelled on double-cancel, got %v", err)
	}
}
