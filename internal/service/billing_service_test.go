package service

import (
	"testing"
	"time"

	"github.com/aluvasquez/schoolledger/internal/clock"
	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/aluvasquez/schoolledger/internal/testutil"
	"github.com/shopspring/decimal"
)

func newBillingServiceFixture(t *testing.T) (*BillingService, *testutil.MockStudentRepository, *testutil.MockChargeConceptRepository, *testutil.MockAppliedChargeRepository) {
	t.Helper()
	studentRepo := testutil.NewMockStudentRepository()
	conceptRepo := testutil.NewMockChargeConceptRepository()
	rateRepo := testutil.NewMockExchangeRateRepository()
	chargeRepo := testutil.NewMockAppliedChargeRepository()
	configRepo := testutil.NewMockSchoolConfigurationRepository()
	paymentRepo := testutil.NewMockPaymentRepository()

	currency := NewCurrencyService(rateRepo, clock.Real{})
	appliedCharges := NewAppliedChargeService(chargeRepo, studentRepo, conceptRepo, currency, clock.Real{})
	credit := NewCreditService(paymentRepo, chargeRepo)
	billing := NewBillingService(chargeRepo, studentRepo, conceptRepo, configRepo, appliedCharges, credit)
	return billing, studentRepo, conceptRepo, chargeRepo
}

func TestBillingService_GenerateRecurringCharges_OneChargePerActiveStudent(t *testing.T) {
	billing, studentRepo, conceptRepo, chargeRepo := newBillingServiceFixture(t)

	active, _ := studentRepo.Create(&domain.Student{FirstName: "Ana", LastName: "P", GradeLevelID: 1, RepresentativeID: 1, IsActive: true})
	studentRepo.Create(&domain.Student{FirstName: "Ines", LastName: "Q", GradeLevelID: 1, RepresentativeID: 2, IsActive: false})

	conceptRepo.Create(&domain.ChargeConcept{
		Name: "Mensualidad", DefaultAmount: decimal.NewFromFloat(50), DefaultAmountCurrency: domain.VES,
		DefaultFrequency: domain.FrequencyMonthly, IsActive: true,
	})

	summary, err := billing.GenerateRecurringCharges(GenerateRecurringChargesInput{Year: 2026, Month: 3}, time.UTC)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if summary.ChargesCreated != 1 {
		t.Errorf("expected exactly one charge created (only the active student), got %d", summary.ChargesCreated)
	}

	charges, err := chargeRepo.List(domain.AppliedChargeFilter{StudentID: &active.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(charges) != 1 {
		t.Fatalf("expected one charge for the active student, got %d", len(charges))
	}
}

func TestBillingService_GenerateRecurringCharges_SkipsAlreadyBilledPeriod(t *testing.T) {
	billing, studentRepo, conceptRepo, _ := newBillingServiceFixture(t)

	studentRepo.Create(&domain.Student{FirstName: "Ana", LastName: "P", GradeLevelID: 1, RepresentativeID: 1, IsActive: true})
	conceptRepo.Create(&domain.ChargeConcept{
		Name: "Mensualidad", DefaultAmount: decimal.NewFromFloat(50), DefaultAmountCurrency: domain.VES,
		DefaultFrequency: domain.FrequencyMonthly, IsActive: true,
	})

	if _, err := billing.GenerateRecurringCharges(GenerateRecurringChargesInput{Year: 2026, Month: 3}, time.UTC); err != nil {
		t.Fatalf("unexpected error on first run: %v", err)
	}
	summary, err := billing.GenerateRecurringCharges(GenerateRecurringChargesInput{Year: 2026, Month: 3}, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error on second run: %v", err)
	}
	if summary.ChargesCreated != 0 {
		t.Errorf("expected the second run for the same period to create nothing, got %d", summary.ChargesCreated)
	}
	if len(summary.Warnings) == 0 {
		t.Error("expected a warning noting the charge already exists for the period")
	}
}

func TestBillingService_ApplyGlobalCharge_AppliesScholarshipDiscount(t *testing.T) {
	billing, studentRepo, conceptRepo, chargeRepo := newBillingServiceFixture(t)

	student, _ := studentRepo.Create(&domain.Student{
		FirstName: "Luis", LastName: "G", GradeLevelID: 1, RepresentativeID: 9, IsActive: true,
		HasScholarship: true, ScholarshipPercentage: decimal.NewFromFloat(20),
	})
	concept, _ := conceptRepo.Create(&domain.ChargeConcept{
		Name: "Inscripcion", DefaultAmount: decimal.NewFromFloat(100), DefaultAmountCurrency: domain.VES,
		DefaultFrequency: domain.FrequencyOneShot, IsActive: true,
	})

	issue := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	summary, err := billing.ApplyGlobalCharge(ApplyGlobalChargeInput{
		ConceptID: concept.ID,
		IssueDate: issue,
		DueDate:   issue.AddDate(0, 0, 10),
		Target:    GlobalTargetAllActive,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if summary.ChargesCreated != 1 {
		t.Fatalf("expected one charge created, got %d", summary.ChargesCreated)
	}

	charges, err := chargeRepo.List(domain.AppliedChargeFilter{StudentID: &student.ID})
	if err != nil || len(charges) != 1 {
		t.Fatalf("expected one charge for student %d, got %v (err=%v)", student.ID, charges, err)
	}
	if !charges[0].AmountDueVESAtEmission.Equal(decimal.NewFromFloat(80)) {
		t.Errorf("expected 80 VES due after a 20%% scholarship on 100 VES, got %s", charges[0].AmountDueVESAtEmission.String())
	}
}
