package service

import (
	"testing"
	"time"

	"github.com/aluvasquez/schoolledger/internal/clock"
	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/aluvasquez/schoolledger/internal/testutil"
	"github.com/shopspring/decimal"
)

func newPayrollServiceFixture(t *testing.T) (*PayrollService, *testutil.MockEmployeeRepository, *testutil.MockSalaryComponentDefinitionRepository, *testutil.MockEmployeeSalaryComponentRepository, *testutil.MockPayrollRunRepository, *testutil.MockEmployeePayableItemRepository) {
	t.Helper()
	employeeRepo := testutil.NewMockEmployeeRepository()
	componentDefRepo := testutil.NewMockSalaryComponentDefinitionRepository()
	empComponentRepo := testutil.NewMockEmployeeSalaryComponentRepository()
	runRepo := testutil.NewMockPayrollRunRepository(employeeRepo)
	payableRepo := testutil.NewMockEmployeePayableItemRepository()
	adjustmentRepo := testutil.NewMockEmployeeBalanceAdjustmentRepository(payableRepo)
	payslipRepo := testutil.NewMockPayslipRepository()
	empPaymentRepo := testutil.NewMockEmployeePaymentRepository(payableRepo, payslipRepo)
	rateRepo := testutil.NewMockExchangeRateRepository()
	currency := NewCurrencyService(rateRepo, clock.Real{})

	svc := NewPayrollService(runRepo, employeeRepo, componentDefRepo, empComponentRepo, payableRepo, adjustmentRepo, empPaymentRepo, payslipRepo, currency)
	return svc, employeeRepo, componentDefRepo, empComponentRepo, runRepo, payableRepo
}

func TestPayrollService_ConfirmRun_ResolvesBaseSalaryAndComponents(t *testing.T) {
	svc, employeeRepo, componentDefRepo, empComponentRepo, runRepo, _ := newPayrollServiceFixture(t)

	employee, _ := employeeRepo.Create(&domain.Employee{
		FirstName: "Carla", LastName: "Diaz", Identity: "V-1", IsActive: true,
		PayFrequency: domain.PayFrequencyMonthly, BaseSalaryAmount: decimal.NewFromFloat(1000), BaseSalaryCurrency: domain.VES,
	})
	bonus, _ := componentDefRepo.Create(&domain.SalaryComponentDefinition{
		Name: "Bono", ComponentType: domain.ComponentTypeEarning, CalculationType: domain.CalculationFixedAmount,
		DefaultValue: decimal.NewFromFloat(100), DefaultCurrency: domain.VES, IsActive: true,
	})
	empComponentRepo.Create(&domain.EmployeeSalaryComponent{EmployeeID: employee.ID, DefinitionID: bonus.ID, IsActive: true})

	run, err := svc.CreateDraft(&domain.PayrollRun{
		Name: "March 2026", PeriodStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd: time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), PayFrequencyCovered: domain.PayFrequencyMonthly,
	})
	if err != nil {
		t.Fatalf("unexpected error creating draft: %v", err)
	}

	result, err := svc.ConfirmRun(domain.ConfirmRunInput{PayrollRunID: run.ID, ConfirmingUserID: 1})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result.Details) != 1 {
		t.Fatalf("expected one resolved detail, got %d", len(result.Details))
	}
	detail := result.Details[0]
	if !detail.BaseSalaryVES.Equal(decimal.NewFromFloat(1000)) {
		t.Errorf("expected base salary of 1000 VES, got %s", detail.BaseSalaryVES.String())
	}
	if !detail.NetAmountToPayVES.Equal(decimal.NewFromFloat(1100)) {
		t.Errorf("expected net of 1100 VES (1000 base + 100 bonus), got %s", detail.NetAmountToPayVES.String())
	}

	refetchedRun, err := runRepo.GetByID(run.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refetchedRun.Status != domain.PayrollStatusConfirmed {
		t.Errorf("expected the run to move to confirmed, got %s", refetchedRun.Status)
	}
}

func TestPayrollService_ConfirmRun_RejectsNonDraftRun(t *testing.T) {
	svc, _, _, _, _, _ := newPayrollServiceFixture(t)
	run, _ := svc.CreateDraft(&domain.PayrollRun{
		Name: "March 2026", PeriodStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd: time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), PayFrequencyCovered: domain.PayFrequencyMonthly,
	})
	if _, err := svc.ConfirmRun(domain.ConfirmRunInput{PayrollRunID: run.ID, ConfirmingUserID: 1}); err != nil {
		t.Fatalf("unexpected error on first confirmation: %v", err)
	}
	if _, err := svc.ConfirmRun(domain.ConfirmRunInput{PayrollRunID: run.ID, ConfirmingUserID: 1}); err != domain.ErrPayrollRunAlreadyConfirmed {
		t.Errorf("expected ErrPayrollRunAlreadyConfirmed on re-confirmation, got %v", err)
	}
}

func TestPayrollService_RecordEmployeePayment_AllocatesAndIssuesAdvancePayslip(t *testing.T) {
	svc, employeeRepo, _, _, _, payableRepo := newPayrollServiceFixture(t)

	employee, _ := employeeRepo.Create(&domain.Employee{
		FirstName: "Carla", LastName: "Diaz", Identity: "V-1", IsActive: true,
		PayFrequency: domain.PayFrequencyMonthly, BaseSalaryAmount: decimal.NewFromFloat(1000), BaseSalaryCurrency: domain.VES,
	})
	item, _ := payableRepo.Create(&domain.EmployeePayableItem{
		EmployeeID: employee.ID, SourceType: domain.PayableSourceBalanceAdjustment, SourceID: 1,
		Description: "Adelanto", AmountOriginal: decimal.NewFromFloat(300), CurrencyOriginal: domain.VES,
		AmountVESAtCreation: decimal.NewFromFloat(300), AmountPaidVES: decimal.Zero, Status: domain.PayableItemPending,
	})

	result, err := svc.RecordEmployeePayment(domain.RecordEmployeePaymentInput{
		EmployeeID:  employee.ID,
		PaymentDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromFloat(300),
		Currency:    domain.VES,
		Method:      "transfer",
		Allocations: []domain.AllocationRequest{{AppliedChargeID: item.ID, AmountToAllocate: decimal.NewFromFloat(300)}},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result.UpdatedItems) != 1 || result.UpdatedItems[0].Status != domain.PayableItemPaid {
		t.Fatalf("expected the payable item to be fully paid, got %+v", result.UpdatedItems)
	}
	if result.Payslip == nil || !result.Payslip.IsAdvance {
		t.Error("expected an advance payslip since the payable item has no linked confirmed-run detail")
	}
	if !result.Payslip.NetAmountVES.Equal(decimal.NewFromFloat(300)) {
		t.Errorf("expected payslip net amount of 300 VES, got %s", result.Payslip.NetAmountVES.String())
	}
}

func TestPayrollService_RecordEmployeePayment_RejectsWrongEmployee(t *testing.T) {
	svc, employeeRepo, _, _, _, payableRepo := newPayrollServiceFixture(t)

	owner, _ := employeeRepo.Create(&domain.Employee{FirstName: "A", LastName: "B", Identity: "V-1", IsActive: true, PayFrequency: domain.PayFrequencyMonthly, BaseSalaryCurrency: domain.VES})
	other, _ := employeeRepo.Create(&domain.Employee{FirstName: "C", LastName: "D", Identity: "V-2", IsActive: true, PayFrequency: domain.PayFrequencyMonthly, BaseSalaryCurrency: domain.VES})
	item, _ := payableRepo.Create(&domain.EmployeePayableItem{
		EmployeeID: owner.ID, SourceType: domain.PayableSourceBalanceAdjustment, SourceID: 1,
		Description: "X", AmountOriginal: decimal.NewFromFloat(100), CurrencyOriginal: domain.VES,
		AmountVESAtCreation: decimal.NewFromFloat(100), Status: domain.PayableItemPending,
	})

	_, err := svc.RecordEmployeePayment(domain.RecordEmployeePaymentInput{
		EmployeeID:  other.ID,
		PaymentDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromFloat(100),
		Currency:    domain.VES,
		Method:      "transfer",
		Allocations: []domain.AllocationRequest{{AppliedChargeID: item.ID, AmountToAllocate: decimal.NewFromFloat(100)}},
	})
	if err == nil {
		t.Fatal("expected an error allocating a payment to a payable item belonging to a different employee")
	}
}
