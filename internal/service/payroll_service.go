package service

import (
	"fmt"
	"time"

	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/aluvasquez/schoolledger/internal/websocket"
	"github.com/shopspring/decimal"
)

// PayrollService is the Payroll Run Engine (C8): draft creation, per-employee
// component resolution, confirmation, and employee payments.
type PayrollService struct {
	runRepo        domain.PayrollRunRepository
	employeeRepo   domain.EmployeeRepository
	componentRepo  domain.SalaryComponentDefinitionRepository
	empComponentRepo domain.EmployeeSalaryComponentRepository
	payableRepo    domain.EmployeePayableItemRepository
	adjustmentRepo domain.EmployeeBalanceAdjustmentRepository
	empPaymentRepo domain.EmployeePaymentRepository
	payslipRepo    domain.PayslipRepository
	currency       *CurrencyService
	events         websocket.EventPublisher
}

func NewPayrollService(
	runRepo domain.PayrollRunRepository,
	employeeRepo domain.EmployeeRepository,
	componentRepo domain.SalaryComponentDefinitionRepository,
	empComponentRepo domain.EmployeeSalaryComponentRepository,
	payableRepo domain.EmployeePayableItemRepository,
	adjustmentRepo domain.EmployeeBalanceAdjustmentRepository,
	empPaymentRepo domain.EmployeePaymentRepository,
	payslipRepo domain.PayslipRepository,
	currency *CurrencyService,
) *PayrollService {
	return &PayrollService{
		runRepo:          runRepo,
		employeeRepo:     employeeRepo,
		componentRepo:    componentRepo,
		empComponentRepo: empComponentRepo,
		payableRepo:      payableRepo,
		adjustmentRepo:   adjustmentRepo,
		empPaymentRepo:   empPaymentRepo,
		payslipRepo:      payslipRepo,
		currency:         currency,
		events:           &websocket.NoOpPublisher{},
	}
}

// GetPayslip returns the immutable payslip snapshot issued for a given
// employee payment.
func (s *PayrollService) GetPayslip(id int32) (*domain.Payslip, error) {
	return s.payslipRepo.GetByID(id)
}

// GetPayslipByPayment returns the payslip issued alongside a specific
// employee payment, if any.
func (s *PayrollService) GetPayslipByPayment(paymentID int32) (*domain.Payslip, error) {
	return s.payslipRepo.GetByEmployeePayment(paymentID)
}

// ListPayslips returns every payslip issued to an employee, most recent first.
func (s *PayrollService) ListPayslips(employeeID int32) ([]*domain.Payslip, error) {
	return s.payslipRepo.ListByEmployee(employeeID)
}

func (s *PayrollService) SetEventPublisher(pub websocket.EventPublisher) {
	s.events = pub
}

// CreateDraft implements §4.8's create_payroll_run (draft stage only).
func (s *PayrollService) CreateDraft(run *domain.PayrollRun) (*domain.PayrollRun, error) {
	run.Status = domain.PayrollStatusDraft
	if err := run.Validate(); err != nil {
		return nil, err
	}
	return s.runRepo.Create(run)
}

// DeleteDraft removes a run that has never been confirmed.
func (s *PayrollService) DeleteDraft(runID int32) error {
	run, err := s.runRepo.GetByID(runID)
	if err != nil {
		return err
	}
	if run.Status != domain.PayrollStatusDraft {
		return domain.ErrPayrollRunNotDraft
	}
	return s.runRepo.Delete(runID)
}

// UpdateStatus enforces §4.8's transition matrix outside of ConfirmRun
// (e.g. marking a confirmed run paid_out, or cancelling any non-terminal run).
func (s *PayrollService) UpdateStatus(runID int32, next domain.PayrollRunStatus) (*domain.PayrollRun, error) {
	run, err := s.runRepo.GetByID(runID)
	if err != nil {
		return nil, err
	}
	if !run.CanTransitionTo(next) {
		return nil, domain.ErrInvalidStatusTransition{Entity: "payroll_run", From: string(run.Status), To: string(next)}
	}
	run.Status = next
	updated, err := s.runRepo.Update(run)
	if err != nil {
		return nil, err
	}
	if next == domain.PayrollStatusPaidOut {
		s.events.Publish(websocket.ChannelAdmin, websocket.PayrollRunPaidOut(updated))
	}
	return updated, nil
}

// resolvedComponent is an employee's salary component with its effective
// value/currency already resolved against any per-employee override.
type resolvedComponent struct {
	def       *domain.SalaryComponentDefinition
	component *domain.EmployeeSalaryComponent
}

// ConfirmRun implements §4.8's confirm_payroll_run: resolves every eligible
// employee's base salary and components into VES, persists the run's
// details, materialises one EmployeePayableItem per detail (source_type
// payroll_run, source_id the run's ID), and locks the run. A missing
// exchange rate for a given employee's currency skips that employee with a
// processing note — the run still proceeds for the rest (§4.8's explicit
// "skip with note" resolution, distinct from the billing engine's
// short-circuit for global charges).
func (s *PayrollService) ConfirmRun(input domain.ConfirmRunInput) (*domain.ConfirmRunResult, error) {
	run, err := s.runRepo.GetByID(input.PayrollRunID)
	if err != nil {
		return nil, err
	}
	if run.Status != domain.PayrollStatusDraft {
		return nil, domain.ErrPayrollRunAlreadyConfirmed
	}

	employees, err := s.employeeRepo.ListEligibleForRun(run.PayFrequencyCovered)
	if err != nil {
		return nil, domain.ErrInternalError
	}

	details := make([]*domain.PayrollRunEmployeeDetail, 0, len(employees))
	skipped := map[int32]string{}
	hoursDecrement := map[int32]decimal.Decimal{}

	for _, emp := range employees {
		detail, hours, note, err := s.resolveEmployeeDetail(emp, run, input.HoursByEmployee[emp.ID])
		if err != nil {
			skipped[emp.ID] = err.Error()
			continue
		}
		if note != "" {
			detail.ProcessingNote = &note
		}
		details = append(details, detail)
		if hours != nil {
			hoursDecrement[emp.ID] = *hours
		}
	}

	run.Status = domain.PayrollStatusConfirmed
	run.ConfirmingUserID = &input.ConfirmingUserID
	now := time.Now().UTC()
	run.ConfirmedAt = &now

	confirmedRun, confirmedDetails, err := s.runRepo.ConfirmAtomic(run, details, hoursDecrement)
	if err != nil {
		return nil, domain.ErrInternalError
	}

	payableItems := make([]*domain.EmployeePayableItem, 0, len(confirmedDetails))
	for _, d := range confirmedDetails {
		payableItems = append(payableItems, &domain.EmployeePayableItem{
			EmployeeID:          d.EmployeeID,
			SourceType:          domain.PayableSourcePayrollRun,
			SourceID:            confirmedRun.ID,
			Description:         fmt.Sprintf("Payroll run: %s", confirmedRun.Name),
			AmountOriginal:      d.NetAmountToPayVES,
			CurrencyOriginal:    domain.VES,
			AmountVESAtCreation: d.NetAmountToPayVES,
			AmountPaidVES:       decimal.Zero,
			Status:              domain.PayableItemPending,
		})
	}
	if len(payableItems) > 0 {
		if _, err := s.payableRepo.CreateBatch(payableItems); err != nil {
			return nil, domain.ErrInternalError
		}
	}

	s.events.Publish(websocket.ChannelAdmin, websocket.PayrollRunConfirmed(confirmedRun))

	return &domain.ConfirmRunResult{
		Run:          confirmedRun,
		Details:      confirmedDetails,
		SkippedNotes: skipped,
	}, nil
}

// resolveEmployeeDetail computes one employee's base salary, earnings,
// deductions, and net total for the run in pure Go, unit-testable without a
// database.
func (s *PayrollService) resolveEmployeeDetail(emp *domain.Employee, run *domain.PayrollRun, hoursWorked decimal.Decimal) (*domain.PayrollRunEmployeeDetail, *decimal.Decimal, string, error) {
	var baseVES decimal.Decimal
	var hoursProcessed *decimal.Decimal
	var note string

	switch emp.PayFrequency {
	case domain.PayFrequencyHourly:
		if hoursWorked.LessThanOrEqual(decimal.Zero) {
			hoursWorked = emp.AccumulatedHours
		}
		hoursProcessed = &hoursWorked
		baseOriginal := domain.Round2(emp.HourlyRate.Mul(hoursWorked))
		converted, err := s.convertToVESOrNote(baseOriginal, emp.BaseSalaryCurrency, run.PeriodEnd)
		if err != nil {
			return nil, nil, "", err
		}
		baseVES = converted
	default:
		converted, err := s.convertToVESOrNote(emp.BaseSalaryAmount, emp.BaseSalaryCurrency, run.PeriodEnd)
		if err != nil {
			return nil, nil, "", err
		}
		baseVES = converted
	}

	components, err := s.empComponentRepo.ListActiveByEmployee(emp.ID)
	if err != nil {
		return nil, nil, "", domain.ErrInternalError
	}

	breakdown := make([]domain.ComponentBreakdownEntry, 0, len(components))
	earnings := decimal.Zero
	deductions := decimal.Zero

	for _, comp := range components {
		def, err := s.componentRepo.GetByID(comp.DefinitionID)
		if err != nil {
			continue
		}
		if !def.IsActive {
			continue
		}
		value, currency := comp.EffectiveValue(def)

		var amountVES decimal.Decimal
		if def.CalculationType == domain.CalculationPercentageOfBase {
			amountVES = domain.Round2(baseVES.Mul(value).Div(decimal.NewFromInt(100)))
		} else {
			converted, err := s.convertToVESOrNote(value, currency, run.PeriodEnd)
			if err != nil {
				note = fmt.Sprintf("component %q skipped: %v", def.Name, err)
				continue
			}
			amountVES = converted
		}

		breakdown = append(breakdown, domain.ComponentBreakdownEntry{
			Name:      def.Name,
			Type:      def.ComponentType,
			AmountVES: amountVES,
		})
		if def.ComponentType == domain.ComponentTypeEarning {
			earnings = earnings.Add(amountVES)
		} else {
			deductions = deductions.Add(amountVES)
		}
	}

	totalEarnings := domain.Round2(baseVES.Add(earnings))
	totalDeductions := domain.Round2(deductions)
	// No floor at zero: §4.8 leaves net pay unclamped, so a deduction-heavy
	// period can produce a negative net (the employee owes the school),
	// validated at payout time rather than silently clamped here.
	net := domain.Round2(totalEarnings.Sub(totalDeductions))

	detail := &domain.PayrollRunEmployeeDetail{
		EmployeeID:         emp.ID,
		BaseSalaryVES:      baseVES,
		TotalEarningsVES:   totalEarnings,
		TotalDeductionsVES: totalDeductions,
		NetAmountToPayVES:  net,
		ComponentBreakdown: breakdown,
		HoursProcessed:     hoursProcessed,
	}
	return detail, hoursProcessed, note, nil
}

func (s *PayrollService) convertToVESOrNote(amount decimal.Decimal, currency domain.Currency, onDate time.Time) (decimal.Decimal, error) {
	ves, _, err := s.currency.ConvertToVES(amount, currency, onDate)
	if err != nil {
		return decimal.Zero, err
	}
	return ves, nil
}

// RecordAdjustment implements §4.8's manual earning/deduction path.
func (s *PayrollService) RecordAdjustment(adj *domain.EmployeeBalanceAdjustment, onDate time.Time) (*domain.EmployeeBalanceAdjustment, error) {
	if err := adj.Validate(); err != nil {
		return nil, err
	}

	amountVES, _, err := s.currency.ConvertToVES(adj.AmountOriginal, adj.CurrencyOriginal, onDate)
	if err != nil {
		return nil, err
	}

	var updatedItem *domain.EmployeePayableItem
	if adj.Type == domain.AdjustmentDeduction {
		item, err := s.payableRepo.GetByID(*adj.TargetPayableItemID)
		if err != nil {
			return nil, err
		}
		item.AmountPaidVES = domain.Round2(item.AmountPaidVES.Add(amountVES))
		item.Status = item.DeriveStatus()
		updatedItem = item
	}

	created, err := s.adjustmentRepo.CreateAtomic(adj, updatedItem)
	if err != nil {
		return nil, domain.ErrInternalError
	}

	if adj.Type == domain.AdjustmentEarning {
		item := &domain.EmployeePayableItem{
			EmployeeID:          adj.EmployeeID,
			SourceType:          domain.PayableSourceBalanceAdjustment,
			SourceID:            created.ID,
			Description:         adj.Description,
			AmountOriginal:      adj.AmountOriginal,
			CurrencyOriginal:    adj.CurrencyOriginal,
			AmountVESAtCreation: amountVES,
			AmountPaidVES:       decimal.Zero,
			Status:              domain.PayableItemPending,
		}
		if _, err := s.payableRepo.Create(item); err != nil {
			return nil, domain.ErrInternalError
		}
	}

	return created, nil
}

// RecordEmployeePayment implements §4.8's record_employee_payment: allocates
// a payment across open payable items and issues the accompanying payslip.
func (s *PayrollService) RecordEmployeePayment(input domain.RecordEmployeePaymentInput) (*domain.RecordEmployeePaymentResult, error) {
	payment := &domain.EmployeePayment{
		EmployeeID:   input.EmployeeID,
		PaymentDate:  input.PaymentDate,
		AmountPaid:   input.Amount,
		CurrencyPaid: input.Currency,
		Method:       input.Method,
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

	allocations := make([]*domain.EmployeePaymentAllocation, 0, len(input.Allocations))
	updatedItems := make([]*domain.EmployeePayableItem, 0, len(input.Allocations))
	totalAllocated := decimal.Zero

	var latestDetail *domain.PayrollRunEmployeeDetail

	for _, req := range input.Allocations {
		item, err := s.payableRepo.GetByID(req.AppliedChargeID)
		if err != nil {
			return nil, err
		}
		if item.EmployeeID != input.EmployeeID {
			return nil, domain.NewBusinessRuleViolation("employee_payment_wrong_employee", "payable item %d does not belong to this employee", item.ID)
		}
		if !item.IsOpen() {
			return nil, domain.NewBusinessRuleViolation("employee_payment_item_closed", "payable item %d is already paid", item.ID)
		}
		balance := domain.ClampNonNegative(domain.Round2(item.AmountVESAtCreation.Sub(item.AmountPaidVES)))
		if !domain.ApproxLTE(req.AmountToAllocate, balance) {
			return nil, domain.NewBusinessRuleViolation("employee_allocation_exceeds_balance", "allocation to payable item %d exceeds its balance", item.ID)
		}

		item.AmountPaidVES = domain.Round2(item.AmountPaidVES.Add(req.AmountToAllocate))
		item.Status = item.DeriveStatus()
		updatedItems = append(updatedItems, item)

		allocations = append(allocations, &domain.EmployeePaymentAllocation{
			EmployeePayableItemID: item.ID,
			AmountAllocatedVES:    req.AmountToAllocate,
		})
		totalAllocated = totalAllocated.Add(req.AmountToAllocate)

		if item.SourceType == domain.PayableSourcePayrollRun {
			if detail, err := s.runRepo.GetDetailByRunAndEmployee(item.SourceID, input.EmployeeID); err == nil {
				latestDetail = detail
			}
		}
	}

	if !domain.ApproxLTE(totalAllocated, amountVES) {
		return nil, domain.NewBusinessRuleViolation("employee_allocation_exceeds_payment", "total allocations exceed the payment's VES equivalent")
	}

	slip := &domain.Payslip{
		EmployeeID:   input.EmployeeID,
		NetAmountVES: totalAllocated,
		IsAdvance:    latestDetail == nil,
		IssuedAt:     time.Now().UTC(),
	}
	if latestDetail != nil {
		slip.PayrollRunID = &latestDetail.PayrollRunID
		slip.BaseSalaryVES = latestDetail.BaseSalaryVES
		slip.TotalEarningsVES = latestDetail.TotalEarningsVES
		slip.TotalDeductionsVES = latestDetail.TotalDeductionsVES
		slip.ComponentBreakdown = latestDetail.ComponentBreakdown
	}

	createdPayment, createdSlip, err := s.empPaymentRepo.RecordAtomic(payment, allocations, updatedItems, slip)
	if err != nil {
		return nil, domain.ErrInternalError
	}

	s.events.Publish(websocket.ChannelAdmin, websocket.EmployeePaymentRecorded(createdPayment))

	return &domain.RecordEmployeePaymentResult{
		Payment:      createdPayment,
		Allocations:  allocations,
		UpdatedItems: updatedItems,
		Payslip:      createdSlip,
	}, nil
}
