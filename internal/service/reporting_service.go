package service

import (
	"time"

	"github.com/aluvasquez/schoolledger/internal/clock"
	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/aluvasquez/schoolledger/internal/util"
	"github.com/shopspring/decimal"
)

// ReportingService is the read-side reporting engine (C9): delinquency
// classification, billing/payment trends, expense summaries, account
// statements, and the administrative dashboard.
type ReportingService struct {
	chargeRepo  domain.AppliedChargeRepository
	paymentRepo domain.PaymentRepository
	repRepo     domain.RepresentativeRepository
	expenseRepo domain.ExpenseRepository
	clock       clock.Clock
}

func NewReportingService(
	chargeRepo domain.AppliedChargeRepository,
	paymentRepo domain.PaymentRepository,
	repRepo domain.RepresentativeRepository,
	expenseRepo domain.ExpenseRepository,
	clk clock.Clock,
) *ReportingService {
	return &ReportingService{
		chargeRepo:  chargeRepo,
		paymentRepo: paymentRepo,
		repRepo:     repRepo,
		expenseRepo: expenseRepo,
		clock:       clk,
	}
}

// DelinquencyClass is the traffic-light classification of §4.9: green when no
// open charge is past due; red when the oldest open due date falls before the
// first day of the month two months back; orange for any other overdue date.
type DelinquencyClass string

const (
	DelinquencyGreen  DelinquencyClass = "green"
	DelinquencyOrange DelinquencyClass = "orange"
	DelinquencyRed    DelinquencyClass = "red"
)

// ClassifyDelinquency implements §4.9's traffic-light rule from the oldest
// open charge's due_date relative to today.
func (s *ReportingService) ClassifyDelinquency(oldestOpenDueDate *time.Time) DelinquencyClass {
	if oldestOpenDueDate == nil {
		return DelinquencyGreen
	}
	today := s.clock.LocalToday(clock.Caracas)
	if !oldestOpenDueDate.Before(today) {
		return DelinquencyGreen
	}
	if oldestOpenDueDate.Before(util.FirstDayOfPreviousPreviousMonth(today)) {
		return DelinquencyRed
	}
	return DelinquencyOrange
}

// RepresentativeDelinquency is one row of the delinquency report.
type RepresentativeDelinquency struct {
	RepresentativeID   int32             `json:"representativeId"`
	RepresentativeName string            `json:"representativeName"`
	OldestOpenDueDate  *time.Time        `json:"oldestOpenDueDate,omitempty"`
	TotalOutstandingVES decimal.Decimal  `json:"totalOutstandingVes"`
	Class              DelinquencyClass  `json:"class"`
}

// DelinquencyReport classifies every representative with at least one open
// charge.
func (s *ReportingService) DelinquencyReport() ([]RepresentativeDelinquency, error) {
	reps, err := s.repRepo.List(domain.RepresentativeFilter{})
	if err != nil {
		return nil, domain.ErrInternalError
	}

	report := make([]RepresentativeDelinquency, 0, len(reps))
	for _, rep := range reps {
		charges, err := s.chargeRepo.ListOpenForRepresentativeOrdered(rep.ID)
		if err != nil {
			return nil, domain.ErrInternalError
		}
		if len(charges) == 0 {
			continue
		}
		oldest := charges[0].DueDate
		total := decimal.Zero
		for _, c := range charges {
			total = total.Add(c.TodayValueVES(nil))
		}
		report = append(report, RepresentativeDelinquency{
			RepresentativeID:    rep.ID,
			RepresentativeName:  rep.FullName(),
			OldestOpenDueDate:   &oldest,
			TotalOutstandingVES: domain.Round2(total),
			Class:               s.ClassifyDelinquency(&oldest),
		})
	}
	return report, nil
}

// AccountStatement is the ledger view for a single representative: every
// applied charge and payment, plus their running outstanding balance.
type AccountStatement struct {
	RepresentativeID    int32                   `json:"representativeId"`
	Charges             []*domain.AppliedCharge `json:"charges"`
	Payments            []*domain.Payment       `json:"payments"`
	TotalOutstandingVES decimal.Decimal         `json:"totalOutstandingVes"`
	AvailableCreditVES  decimal.Decimal         `json:"availableCreditVes"`
}

// RepresentativeAccountStatement implements §4.9's account-statement view.
func (s *ReportingService) RepresentativeAccountStatement(representativeID int32) (*AccountStatement, error) {
	rep, err := s.repRepo.GetByID(representativeID)
	if err != nil {
		return nil, err
	}
	charges, err := s.chargeRepo.List(domain.AppliedChargeFilter{RepresentativeID: &representativeID})
	if err != nil {
		return nil, domain.ErrInternalError
	}
	payments, err := s.paymentRepo.ListByRepresentative(representativeID)
	if err != nil {
		return nil, domain.ErrInternalError
	}

	total := decimal.Zero
	for _, c := range charges {
		if c.IsOpen() {
			total = total.Add(c.TodayValueVES(nil))
		}
	}

	return &AccountStatement{
		RepresentativeID:    representativeID,
		Charges:             charges,
		Payments:            payments,
		TotalOutstandingVES: domain.Round2(total),
		AvailableCreditVES:  rep.AvailableCreditVES,
	}, nil
}

// MonthlyBillingPaymentPoint is one period of the billing-vs-payment trend.
type MonthlyBillingPaymentPoint struct {
	Period      string          `json:"period"`
	BilledVES   decimal.Decimal `json:"billedVes"`
	CollectedVES decimal.Decimal `json:"collectedVes"`
}

// MonthlyBillingPaymentTrend aggregates charges issued and payments received
// per calendar month in [from, to).
func (s *ReportingService) MonthlyBillingPaymentTrend(from, to time.Time) ([]MonthlyBillingPaymentPoint, error) {
	charges, err := s.chargeRepo.List(domain.AppliedChargeFilter{IssueDateFrom: &from, IssueDateTo: &to})
	if err != nil {
		return nil, domain.ErrInternalError
	}
	payments, err := s.paymentRepo.List(domain.PaymentFilter{DateFrom: &from, DateTo: &to})
	if err != nil {
		return nil, domain.ErrInternalError
	}

	billed := map[string]decimal.Decimal{}
	collected := map[string]decimal.Decimal{}
	order := make([]string, 0)

	for _, c := range charges {
		period := c.IssueDate.Format("2006-01")
		if _, ok := billed[period]; !ok {
			order = append(order, period)
		}
		billed[period] = billed[period].Add(c.AmountDueVESAtEmission)
	}
	for _, p := range payments {
		period := p.PaymentDate.Format("2006-01")
		if _, ok := billed[period]; !ok {
			if _, ok2 := collected[period]; !ok2 {
				order = append(order, period)
			}
		}
		collected[period] = collected[period].Add(p.AmountPaidVESEquivalent)
	}

	points := make([]MonthlyBillingPaymentPoint, 0, len(order))
	seen := map[string]bool{}
	for _, period := range order {
		if seen[period] {
			continue
		}
		seen[period] = true
		points = append(points, MonthlyBillingPaymentPoint{
			Period:       period,
			BilledVES:    domain.Round2(billed[period]),
			CollectedVES: domain.Round2(collected[period]),
		})
	}
	return points, nil
}

// ExpenseSummaryByCategory, ExpenseSummaryBySupplier, and ExpenseTrend
// delegate straight to the repository's SQL aggregation, optionally
// excluding salary-flagged categories per §4.9.
func (s *ReportingService) ExpenseSummaryByCategory(from, to time.Time, excludeSalaries bool) ([]domain.ExpenseSummaryByCategory, error) {
	return s.expenseRepo.SummaryByCategory(from, to, excludeSalaries)
}

func (s *ReportingService) ExpenseSummaryBySupplier(from, to time.Time, excludeSalaries bool) ([]domain.ExpenseSummaryBySupplier, error) {
	return s.expenseRepo.SummaryBySupplier(from, to, excludeSalaries)
}

func (s *ReportingService) ExpenseTrend(from, to time.Time, granularity string, excludeSalaries bool) ([]domain.ExpenseTrendPoint, error) {
	return s.expenseRepo.Trend(from, to, granularity, excludeSalaries)
}

// DashboardSummary is the top-line administrative overview.
type DashboardSummary struct {
	TotalOutstandingVES decimal.Decimal `json:"totalOutstandingVes"`
	OverdueCount        int             `json:"overdueCount"`
	DelinquentRepresentatives int       `json:"delinquentRepresentatives"`
}

// DashboardSummary aggregates the delinquency report into top-line counters.
func (s *ReportingService) DashboardSummary() (*DashboardSummary, error) {
	report, err := s.DelinquencyReport()
	if err != nil {
		return nil, err
	}
	summary := &DashboardSummary{}
	for _, r := range report {
		summary.TotalOutstandingVES = summary.TotalOutstandingVES.Add(r.TotalOutstandingVES)
		if r.Class != DelinquencyGreen {
			summary.DelinquentRepresentatives++
		}
	}
	summary.TotalOutstandingVES = domain.Round2(summary.TotalOutstandingVES)
	return summary, nil
}
