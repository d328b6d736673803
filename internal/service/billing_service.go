package service

import (
	"fmt"
	"time"

	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/aluvasquez/schoolledger/internal/util"
	"github.com/aluvasquez/schoolledger/internal/websocket"
	"github.com/shopspring/decimal"
)

// BillingService is the Batch Billing Engine (C5): monthly recurring-charge
// generation and global one-shot concept application.
type BillingService struct {
	chargeRepo   domain.AppliedChargeRepository
	studentRepo  domain.StudentRepository
	conceptRepo  domain.ChargeConceptRepository
	configRepo   domain.SchoolConfigurationRepository
	appliedCharges *AppliedChargeService
	credit       *CreditService
	events       websocket.EventPublisher
}

func NewBillingService(
	chargeRepo domain.AppliedChargeRepository,
	studentRepo domain.StudentRepository,
	conceptRepo domain.ChargeConceptRepository,
	configRepo domain.SchoolConfigurationRepository,
	appliedCharges *AppliedChargeService,
	credit *CreditService,
) *BillingService {
	return &BillingService{
		chargeRepo:     chargeRepo,
		studentRepo:    studentRepo,
		conceptRepo:    conceptRepo,
		configRepo:     configRepo,
		appliedCharges: appliedCharges,
		credit:         credit,
		events:         &websocket.NoOpPublisher{},
	}
}

func (s *BillingService) SetEventPublisher(pub websocket.EventPublisher) {
	s.events = pub
}

// BatchSummary accumulates per-item outcomes of a batch run; batches never
// abort on a single item's failure (§4.5).
type BatchSummary struct {
	Period                   string                    `json:"period,omitempty"`
	StudentsProcessed        int                       `json:"studentsProcessed"`
	ChargesCreated           int                       `json:"chargesCreated"`
	Warnings                 []string                  `json:"warnings"`
	RepresentativeCreditRuns map[int32]*CreditApplicationResult `json:"-"`
}

type GenerateRecurringChargesInput struct {
	Year       int
	Month      int
	IssueDate  *time.Time
	DueDate    *time.Time
	ConceptIDs []int32
}

// GenerateRecurringCharges implements §4.5's generate_recurring_charges.
func (s *BillingService) GenerateRecurringCharges(input GenerateRecurringChargesInput, loc *time.Location) (*BatchSummary, error) {
	monthStart, monthEnd := util.MonthBounds(input.Year, input.Month, loc)

	issueDate := monthStart
	if input.IssueDate != nil {
		issueDate = *input.IssueDate
	}
	dueDate := issueDate
	if input.DueDate != nil {
		dueDate = *input.DueDate
	} else {
		cfg, err := s.configRepo.Get()
		if err == nil && cfg != nil && cfg.PaymentDueDay != nil {
			day := util.ClampDayToMonth(input.Year, input.Month, int(*cfg.PaymentDueDay))
			dueDate = time.Date(input.Year, time.Month(input.Month), day, 0, 0, 0, 0, loc)
		}
	}

	summary := &BatchSummary{
		Period:                   fmt.Sprintf("%04d-%02d", input.Year, input.Month),
		Warnings:                 []string{},
		RepresentativeCreditRuns: map[int32]*CreditApplicationResult{},
	}

	students, err := s.studentRepo.List(domain.StudentFilter{ActiveOnly: true})
	if err != nil {
		return nil, domain.ErrInternalError
	}

	monthlyFreq := domain.FrequencyMonthly
	concepts, err := s.conceptRepo.List(domain.ChargeConceptFilter{ActiveOnly: true, Frequency: &monthlyFreq, IDs: input.ConceptIDs})
	if err != nil {
		return nil, domain.ErrInternalError
	}

	representativesTouched := map[int32]bool{}

	for _, student := range students {
		summary.StudentsProcessed++
		for _, concept := range concepts {
			if !concept.AppliesToGrade(student.GradeLevelID) {
				continue
			}

			exists, err := s.chargeRepo.ExistsForStudentConceptInRange(student.ID, concept.ID, monthStart, monthEnd)
			if err != nil {
				summary.Warnings = append(summary.Warnings, fmt.Sprintf("student %d concept %d: %v", student.ID, concept.ID, err))
				continue
			}
			if exists {
				summary.Warnings = append(summary.Warnings, fmt.Sprintf("student %d concept %q: charge already exists for %s", student.ID, concept.Name, summary.Period))
				continue
			}

			_, err = s.appliedCharges.IssueCharge(student.ID, concept.ID, concept.Name, issueDate, dueDate)
			if err != nil {
				summary.Warnings = append(summary.Warnings, fmt.Sprintf("student %d concept %q: %v", student.ID, concept.Name, err))
				continue
			}
			summary.ChargesCreated++
			representativesTouched[student.RepresentativeID] = true
		}
	}

	for repID := range representativesTouched {
		result, err := s.credit.ApplyRepresentativeCredit(repID)
		if err != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("representative %d: credit reapplication failed: %v", repID, err))
			continue
		}
		summary.RepresentativeCreditRuns[repID] = result
	}

	s.events.Publish(websocket.ChannelAdmin, websocket.BillingBatchCompleted(summary))
	return summary, nil
}

// ApplyGlobalChargeTarget selects which students a global charge applies to.
type ApplyGlobalChargeTarget string

const (
	GlobalTargetAllActive ApplyGlobalChargeTarget = "all_active"
	GlobalTargetAll        ApplyGlobalChargeTarget = "all"
)

type ApplyGlobalChargeInput struct {
	ConceptID       int32
	IssueDate       time.Time
	DueDate         time.Time
	Target          ApplyGlobalChargeTarget
	OverrideAmount   *decimal.Decimal
	OverrideCurrency *domain.Currency
	Description      string
}

// ApplyGlobalCharge implements §4.5's apply_global_charge. Unlike recurring
// generation, a missing rate for an indexed concept short-circuits the
// entire batch rather than continuing with warnings (§9 open question).
func (s *BillingService) ApplyGlobalCharge(input ApplyGlobalChargeInput) (*BatchSummary, error) {
	concept, err := s.conceptRepo.GetByID(input.ConceptID)
	if err != nil {
		return nil, err
	}

	amount := concept.DefaultAmount
	currency := concept.DefaultAmountCurrency
	if input.OverrideAmount != nil {
		amount = *input.OverrideAmount
	}
	if input.OverrideCurrency != nil {
		currency = *input.OverrideCurrency
	}
	indexed := currency != domain.VES

	var rateAtIssue *decimal.Decimal
	if indexed {
		rate, err := s.appliedCharges.currency.LatestRate(currency, domain.VES, input.IssueDate)
		if err != nil {
			return nil, domain.ErrInternalError
		}
		if rate == nil {
			return nil, domain.ErrRateMissing{CurrencyCode: string(currency), Date: input.IssueDate.Format("2006-01-02")}
		}
		rateAtIssue = &rate.Rate
	}

	filter := domain.StudentFilter{ActiveOnly: input.Target == GlobalTargetAllActive}
	students, err := s.studentRepo.List(filter)
	if err != nil {
		return nil, domain.ErrInternalError
	}

	summary := &BatchSummary{Warnings: []string{}, RepresentativeCreditRuns: map[int32]*CreditApplicationResult{}}
	representativesTouched := map[int32]bool{}

	for _, student := range students {
		summary.StudentsProcessed++

		// Deviation from §4.3: percentage scholarship applied in the
		// original currency first, then convert to VES, then subtract the
		// fixed-VES scholarship (§4.5 step 3, §9 open question).
		netOriginal := amount
		if student.HasScholarship && student.ScholarshipPercentage.GreaterThan(decimal.Zero) {
			discount := domain.Round2(netOriginal.Mul(student.ScholarshipPercentage).Div(decimal.NewFromInt(100)))
			netOriginal = netOriginal.Sub(discount)
		}

		var netVES decimal.Decimal
		if indexed {
			netVES = domain.Round2(netOriginal.Mul(*rateAtIssue))
		} else {
			netVES = domain.Round2(netOriginal)
		}

		if student.HasScholarship && student.ScholarshipPercentage.LessThanOrEqual(decimal.Zero) && student.ScholarshipFixedAmountVES.GreaterThan(decimal.Zero) {
			netVES = netVES.Sub(student.ScholarshipFixedAmountVES)
		}
		netVES = domain.ClampNonNegative(domain.Round2(netVES))

		if netVES.LessThanOrEqual(decimal.Zero) {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("student %d: net amount is zero after scholarship, skipped", student.ID))
			continue
		}

		netOriginalFinal := netVES
		if indexed {
			netOriginalFinal = domain.Round2(netVES.Div(*rateAtIssue))
		}

		description := input.Description
		if description == "" {
			description = concept.Name
		}

		charge := &domain.AppliedCharge{
			StudentID:                            student.ID,
			ConceptID:                            concept.ID,
			Description:                          description,
			OriginalConceptAmount:                amount,
			OriginalConceptCurrency:              currency,
			IsIndexed:                            indexed,
			ExchangeRateAtEmission:               rateAtIssue,
			AmountDueOriginalCurrency:            netOriginalFinal,
			AmountDueVESAtEmission:                netVES,
			AmountPaidOriginalCurrencyEquivalent: decimal.Zero,
			AmountPaidVES:                        decimal.Zero,
			IssueDate:                            input.IssueDate,
			DueDate:                              input.DueDate,
			Status:                               domain.ChargeStatusPending,
		}

		if _, err := s.chargeRepo.Create(charge); err != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("student %d: %v", student.ID, err))
			continue
		}
		summary.ChargesCreated++
		representativesTouched[student.RepresentativeID] = true
	}

	for repID := range representativesTouched {
		result, err := s.credit.ApplyRepresentativeCredit(repID)
		if err == nil {
			summary.RepresentativeCreditRuns[repID] = result
		}
	}

	s.events.Publish(websocket.ChannelAdmin, websocket.BillingBatchCompleted(summary))
	return summary, nil
}
