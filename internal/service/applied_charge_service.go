package service

import (
	"time"

	"github.com/aluvasquez/schoolledger/internal/clock"
	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/aluvasquez/schoolledger/internal/websocket"
	"github.com/shopspring/decimal"
)

// AppliedChargeService is the Obligation Ledger (C3): issuance, update, and
// cancellation of applied charges.
type AppliedChargeService struct {
	chargeRepo  domain.AppliedChargeRepository
	studentRepo domain.StudentRepository
	conceptRepo domain.ChargeConceptRepository
	currency    *CurrencyService
	clock       clock.Clock
	events      websocket.EventPublisher
}

func NewAppliedChargeService(
	chargeRepo domain.AppliedChargeRepository,
	studentRepo domain.StudentRepository,
	conceptRepo domain.ChargeConceptRepository,
	currency *CurrencyService,
	clk clock.Clock,
) *AppliedChargeService {
	return &AppliedChargeService{
		chargeRepo:  chargeRepo,
		studentRepo: studentRepo,
		conceptRepo: conceptRepo,
		currency:    currency,
		clock:       clk,
		events:      &websocket.NoOpPublisher{},
	}
}

func (s *AppliedChargeService) SetEventPublisher(pub websocket.EventPublisher) {
	s.events = pub
}

// IssueCharge implements §4.3's creation contract.
func (s *AppliedChargeService) IssueCharge(studentID, conceptID int32, description string, issueDate, dueDate time.Time) (*domain.AppliedCharge, error) {
	student, err := s.studentRepo.GetByID(studentID)
	if err != nil {
		return nil, err
	}
	if !student.IsActive {
		return nil, domain.ErrStudentNotActive
	}
	concept, err := s.conceptRepo.GetByID(conceptID)
	if err != nil {
		return nil, err
	}
	if !concept.IsActive {
		return nil, domain.NewBusinessRuleViolation("charge_concept_inactive", "charge concept is not active")
	}
	if dueDate.Before(issueDate) {
		return nil, domain.NewBusinessRuleViolation("applied_charge_due_before_issue", "due_date must be on or after issue_date")
	}

	charge, err := s.computeNewCharge(student, concept, description, issueDate, dueDate)
	if err != nil {
		return nil, err
	}

	created, err := s.chargeRepo.Create(charge)
	if err != nil {
		return nil, err
	}
	s.events.Publish(websocket.ChannelAdmin, websocket.AppliedChargeIssued(created))
	return created, nil
}

// computeNewCharge carries out steps 2-6 of §4.3's issuance contract, shared
// by single issuance (IssueCharge) and the recurring batch engine (C5).
func (s *AppliedChargeService) computeNewCharge(student *domain.Student, concept *domain.ChargeConcept, description string, issueDate, dueDate time.Time) (*domain.AppliedCharge, error) {
	origAmount := concept.DefaultAmount
	origCurrency := concept.DefaultAmountCurrency
	indexed := origCurrency != domain.VES

	preScholarshipVES, rateAtEmission, err := s.currency.ConvertToVES(origAmount, origCurrency, issueDate)
	if err != nil {
		return nil, err
	}

	dueVES := domain.ApplyScholarship(student, preScholarshipVES)

	var dueOriginal = dueVES
	if indexed {
		dueOriginal = domain.Round2(dueVES.Div(*rateAtEmission))
	}

	return &domain.AppliedCharge{
		StudentID:                            student.ID,
		ConceptID:                            concept.ID,
		Description:                          description,
		OriginalConceptAmount:                origAmount,
		OriginalConceptCurrency:              origCurrency,
		IsIndexed:                            indexed,
		ExchangeRateAtEmission:               rateAtEmission,
		AmountDueOriginalCurrency:            dueOriginal,
		AmountDueVESAtEmission:                dueVES,
		AmountPaidOriginalCurrencyEquivalent: decimal.Zero,
		AmountPaidVES:                        decimal.Zero,
		IssueDate:                            issueDate,
		DueDate:                              dueDate,
		Status:                               domain.ChargeStatusPending,
	}, nil
}

// UpdateCharge applies the §4.3 update contract: description/dates/status
// are only mutable while the charge is non-terminal; once paid/cancelled
// only description may change, and status only toward cancelled.
func (s *AppliedChargeService) UpdateCharge(id int32, description *string, dueDate *time.Time, newStatus *domain.AppliedChargeStatus) (*domain.AppliedCharge, error) {
	charge, err := s.chargeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if charge.IsTerminal() {
		if newStatus != nil && *newStatus != domain.ChargeStatusCancelled {
			return nil, domain.ErrInvalidStatusTransition{Entity: "applied_charge", From: string(charge.Status), To: string(*newStatus)}
		}
		if dueDate != nil {
			return nil, domain.NewBusinessRuleViolation("applied_charge_terminal", "cannot modify dates of a %s charge", charge.Status)
		}
	}

	if description != nil {
		charge.Description = *description
	}
	if dueDate != nil && !charge.IsTerminal() {
		if dueDate.Before(charge.IssueDate) {
			return nil, domain.NewBusinessRuleViolation("applied_charge_due_before_issue", "due_date must be on or after issue_date")
		}
		charge.DueDate = *dueDate
	}
	if newStatus != nil {
		if charge.IsTerminal() && *newStatus == domain.ChargeStatusCancelled {
			charge.Status = domain.ChargeStatusCancelled
		} else if !charge.IsTerminal() {
			charge.Status = *newStatus
		}
	}

	updated, err := s.chargeRepo.Update(charge)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CancelCharge cancels a non-terminal charge; cancellation of an
// already-cancelled or paid charge is a conflict.
func (s *AppliedChargeService) CancelCharge(id int32) (*domain.AppliedCharge, error) {
	charge, err := s.chargeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if charge.Status == domain.ChargeStatusCancelled {
		return nil, domain.ErrAppliedChargeAlreadyCancelled
	}
	if charge.Status == domain.ChargeStatusPaid {
		return nil, domain.ErrAppliedChargeFullyPaid
	}
	charge.Status = domain.ChargeStatusCancelled
	updated, err := s.chargeRepo.Update(charge)
	if err != nil {
		return nil, err
	}
	s.events.Publish(websocket.ChannelAdmin, websocket.AppliedChargeCancelled(updated))
	return updated, nil
}

// TodayValue resolves a charge's live VES balance, consulting C1 for
// indexed charges' current rate.
func (s *AppliedChargeService) TodayValue(charge *domain.AppliedCharge) (decimal.Decimal, error) {
	if !charge.IsIndexed {
		return charge.TodayValueVES(nil), nil
	}
	today := s.clock.LocalToday(clock.Caracas)
	rate, err := s.currency.LatestRate(charge.OriginalConceptCurrency, domain.VES, today)
	if err != nil {
		return decimal.Zero, err
	}
	if rate == nil {
		return charge.TodayValueVES(nil), nil
	}
	return charge.TodayValueVES(&rate.Rate), nil
}
