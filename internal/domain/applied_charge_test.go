package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestAppliedChargeValidate(t *testing.T) {
	issue := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	due := issue.AddDate(0, 0, 5)

	valid := &AppliedCharge{StudentID: 1, ConceptID: 1, IssueDate: issue, DueDate: due}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	missingStudent := &AppliedCharge{ConceptID: 1, IssueDate: issue, DueDate: due}
	if err := missingStudent.Validate(); err == nil {
		t.Error("expected an error for a missing student")
	}

	missingConcept := &AppliedCharge{StudentID: 1, IssueDate: issue, DueDate: due}
	if err := missingConcept.Validate(); err == nil {
		t.Error("expected an error for a missing concept")
	}

	dueBeforeIssue := &AppliedCharge{StudentID: 1, ConceptID: 1, IssueDate: issue, DueDate: issue.AddDate(0, 0, -1)}
	if err := dueBeforeIssue.Validate(); err == nil {
		t.Error("expected an error when due_date precedes issue_date")
	}
}

func TestAppliedChargeEffectiveStatus(t *testing.T) {
	today := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	pendingNotYetDue := &AppliedCharge{Status: ChargeStatusPending, DueDate: today.AddDate(0, 0, 1)}
	if pendingNotYetDue.EffectiveStatus(today) != ChargeStatusPending {
		t.Error("expected a pending charge not yet due to stay pending")
	}

	pendingOverdue := &AppliedCharge{Status: ChargeStatusPending, DueDate: today.AddDate(0, 0, -1)}
	if pendingOverdue.EffectiveStatus(today) != ChargeStatusOverdue {
		t.Error("expected a pending charge past its due date to report overdue")
	}

	paid := &AppliedCharge{Status: ChargeStatusPaid, DueDate: today.AddDate(0, 0, -30)}
	if paid.EffectiveStatus(today) != ChargeStatusPaid {
		t.Error("expected a paid charge to never report overdue, regardless of due date")
	}

	cancelled := &AppliedCharge{Status: ChargeStatusCancelled, DueDate: today.AddDate(0, 0, -30)}
	if cancelled.EffectiveStatus(today) != ChargeStatusCancelled {
		t.Error("expected a cancelled charge to stay cancelled")
	}
}

func TestAppliedChargeDeriveStatusFromPayments(t *testing.T) {
	base := &AppliedCharge{
		AmountDueOriginalCurrency: decimal.NewFromFloat(100),
	}

	base.AmountPaidOriginalCurrencyEquivalent = decimal.Zero
	if got := base.DeriveStatusFromPayments(); got != ChargeStatusPending {
		t.Errorf("expected pending with no payment, got %s", got)
	}

	base.AmountPaidOriginalCurrencyEquivalent = decimal.NewFromFloat(40)
	if got := base.DeriveStatusFromPayments(); got != ChargeStatusPartiallyPaid {
		t.Errorf("expected partially_paid with a partial payment, got %s", got)
	}

	base.AmountPaidOriginalCurrencyEquivalent = decimal.NewFromFloat(100)
	if got := base.DeriveStatusFromPayments(); got != ChargeStatusPaid {
		t.Errorf("expected paid once the full amount is covered, got %s", got)
	}

	// Within tolerance counts as fully paid.
	base.AmountPaidOriginalCurrencyEquivalent = decimal.NewFromFloat(99.9995)
	if got := base.DeriveStatusFromPayments(); got != ChargeStatusPaid {
		t.Errorf("expected paid within money tolerance, got %s", got)
	}

	cancelled := &AppliedCharge{Status: ChargeStatusCancelled, AmountDueOriginalCurrency: decimal.NewFromFloat(100)}
	if got := cancelled.DeriveStatusFromPayments(); got != ChargeStatusCancelled {
		t.Errorf("expected a cancelled charge to stay cancelled regardless of payments, got %s", got)
	}
}

func TestAppliedChargeIsOpenAndTerminal(t *testing.T) {
	for _, status := range []AppliedChargeStatus{ChargeStatusPending, ChargeStatusPartiallyPaid, ChargeStatusOverdue} {
		c := &AppliedCharge{Status: status}
		if !c.IsOpen() {
			t.Errorf("expected status %s to be open", status)
		}
		if c.IsTerminal() {
			t.Errorf("expected status %s to not be terminal", status)
		}
	}
	for _, status := range []AppliedChargeStatus{ChargeStatusPaid, ChargeStatusCancelled} {
		c := &AppliedCharge{Status: status}
		if c.IsOpen() {
			t.Errorf("expected status %s to not be open", status)
		}
		if !c.IsTerminal() {
			t.Errorf("expected status %s to be terminal", status)
		}
	}
}

func TestAppliedChargeTodayValueVES(t *testing.T) {
	nonIndexed := &AppliedCharge{
		IsIndexed:              false,
		AmountDueVESAtEmission: decimal.NewFromFloat(1000),
		AmountPaidVES:          decimal.NewFromFloat(300),
	}
	if got := nonIndexed.TodayValueVES(nil); !got.Equal(decimal.NewFromFloat(700)) {
		t.Errorf("expected 700, got %s", got.String())
	}

	rate := decimal.NewFromFloat(40)
	indexed := &AppliedCharge{
		IsIndexed:                            true,
		AmountDueOriginalCurrency:             decimal.NewFromFloat(100),
		AmountPaidOriginalCurrencyEquivalent: decimal.NewFromFloat(25),
	}
	if got := indexed.TodayValueVES(&rate); !got.Equal(decimal.NewFromFloat(3000)) {
		t.Errorf("expected 75 * 40 = 3000, got %s", got.String())
	}

	// No rate available falls back to the emission-time VES value.
	indexedNoRate := &AppliedCharge{
		IsIndexed:               true,
		AmountDueVESAtEmission:  decimal.NewFromFloat(4000),
		AmountPaidVES:           decimal.NewFromFloat(1000),
	}
	if got := indexedNoRate.TodayValueVES(nil); !got.Equal(decimal.NewFromFloat(3000)) {
		t.Errorf("expected fallback to emission VES value net of payments, got %s", got.String())
	}
}
