package domain

import (
	"testing"
	"time"
)

func TestPayrollRunValidate(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	valid := &PayrollRun{Name: "January", PeriodStart: start, PeriodEnd: end, PayFrequencyCovered: PayFrequencyMonthly}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	noName := &PayrollRun{PeriodStart: start, PeriodEnd: end, PayFrequencyCovered: PayFrequencyMonthly}
	if err := noName.Validate(); err == nil {
		t.Error("expected an error for a missing name")
	}

	badPeriod := &PayrollRun{Name: "January", PeriodStart: end, PeriodEnd: start, PayFrequencyCovered: PayFrequencyMonthly}
	if err := badPeriod.Validate(); err == nil {
		t.Error("expected an error when period_start is not before period_end")
	}

	badFrequency := &PayrollRun{Name: "January", PeriodStart: start, PeriodEnd: end, PayFrequencyCovered: "weekly"}
	if err := badFrequency.Validate(); err == nil {
		t.Error("expected an error for an unrecognised pay frequency")
	}
}

func TestPayrollRunCanTransitionTo(t *testing.T) {
	cases := []struct {
		from PayrollRunStatus
		to   PayrollRunStatus
		want bool
	}{
		{PayrollStatusDraft, PayrollStatusConfirmed, true},
		{PayrollStatusDraft, PayrollStatusCancelled, true},
		{PayrollStatusDraft, PayrollStatusPaidOut, false},
		{PayrollStatusConfirmed, PayrollStatusPaidOut, true},
		{PayrollStatusConfirmed, PayrollStatusCancelled, true},
		{PayrollStatusConfirmed, PayrollStatusDraft, false},
		{PayrollStatusPaidOut, PayrollStatusCancelled, true},
		{PayrollStatusPaidOut, PayrollStatusConfirmed, false},
		{PayrollStatusCancelled, PayrollStatusDraft, false},
		{PayrollStatusCancelled, PayrollStatusConfirmed, false},
	}
	for _, c := range cases {
		run := &PayrollRun{Status: c.from}
		if got := run.CanTransitionTo(c.to); got != c.want {
			t.Errorf("%s -> %s: expected %v, got %v", c.from, c.to, c.want, got)
		}
	}
}
