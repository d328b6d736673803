package service

import (
	"testing"
	"time"

	"github.com/aluvasquez/schoolledger/internal/clock"
	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/aluvasquez/schoolledger/internal/testutil"
	"github.com/shopspring/decimal"
)

func newExpenseServiceFixture(t *testing.T) (*ExpenseService, *testutil.MockExpenseCategoryRepository, *testutil.MockExchangeRateRepository) {
	t.Helper()
	categoryRepo := testutil.NewMockExpenseCategoryRepository()
	supplierRepo := testutil.NewMockSupplierRepository()
	expenseRepo := testutil.NewMockExpenseRepository(categoryRepo)
	rateRepo := testutil.NewMockExchangeRateRepository()
	currency := NewCurrencyService(rateRepo, clock.Real{})
	svc := NewExpenseService(expenseRepo, categoryRepo, supplierRepo, currency)
	return svc, categoryRepo, rateRepo
}

func TestExpenseService_RecordExpense_ConvertsToVES(t *testing.T) {
	svc, categoryRepo, rateRepo := newExpenseServiceFixture(t)
	category, _ := categoryRepo.Create(&domain.ExpenseCategory{Name: "Supplies"})
	date := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	rateRepo.Create(&domain.ExchangeRate{FromCurrency: domain.USD, ToCurrency: domain.VES, RateDate: date, Rate: decimal.NewFromFloat(40)})

	expense, err := svc.RecordExpense(&domain.Expense{
		Description: "Paper", CategoryID: category.ID, ExpenseDate: date,
		AmountOriginal: decimal.NewFromFloat(10), CurrencyOriginal: domain.USD,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !expense.AmountVES.Equal(decimal.NewFromFloat(400)) {
		t.Errorf("expected 400 VES, got %s", expense.AmountVES.String())
	}
	if expense.PaymentStatus != domain.ExpensePaymentPending {
		t.Errorf("expected a new expense to be pending, got %s", expense.PaymentStatus)
	}
}

func TestExpenseService_RecordPayment_FullyPaysExpense(t *testing.T) {
	svc, categoryRepo, _ := newExpenseServiceFixture(t)
	category, _ := categoryRepo.Create(&domain.ExpenseCategory{Name: "Supplies"})
	date := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	expense, err := svc.RecordExpense(&domain.Expense{
		Description: "Paper", CategoryID: category.ID, ExpenseDate: date,
		AmountOriginal: decimal.NewFromFloat(200), CurrencyOriginal: domain.VES,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.RecordPayment(expense.ID, date, decimal.NewFromFloat(200), "cash", nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	updated, err := svc.Get(expense.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.PaymentStatus != domain.ExpensePaymentPaid {
		t.Errorf("expected paid status, got %s", updated.PaymentStatus)
	}
}

func TestExpenseService_RecordPayment_RejectsExceedingBalance(t *testing.T) {
	svc, categoryRepo, _ := newExpenseServiceFixture(t)
	category, _ := categoryRepo.Create(&domain.ExpenseCategory{Name: "Supplies"})
	date := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	expense, _ := svc.RecordExpense(&domain.Expense{
		Description: "Paper", CategoryID: category.ID, ExpenseDate: date,
		AmountOriginal: decimal.NewFromFloat(100), CurrencyOriginal: domain.VES,
	})

	if _, err := svc.RecordPayment(expense.ID, date, decimal.NewFromFloat(500), "cash", nil); err == nil {
		t.Fatal("expected an error paying more than the expense's outstanding balance")
	}
}
