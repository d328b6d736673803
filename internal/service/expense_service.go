package service

import (
	"time"

	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/shopspring/decimal"
)

// ExpenseService records and tracks operational outlays independently of the
// representative-billing and payroll ledgers (§4.9 supplemented feature).
type ExpenseService struct {
	repo        domain.ExpenseRepository
	categoryRepo domain.ExpenseCategoryRepository
	supplierRepo domain.SupplierRepository
	currency    *CurrencyService
}

func NewExpenseService(
	repo domain.ExpenseRepository,
	categoryRepo domain.ExpenseCategoryRepository,
	supplierRepo domain.SupplierRepository,
	currency *CurrencyService,
) *ExpenseService {
	return &ExpenseService{repo: repo, categoryRepo: categoryRepo, supplierRepo: supplierRepo, currency: currency}
}

// RecordExpense validates and converts an outlay to its VES equivalent.
func (s *ExpenseService) RecordExpense(expense *domain.Expense) (*domain.Expense, error) {
	if err := expense.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.GetByID(expense.CategoryID); err != nil {
		return nil, err
	}
	if expense.SupplierID != nil {
		if _, err := s.supplierRepo.GetByID(*expense.SupplierID); err != nil {
			return nil, err
		}
	}
	amountVES, _, err := s.currency.ConvertToVES(expense.AmountOriginal, expense.CurrencyOriginal, expense.ExpenseDate)
	if err != nil {
		return nil, err
	}
	expense.AmountVES = amountVES
	expense.AmountPaidVES = decimal.Zero
	expense.PaymentStatus = domain.ExpensePaymentPending
	return s.repo.Create(expense)
}

func (s *ExpenseService) Get(id int32) (*domain.Expense, error) { return s.repo.GetByID(id) }

func (s *ExpenseService) List(filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	return s.repo.List(filter)
}

// RecordPayment records a payment against an expense and recomputes its
// payment status.
func (s *ExpenseService) RecordPayment(expenseID int32, paymentDate time.Time, amountVES decimal.Decimal, method domain.PaymentMethod, notes *string) (*domain.ExpensePayment, error) {
	expense, err := s.repo.GetByID(expenseID)
	if err != nil {
		return nil, err
	}
	if expense.PaymentStatus == domain.ExpensePaymentCancelled {
		return nil, domain.NewBusinessRuleViolation("expense_cancelled", "expense is cancelled")
	}
	balance := domain.ClampNonNegative(domain.Round2(expense.AmountVES.Sub(expense.AmountPaidVES)))
	if !domain.ApproxLTE(amountVES, balance) {
		return nil, domain.NewBusinessRuleViolation("expense_payment_exceeds_balance", "payment exceeds the expense's outstanding balance")
	}

	payment := &domain.ExpensePayment{
		ExpenseID:   expenseID,
		PaymentDate: paymentDate,
		AmountVES:   amountVES,
		Method:      method,
		Notes:       notes,
	}

	expense.AmountPaidVES = domain.Round2(expense.AmountPaidVES.Add(amountVES))
	expense.PaymentStatus = expense.DeriveStatus()

	created, err := s.repo.RecordPaymentAtomic(payment, expense)
	if err != nil {
		return nil, domain.ErrInternalError
	}
	return created, nil
}

// ExpenseCategoryService is the catalogue CRUD surface for expense categories.
type ExpenseCategoryService struct {
	repo domain.ExpenseCategoryRepository
}

func NewExpenseCategoryService(repo domain.ExpenseCategoryRepository) *ExpenseCategoryService {
	return &ExpenseCategoryService{repo: repo}
}

func (s *ExpenseCategoryService) Create(c *domain.ExpenseCategory) (*domain.ExpenseCategory, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(c)
}

func (s *ExpenseCategoryService) List() ([]*domain.ExpenseCategory, error) { return s.repo.List() }

// SupplierService is the catalogue CRUD surface for suppliers.
type SupplierService struct {
	repo domain.SupplierRepository
}

func NewSupplierService(repo domain.SupplierRepository) *SupplierService {
	return &SupplierService{repo: repo}
}

func (s *SupplierService) Create(sup *domain.Supplier) (*domain.Supplier, error) {
	if err := sup.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(sup)
}

func (s *SupplierService) List() ([]*domain.Supplier, error) { return s.repo.List() }
