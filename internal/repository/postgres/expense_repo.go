package postgres

import (
	"context"
	"time"

	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExpenseCategoryRepository implements domain.ExpenseCategoryRepository.
type ExpenseCategoryRepository struct {
	pool *pgxpool.Pool
}

func NewExpenseCategoryRepository(pool *pgxpool.Pool) *ExpenseCategoryRepository {
	return &ExpenseCategoryRepository{pool: pool}
}

func (r *ExpenseCategoryRepository) Create(c *domain.ExpenseCategory) (*domain.ExpenseCategory, error) {
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO expense_categories (name, is_salary) VALUES ($1, $2) RETURNING id, name, is_salary`, c.Name, c.IsSalary)
	return scanExpenseCategory(row)
}

func (r *ExpenseCategoryRepository) GetByID(id int32) (*domain.ExpenseCategory, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT id, name, is_salary FROM expense_categories WHERE id = $1`, id)
	c, err := scanExpenseCategory(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrExpenseCategoryNotFound
	}
	return c, err
}

func (r *ExpenseCategoryRepository) List() ([]*domain.ExpenseCategory, error) {
	rows, err := r.pool.Query(context.Background(), `SELECT id, name, is_salary FROM expense_categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.ExpenseCategory
	for rows.Next() {
		c, err := scanExpenseCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanExpenseCategory(row pgx.Row) (*domain.ExpenseCategory, error) {
	var c domain.ExpenseCategory
	if err := row.Scan(&c.ID, &c.Name, &c.IsSalary); err != nil {
		return nil, err
	}
	return &c, nil
}

// SupplierRepository implements domain.SupplierRepository.
type SupplierRepository struct {
	pool *pgxpool.Pool
}

func NewSupplierRepository(pool *pgxpool.Pool) *SupplierRepository {
	return &SupplierRepository{pool: pool}
}

func (r *SupplierRepository) Create(s *domain.Supplier) (*domain.Supplier, error) {
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO suppliers (name, rif, contact) VALUES ($1, $2, $3) RETURNING id, name, rif, contact`,
		s.Name, pgText(s.RIF), pgText(s.Contact))
	return scanSupplier(row)
}

func (r *SupplierRepository) GetByID(id int32) (*domain.Supplier, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT id, name, rif, contact FROM suppliers WHERE id = $1`, id)
	s, err := scanSupplier(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrSupplierNotFound
	}
	return s, err
}

func (r *SupplierRepository) List() ([]*domain.Supplier, error) {
	rows, err := r.pool.Query(context.Background(), `SELECT id, name, rif, contact FROM suppliers ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSupplier(row pgx.Row) (*domain.Supplier, error) {
	var s domain.Supplier
	var rif, contact pgtype.Text
	if err := row.Scan(&s.ID, &s.Name, &rif, &contact); err != nil {
		return nil, err
	}
	s.RIF = textPtr(rif)
	s.Contact = textPtr(contact)
	return &s, nil
}

// ExpenseRepository implements domain.ExpenseRepository.
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

const expenseColumns = `id, description, category_id, supplier_id, expense_date, amount_original, currency_original,
	amount_ves, amount_paid_ves, payment_status, recorded_by_user_id, created_at, updated_at`

func (r *ExpenseRepository) Create(e *domain.Expense) (*domain.Expense, error) {
	amountOriginal, err := decimalToPgNumeric(e.AmountOriginal)
	if err != nil {
		return nil, err
	}
	amountVES, err := decimalToPgNumeric(e.AmountVES)
	if err != nil {
		return nil, err
	}
	paidVES, err := decimalToPgNumeric(e.AmountPaidVES)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO expenses (description, category_id, supplier_id, expense_date, amount_original, currency_original,
		   amount_ves, amount_paid_ves, payment_status, recorded_by_user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		 RETURNING `+expenseColumns,
		e.Description, e.CategoryID, pgInt4(e.SupplierID), e.ExpenseDate, amountOriginal, string(e.CurrencyOriginal),
		amountVES, paidVES, string(e.PaymentStatus), e.RecordedByUserID)
	return scanExpense(row)
}

func (r *ExpenseRepository) GetByID(id int32) (*domain.Expense, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id)
	e, err := scanExpense(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrExpenseNotFound
	}
	return e, err
}

func (r *ExpenseRepository) List(filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}
	rows, err := r.pool.Query(context.Background(),
		`SELECT e.`+expenseColumns+` FROM expenses e
		 JOIN expense_categories ec ON ec.id = e.category_id
		 WHERE ($1::date IS NULL OR e.expense_date >= $1)
		   AND ($2::date IS NULL OR e.expense_date <= $2)
		   AND ($3::int IS NULL OR e.category_id = $3)
		   AND ($4::int IS NULL OR e.supplier_id = $4)
		   AND ($5::text IS NULL OR e.payment_status = $5)
		   AND ($6::text IS NULL OR e.description ILIKE '%' || $6 || '%')
		   AND ($7::bool = false OR ec.is_salary = false)
		 ORDER BY e.expense_date DESC, e.id DESC`,
		filter.DateFrom, filter.DateTo, filter.CategoryID, filter.SupplierID, status, filter.SearchDescription, filter.ExcludeSalaries)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *ExpenseRepository) Update(e *domain.Expense) (*domain.Expense, error) {
	row := r.pool.QueryRow(context.Background(),
		`UPDATE expenses SET description = $2, category_id = $3, supplier_id = $4, expense_date = $5, payment_status = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING `+expenseColumns,
		e.ID, e.Description, e.CategoryID, pgInt4(e.SupplierID), e.ExpenseDate, string(e.PaymentStatus))
	updated, err := scanExpense(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrExpenseNotFound
	}
	return updated, err
}

func (r *ExpenseRepository) RecordPaymentAtomic(payment *domain.ExpensePayment, updatedExpense *domain.Expense) (*domain.ExpensePayment, error) {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	amount, err := decimalToPgNumeric(payment.AmountVES)
	if err != nil {
		return nil, err
	}
	row := tx.QueryRow(ctx,
		`INSERT INTO expense_payments (expense_id, payment_date, amount_ves, method, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, now())
		 RETURNING id, expense_id, payment_date, amount_ves, method, notes, created_at`,
		payment.ExpenseID, payment.PaymentDate, amount, string(payment.Method), pgText(payment.Notes))
	created, err := scanExpensePayment(row)
	if err != nil {
		return nil, err
	}

	paidVES, err := decimalToPgNumeric(updatedExpense.AmountPaidVES)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE expenses SET amount_paid_ves = $2, payment_status = $3, updated_at = now() WHERE id = $1`,
		updatedExpense.ID, paidVES, string(updatedExpense.PaymentStatus)); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *ExpenseRepository) ListPaymentsByExpense(expenseID int32) ([]*domain.ExpensePayment, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT id, expense_id, payment_date, amount_ves, method, notes, created_at FROM expense_payments WHERE expense_id = $1 ORDER BY payment_date ASC`, expenseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.ExpensePayment
	for rows.Next() {
		p, err := scanExpensePayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ExpenseRepository) SummaryByCategory(dateFrom, dateTo time.Time, excludeSalaries bool) ([]domain.ExpenseSummaryByCategory, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT ec.id, ec.name, COALESCE(SUM(e.amount_ves), 0), COUNT(e.id)
		 FROM expense_categories ec
		 LEFT JOIN expenses e ON e.category_id = ec.id AND e.expense_date >= $1 AND e.expense_date <= $2 AND e.payment_status != 'cancelled'
		 WHERE ($3::bool = false OR ec.is_salary = false)
		 GROUP BY ec.id, ec.name
		 ORDER BY ec.name ASC`, dateFrom, dateTo, excludeSalaries)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.ExpenseSummaryByCategory
	for rows.Next() {
		var s domain.ExpenseSummaryByCategory
		var total pgtype.Numeric
		if err := rows.Scan(&s.CategoryID, &s.CategoryName, &total, &s.Count); err != nil {
			return nil, err
		}
		s.TotalVES = pgNumericToDecimal(total)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ExpenseRepository) SummaryBySupplier(dateFrom, dateTo time.Time, excludeSalaries bool) ([]domain.ExpenseSummaryBySupplier, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT s.id, s.name, COALESCE(SUM(e.amount_ves), 0), COUNT(e.id)
		 FROM suppliers s
		 JOIN expenses e ON e.supplier_id = s.id
		 JOIN expense_categories ec ON ec.id = e.category_id
		 WHERE e.expense_date >= $1 AND e.expense_date <= $2 AND e.payment_status != 'cancelled'
		   AND ($3::bool = false OR ec.is_salary = false)
		 GROUP BY s.id, s.name
		 ORDER BY s.name ASC`, dateFrom, dateTo, excludeSalaries)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.ExpenseSummaryBySupplier
	for rows.Next() {
		var s domain.ExpenseSummaryBySupplier
		var total pgtype.Numeric
		if err := rows.Scan(&s.SupplierID, &s.SupplierName, &total, &s.Count); err != nil {
			return nil, err
		}
		s.TotalVES = pgNumericToDecimal(total)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ExpenseRepository) Trend(dateFrom, dateTo time.Time, granularity string, excludeSalaries bool) ([]domain.ExpenseTrendPoint, error) {
	trunc := "month"
	if granularity == "day" || granularity == "week" || granularity == "year" {
		trunc = granularity
	}
	rows, err := r.pool.Query(context.Background(),
		`SELECT to_char(date_trunc($1, e.expense_date), 'YYYY-MM-DD') AS period, COALESCE(SUM(e.amount_ves), 0)
		 FROM expenses e
		 JOIN expense_categories ec ON ec.id = e.category_id
		 WHERE e.expense_date >= $2 AND e.expense_date <= $3 AND e.payment_status != 'cancelled'
		   AND ($4::bool = false OR ec.is_salary = false)
		 GROUP BY period ORDER BY period ASC`, trunc, dateFrom, dateTo, excludeSalaries)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.ExpenseTrendPoint
	for rows.Next() {
		var p domain.ExpenseTrendPoint
		var total pgtype.Numeric
		if err := rows.Scan(&p.Period, &total); err != nil {
			return nil, err
		}
		p.TotalVES = pgNumericToDecimal(total)
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var e domain.Expense
	var supplierID pgtype.Int4
	var amountOriginal, amountVES, paidVES pgtype.Numeric
	var currency, status string
	if err := row.Scan(&e.ID, &e.Description, &e.CategoryID, &supplierID, &e.ExpenseDate, &amountOriginal, &currency,
		&amountVES, &paidVES, &status, &e.RecordedByUserID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.SupplierID = int4Ptr(supplierID)
	e.AmountOriginal = pgNumericToDecimal(amountOriginal)
	e.CurrencyOriginal = domain.Currency(currency)
	e.AmountVES = pgNumericToDecimal(amountVES)
	e.AmountPaidVES = pgNumericToDecimal(paidVES)
	e.PaymentStatus = domain.ExpensePaymentStatus(status)
	return &e, nil
}

func scanExpensePayment(row pgx.Row) (*domain.ExpensePayment, error) {
	var p domain.ExpensePayment
	var amount pgtype.Numeric
	var method string
	var notes pgtype.Text
	if err := row.Scan(&p.ID, &p.ExpenseID, &p.PaymentDate, &amount, &method, &notes, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.AmountVES = pgNumericToDecimal(amount)
	p.Method = domain.PaymentMethod(method)
	p.Notes = textPtr(notes)
	return &p, nil
}
