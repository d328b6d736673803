package postgres

import (
	"context"
	"encoding/json"

	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PayrollRunRepository implements domain.PayrollRunRepository.
type PayrollRunRepository struct {
	pool *pgxpool.Pool
}

func NewPayrollRunRepository(pool *pgxpool.Pool) *PayrollRunRepository {
	return &PayrollRunRepository{pool: pool}
}

const payrollRunColumns = `id, name, period_start, period_end, pay_frequency_covered, exchange_rate_usd_ves, status,
	confirming_user_id, confirmed_at, notes, created_at, updated_at`

func (r *PayrollRunRepository) Create(run *domain.PayrollRun) (*domain.PayrollRun, error) {
	rate, err := optionalPgNumeric(run.ExchangeRateUSDVES)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO payroll_runs (name, period_start, period_end, pay_frequency_covered, exchange_rate_usd_ves, status,
		   confirming_user_id, confirmed_at, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		 RETURNING `+payrollRunColumns,
		run.Name, run.PeriodStart, run.PeriodEnd, string(run.PayFrequencyCovered), rate, string(run.Status),
		pgInt4(run.ConfirmingUserID), run.ConfirmedAt, run.Notes)
	return scanPayrollRun(row)
}

func (r *PayrollRunRepository) GetByID(id int32) (*domain.PayrollRun, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+payrollRunColumns+` FROM payroll_runs WHERE id = $1`, id)
	run, err := scanPayrollRun(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrPayrollRunNotFound
	}
	return run, err
}

func (r *PayrollRunRepository) List() ([]*domain.PayrollRun, error) {
	rows, err := r.pool.Query(context.Background(), `SELECT `+payrollRunColumns+` FROM payroll_runs ORDER BY period_start DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.PayrollRun
	for rows.Next() {
		run, err := scanPayrollRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (r *PayrollRunRepository) Update(run *domain.PayrollRun) (*domain.PayrollRun, error) {
	rate, err := optionalPgNumeric(run.ExchangeRateUSDVES)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(context.Background(),
		`UPDATE payroll_runs SET name = $2, period_start = $3, period_end = $4, pay_frequency_covered = $5,
		   exchange_rate_usd_ves = $6, status = $7, confirming_user_id = $8, confirmed_at = $9, notes = $10, updated_at = now()
		 WHERE id = $1
		 RETURNING `+payrollRunColumns,
		run.ID, run.Name, run.PeriodStart, run.PeriodEnd, string(run.PayFrequencyCovered), rate, string(run.Status),
		pgInt4(run.ConfirmingUserID), run.ConfirmedAt, run.Notes)
	updated, err := scanPayrollRun(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrPayrollRunNotFound
	}
	return updated, err
}

func (r *PayrollRunRepository) Delete(id int32) error {
	tag, err := r.pool.Exec(context.Background(), `DELETE FROM payroll_runs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPayrollRunNotFound
	}
	return nil
}

func (r *PayrollRunRepository) ConfirmAtomic(run *domain.PayrollRun, details []*domain.PayrollRunEmployeeDetail, hoursDecrement map[int32]decimal.Decimal) (*domain.PayrollRun, []*domain.PayrollRunEmployeeDetail, error) {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM payroll_run_employee_details WHERE payroll_run_id = $1`, run.ID); err != nil {
		return nil, nil, err
	}

	rate, err := optionalPgNumeric(run.ExchangeRateUSDVES)
	if err != nil {
		return nil, nil, err
	}
	runRow := tx.QueryRow(ctx,
		`UPDATE payroll_runs SET status = $2, confirming_user_id = $3, confirmed_at = $4, exchange_rate_usd_ves = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING `+payrollRunColumns,
		run.ID, string(run.Status), pgInt4(run.ConfirmingUserID), run.ConfirmedAt, rate)
	confirmedRun, err := scanPayrollRun(runRow)
	if err != nil {
		return nil, nil, err
	}

	persisted := make([]*domain.PayrollRunEmployeeDetail, 0, len(details))
	for _, d := range details {
		persistedDetail, err := insertPayrollRunEmployeeDetail(ctx, tx, d)
		if err != nil {
			return nil, nil, err
		}
		persisted = append(persisted, persistedDetail)
	}

	for employeeID, hours := range hoursDecrement {
		value, err := decimalToPgNumeric(hours)
		if err != nil {
			return nil, nil, err
		}
		if _, err := tx.Exec(ctx,
			`UPDATE employees SET accumulated_hours = accumulated_hours - $2, updated_at = now() WHERE id = $1`, employeeID, value); err != nil {
			return nil, nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return confirmedRun, persisted, nil
}

func insertPayrollRunEmployeeDetail(ctx context.Context, tx pgx.Tx, d *domain.PayrollRunEmployeeDetail) (*domain.PayrollRunEmployeeDetail, error) {
	baseSalary, err := decimalToPgNumeric(d.BaseSalaryVES)
	if err != nil {
		return nil, err
	}
	earnings, err := decimalToPgNumeric(d.TotalEarningsVES)
	if err != nil {
		return nil, err
	}
	deductions, err := decimalToPgNumeric(d.TotalDeductionsVES)
	if err != nil {
		return nil, err
	}
	net, err := decimalToPgNumeric(d.NetAmountToPayVES)
	if err != nil {
		return nil, err
	}
	breakdown, err := json.Marshal(d.ComponentBreakdown)
	if err != nil {
		return nil, err
	}
	hours, err := optionalPgNumeric(d.HoursProcessed)
	if err != nil {
		return nil, err
	}
	row := tx.QueryRow(ctx,
		`INSERT INTO payroll_run_employee_details (payroll_run_id, employee_id, base_salary_ves, total_earnings_ves,
		   total_deductions_ves, net_amount_to_pay_ves, component_breakdown, hours_processed, processing_note)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, payroll_run_id, employee_id, base_salary_ves, total_earnings_ves, total_deductions_ves,
		   net_amount_to_pay_ves, component_breakdown, hours_processed, processing_note`,
		d.PayrollRunID, d.EmployeeID, baseSalary, earnings, deductions, net, breakdown, hours, pgText(d.ProcessingNote))
	return scanPayrollRunEmployeeDetail(row)
}

func (r *PayrollRunRepository) ListDetailsByRun(runID int32) ([]*domain.PayrollRunEmployeeDetail, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT id, payroll_run_id, employee_id, base_salary_ves, total_earnings_ves, total_deductions_ves,
		   net_amount_to_pay_ves, component_breakdown, hours_processed, processing_note
		 FROM payroll_run_employee_details WHERE payroll_run_id = $1 ORDER BY employee_id ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.PayrollRunEmployeeDetail
	for rows.Next() {
		d, err := scanPayrollRunEmployeeDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PayrollRunRepository) GetDetailByRunAndEmployee(runID, employeeID int32) (*domain.PayrollRunEmployeeDetail, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT id, payroll_run_id, employee_id, base_salary_ves, total_earnings_ves, total_deductions_ves,
		   net_amount_to_pay_ves, component_breakdown, hours_processed, processing_note
		 FROM payroll_run_employee_details WHERE payroll_run_id = $1 AND employee_id = $2`, runID, employeeID)
	d, err := scanPayrollRunEmployeeDetail(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrPayrollRunDetailNotFound
	}
	return d, err
}

func scanPayrollRunEmployeeDetail(row pgx.Row) (*domain.PayrollRunEmployeeDetail, error) {
	var d domain.PayrollRunEmployeeDetail
	var baseSalary, earnings, deductions, net, hours pgtype.Numeric
	var breakdown []byte
	var note pgtype.Text
	if err := row.Scan(&d.ID, &d.PayrollRunID, &d.EmployeeID, &baseSalary, &earnings, &deductions, &net,
		&breakdown, &hours, &note); err != nil {
		return nil, err
	}
	d.BaseSalaryVES = pgNumericToDecimal(baseSalary)
	d.TotalEarningsVES = pgNumericToDecimal(earnings)
	d.TotalDeductionsVES = pgNumericToDecimal(deductions)
	d.NetAmountToPayVES = pgNumericToDecimal(net)
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &d.ComponentBreakdown); err != nil {
			return nil, err
		}
	}
	d.HoursProcessed = optionalDecimal(hours)
	d.ProcessingNote = textPtr(note)
	return &d, nil
}

func scanPayrollRun(row pgx.Row) (*domain.PayrollRun, error) {
	var run domain.PayrollRun
	var rate pgtype.Numeric
	var frequency, status string
	var confirmingUserID pgtype.Int4
	if err := row.Scan(&run.ID, &run.Name, &run.PeriodStart, &run.PeriodEnd, &frequency, &rate, &status,
		&confirmingUserID, &run.ConfirmedAt, &run.Notes, &run.CreatedAt, &run.UpdatedAt); err != nil {
		return nil, err
	}
	run.PayFrequencyCovered = domain.PayFrequency(frequency)
	run.ExchangeRateUSDVES = optionalDecimal(rate)
	run.Status = domain.PayrollRunStatus(status)
	run.ConfirmingUserID = int4Ptr(confirmingUserID)
	return &run, nil
}

// EmployeePayableItemRepository implements domain.EmployeePayableItemRepository.
type EmployeePayableItemRepository struct {
	pool *pgxpool.Pool
}

func NewEmployeePayableItemRepository(pool *pgxpool.Pool) *EmployeePayableItemRepository {
	return &EmployeePayableItemRepository{pool: pool}
}

const employeePayableItemColumns = `id, employee_id, source_type, source_id, description, amount_original, currency_original,
	amount_ves_at_creation, amount_paid_ves, status, created_at`

func (r *EmployeePayableItemRepository) Create(item *domain.EmployeePayableItem) (*domain.EmployeePayableItem, error) {
	amountOriginal, err := decimalToPgNumeric(item.AmountOriginal)
	if err != nil {
		return nil, err
	}
	amountVES, err := decimalToPgNumeric(item.AmountVESAtCreation)
	if err != nil {
		return nil, err
	}
	paidVES, err := decimalToPgNumeric(item.AmountPaidVES)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO employee_payable_items (employee_id, source_type, source_id, description, amount_original, currency_original,
		   amount_ves_at_creation, amount_paid_ves, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		 RETURNING `+employeePayableItemColumns,
		item.EmployeeID, string(item.SourceType), item.SourceID, item.Description, amountOriginal,
		string(item.CurrencyOriginal), amountVES, paidVES, string(item.Status))
	return scanEmployeePayableItem(row)
}

func (r *EmployeePayableItemRepository) GetByID(id int32) (*domain.EmployeePayableItem, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+employeePayableItemColumns+` FROM employee_payable_items WHERE id = $1`, id)
	item, err := scanEmployeePayableItem(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrEmployeePayableItemNotFound
	}
	return item, err
}

func (r *EmployeePayableItemRepository) ListOpenByEmployee(employeeID int32) ([]*domain.EmployeePayableItem, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+employeePayableItemColumns+` FROM employee_payable_items
		 WHERE employee_id = $1 AND status IN ('pending', 'partially_paid')
		 ORDER BY created_at ASC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.EmployeePayableItem
	for rows.Next() {
		item, err := scanEmployeePayableItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *EmployeePayableItemRepository) CreateBatch(items []*domain.EmployeePayableItem) ([]*domain.EmployeePayableItem, error) {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	persisted := make([]*domain.EmployeePayableItem, 0, len(items))
	for _, item := range items {
		amountOriginal, err := decimalToPgNumeric(item.AmountOriginal)
		if err != nil {
			return nil, err
		}
		amountVES, err := decimalToPgNumeric(item.AmountVESAtCreation)
		if err != nil {
			return nil, err
		}
		paidVES, err := decimalToPgNumeric(item.AmountPaidVES)
		if err != nil {
			return nil, err
		}
		row := tx.QueryRow(ctx,
			`INSERT INTO employee_payable_items (employee_id, source_type, source_id, description, amount_original, currency_original,
			   amount_ves_at_creation, amount_paid_ves, status, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
			 RETURNING `+employeePayableItemColumns,
			item.EmployeeID, string(item.SourceType), item.SourceID, item.Description, amountOriginal,
			string(item.CurrencyOriginal), amountVES, paidVES, string(item.Status))
		created, err := scanEmployeePayableItem(row)
		if err != nil {
			return nil, err
		}
		persisted = append(persisted, created)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return persisted, nil
}

func (r *EmployeePayableItemRepository) UpdatePaymentFields(items []*domain.EmployeePayableItem) error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	for _, item := range items {
		paidVES, err := decimalToPgNumeric(item.AmountPaidVES)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`UPDATE employee_payable_items SET amount_paid_ves = $2, status = $3 WHERE id = $1`,
			item.ID, paidVES, string(item.Status)); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func scanEmployeePayableItem(row pgx.Row) (*domain.EmployeePayableItem, error) {
	var item domain.EmployeePayableItem
	var amountOriginal, amountVES, paidVES pgtype.Numeric
	var sourceType, currency, status string
	if err := row.Scan(&item.ID, &item.EmployeeID, &sourceType, &item.SourceID, &item.Description, &amountOriginal,
		&currency, &amountVES, &paidVES, &status, &item.CreatedAt); err != nil {
		return nil, err
	}
	item.SourceType = domain.PayableSourceType(sourceType)
	item.AmountOriginal = pgNumericToDecimal(amountOriginal)
	item.CurrencyOriginal = domain.Currency(currency)
	item.AmountVESAtCreation = pgNumericToDecimal(amountVES)
	item.AmountPaidVES = pgNumericToDecimal(paidVES)
	item.Status = domain.PayableItemStatus(status)
	return &item, nil
}

// EmployeeBalanceAdjustmentRepository implements domain.EmployeeBalanceAdjustmentRepository.
type EmployeeBalanceAdjustmentRepository struct {
	pool *pgxpool.Pool
}

func NewEmployeeBalanceAdjustmentRepository(pool *pgxpool.Pool) *EmployeeBalanceAdjustmentRepository {
	return &EmployeeBalanceAdjustmentRepository{pool: pool}
}

func (r *EmployeeBalanceAdjustmentRepository) CreateAtomic(adj *domain.EmployeeBalanceAdjustment, updatedItem *domain.EmployeePayableItem) (*domain.EmployeeBalanceAdjustment, error) {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	amount, err := decimalToPgNumeric(adj.AmountOriginal)
	if err != nil {
		return nil, err
	}
	row := tx.QueryRow(ctx,
		`INSERT INTO employee_balance_adjustments (employee_id, type, description, amount_original, currency_original, target_payable_item_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())
		 RETURNING id, employee_id, type, description, amount_original, currency_original, target_payable_item_id, created_at`,
		adj.EmployeeID, string(adj.Type), adj.Description, amount, string(adj.CurrencyOriginal), pgInt4(adj.TargetPayableItemID))
	created, err := scanEmployeeBalanceAdjustment(row)
	if err != nil {
		return nil, err
	}

	if updatedItem != nil {
		paidVES, err := decimalToPgNumeric(updatedItem.AmountPaidVES)
		if err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx,
			`UPDATE employee_payable_items SET amount_paid_ves = $2, status = $3 WHERE id = $1`,
			updatedItem.ID, paidVES, string(updatedItem.Status)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *EmployeeBalanceAdjustmentRepository) ListByEmployee(employeeID int32) ([]*domain.EmployeeBalanceAdjustment, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT id, employee_id, type, description, amount_original, currency_original, target_payable_item_id, created_at
		 FROM employee_balance_adjustments WHERE employee_id = $1 ORDER BY created_at DESC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.EmployeeBalanceAdjustment
	for rows.Next() {
		a, err := scanEmployeeBalanceAdjustment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanEmployeeBalanceAdjustment(row pgx.Row) (*domain.EmployeeBalanceAdjustment, error) {
	var a domain.EmployeeBalanceAdjustment
	var amount pgtype.Numeric
	var adjType, currency string
	var targetItemID pgtype.Int4
	if err := row.Scan(&a.ID, &a.EmployeeID, &adjType, &a.Description, &amount, &currency, &targetItemID, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Type = domain.AdjustmentType(adjType)
	a.AmountOriginal = pgNumericToDecimal(amount)
	a.CurrencyOriginal = domain.Currency(currency)
	a.TargetPayableItemID = int4Ptr(targetItemID)
	return &a, nil
}

// EmployeePaymentRepository implements domain.EmployeePaymentRepository.
type EmployeePaymentRepository struct {
	pool *pgxpool.Pool
}

func NewEmployeePaymentRepository(pool *pgxpool.Pool) *EmployeePaymentRepository {
	return &EmployeePaymentRepository{pool: pool}
}

const employeePaymentColumns = `id, employee_id, payment_date, amount_paid, currency_paid, exchange_rate_applied, amount_paid_ves_equivalent, method, created_at`

func (r *EmployeePaymentRepository) GetByID(id int32) (*domain.EmployeePayment, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+employeePaymentColumns+` FROM employee_payments WHERE id = $1`, id)
	p, err := scanEmployeePayment(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrEmployeePaymentNotFound
	}
	return p, err
}

func (r *EmployeePaymentRepository) ListByEmployee(employeeID int32) ([]*domain.EmployeePayment, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+employeePaymentColumns+` FROM employee_payments WHERE employee_id = $1 ORDER BY payment_date DESC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.EmployeePayment
	for rows.Next() {
		p, err := scanEmployeePayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *EmployeePaymentRepository) GetAllocationsByPayment(paymentID int32) ([]*domain.EmployeePaymentAllocation, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT id, employee_payment_id, employee_payable_item_id, amount_allocated_ves, created_at
		 FROM employee_payment_allocations WHERE employee_payment_id = $1 ORDER BY created_at ASC`, paymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.EmployeePaymentAllocation
	for rows.Next() {
		a, err := scanEmployeePaymentAllocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *EmployeePaymentRepository) RecordAtomic(payment *domain.EmployeePayment, allocations []*domain.EmployeePaymentAllocation, updatedItems []*domain.EmployeePayableItem, slip *domain.Payslip) (*domain.EmployeePayment, *domain.Payslip, error) {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	amount, err := decimalToPgNumeric(payment.AmountPaid)
	if err != nil {
		return nil, nil, err
	}
	vesEquivalent, err := decimalToPgNumeric(payment.AmountPaidVESEquivalent)
	if err != nil {
		return nil, nil, err
	}
	rate, err := optionalPgNumeric(payment.ExchangeRateApplied)
	if err != nil {
		return nil, nil, err
	}
	row := tx.QueryRow(ctx,
		`INSERT INTO employee_payments (employee_id, payment_date, amount_paid, currency_paid, exchange_rate_applied, amount_paid_ves_equivalent, method, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		 RETURNING `+employeePaymentColumns,
		payment.EmployeeID, payment.PaymentDate, amount, string(payment.CurrencyPaid), rate, vesEquivalent, string(payment.Method))
	createdPayment, err := scanEmployeePayment(row)
	if err != nil {
		return nil, nil, err
	}

	for _, a := range allocations {
		allocated, err := decimalToPgNumeric(a.AmountAllocatedVES)
		if err != nil {
			return nil, nil, err
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO employee_payment_allocations (employee_payment_id, employee_payable_item_id, amount_allocated_ves, created_at)
			 VALUES ($1, $2, $3, now())`, createdPayment.ID, a.EmployeePayableItemID, allocated); err != nil {
			return nil, nil, err
		}
	}

	for _, item := range updatedItems {
		paidVES, err := decimalToPgNumeric(item.AmountPaidVES)
		if err != nil {
			return nil, nil, err
		}
		if _, err := tx.Exec(ctx,
			`UPDATE employee_payable_items SET amount_paid_ves = $2, status = $3 WHERE id = $1`,
			item.ID, paidVES, string(item.Status)); err != nil {
			return nil, nil, err
		}
	}

	breakdown, err := json.Marshal(slip.ComponentBreakdown)
	if err != nil {
		return nil, nil, err
	}
	base, err := decimalToPgNumeric(slip.BaseSalaryVES)
	if err != nil {
		return nil, nil, err
	}
	earnings, err := decimalToPgNumeric(slip.TotalEarningsVES)
	if err != nil {
		return nil, nil, err
	}
	deductions, err := decimalToPgNumeric(slip.TotalDeductionsVES)
	if err != nil {
		return nil, nil, err
	}
	net, err := decimalToPgNumeric(slip.NetAmountVES)
	if err != nil {
		return nil, nil, err
	}
	slipRow := tx.QueryRow(ctx,
		`INSERT INTO payslips (employee_payment_id, employee_id, payroll_run_id, period_start, period_end, is_advance,
		   base_salary_ves, total_earnings_ves, total_deductions_ves, net_amount_ves, component_breakdown, issued_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
		 RETURNING id, employee_payment_id, employee_id, payroll_run_id, period_start, period_end, is_advance,
		   base_salary_ves, total_earnings_ves, total_deductions_ves, net_amount_ves, component_breakdown, issued_at`,
		createdPayment.ID, slip.EmployeeID, pgInt4(slip.PayrollRunID), slip.PeriodStart, slip.PeriodEnd, slip.IsAdvance,
		base, earnings, deductions, net, breakdown)
	createdSlip, err := scanPayslip(slipRow)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return createdPayment, createdSlip, nil
}

func scanEmployeePaymentAllocation(row pgx.Row) (*domain.EmployeePaymentAllocation, error) {
	var a domain.EmployeePaymentAllocation
	var amount pgtype.Numeric
	if err := row.Scan(&a.ID, &a.EmployeePaymentID, &a.EmployeePayableItemID, &amount, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.AmountAllocatedVES = pgNumericToDecimal(amount)
	return &a, nil
}

func scanEmployeePayment(row pgx.Row) (*domain.EmployeePayment, error) {
	var p domain.EmployeePayment
	var amount, rate, vesEquivalent pgtype.Numeric
	var currency, method string
	if err := row.Scan(&p.ID, &p.EmployeeID, &p.PaymentDate, &amount, &currency, &rate, &vesEquivalent, &method, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.AmountPaid = pgNumericToDecimal(amount)
	p.CurrencyPaid = domain.Currency(currency)
	p.ExchangeRateApplied = optionalDecimal(rate)
	p.AmountPaidVESEquivalent = pgNumericToDecimal(vesEquivalent)
	p.Method = domain.PaymentMethod(method)
	return &p, nil
}

// PayslipRepository implements domain.PayslipRepository.
type PayslipRepository struct {
	pool *pgxpool.Pool
}

func NewPayslipRepository(pool *pgxpool.Pool) *PayslipRepository {
	return &PayslipRepository{pool: pool}
}

const payslipColumns = `id, employee_payment_id, employee_id, payroll_run_id, period_start, period_end, is_advance,
	base_salary_ves, total_earnings_ves, total_deductions_ves, net_amount_ves, component_breakdown, issued_at`

func (r *PayslipRepository) GetByID(id int32) (*domain.Payslip, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+payslipColumns+` FROM payslips WHERE id = $1`, id)
	s, err := scanPayslip(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrPayslipNotFound
	}
	return s, err
}

func (r *PayslipRepository) GetByEmployeePayment(paymentID int32) (*domain.Payslip, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+payslipColumns+` FROM payslips WHERE employee_payment_id = $1`, paymentID)
	s, err := scanPayslip(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrPayslipNotFound
	}
	return s, err
}

func (r *PayslipRepository) ListByEmployee(employeeID int32) ([]*domain.Payslip, error) {
	rows, err := r.pool.Query(context.Background(), `SELECT `+payslipColumns+` FROM payslips WHERE employee_id = $1 ORDER BY issued_at DESC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Payslip
	for rows.Next() {
		s, err := scanPayslip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanPayslip(row pgx.Row) (*domain.Payslip, error) {
	var s domain.Payslip
	var payrollRunID pgtype.Int4
	var base, earnings, deductions, net pgtype.Numeric
	var breakdown []byte
	if err := row.Scan(&s.ID, &s.EmployeePaymentID, &s.EmployeeID, &payrollRunID, &s.PeriodStart, &s.PeriodEnd, &s.IsAdvance,
		&base, &earnings, &deductions, &net, &breakdown, &s.IssuedAt); err != nil {
		return nil, err
	}
	s.PayrollRunID = int4Ptr(payrollRunID)
	s.BaseSalaryVES = pgNumericToDecimal(base)
	s.TotalEarningsVES = pgNumericToDecimal(earnings)
	s.TotalDeductionsVES = pgNumericToDecimal(deductions)
	s.NetAmountVES = pgNumericToDecimal(net)
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &s.ComponentBreakdown); err != nil {
			return nil, err
		}
	}
	return &s, nil
}
