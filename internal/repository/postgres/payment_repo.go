package postgres

import (
	"context"

	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PaymentRepository implements domain.PaymentRepository.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `id, representative_id, payment_date, amount_paid, currency_paid, exchange_rate_applied, amount_paid_ves_equivalent, method, reference, notes, created_at`

func (r *PaymentRepository) GetByID(id int32) (*domain.Payment, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	p, err := scanPayment(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrPaymentNotFound
	}
	return p, err
}

func (r *PaymentRepository) List(filter domain.PaymentFilter) ([]*domain.Payment, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+paymentColumns+` FROM payments
		 WHERE ($1::int IS NULL OR representative_id = $1)
		   AND ($2::date IS NULL OR payment_date >= $2)
		   AND ($3::date IS NULL OR payment_date <= $3)
		 ORDER BY payment_date DESC, created_at DESC`,
		filter.RepresentativeID, filter.DateFrom, filter.DateTo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPaymentRows(rows)
}

func (r *PaymentRepository) ListByRepresentative(representativeID int32) ([]*domain.Payment, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+paymentColumns+` FROM payments WHERE representative_id = $1 ORDER BY payment_date DESC`, representativeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPaymentRows(rows)
}

func (r *PaymentRepository) ListWithPositiveRemainder(representativeID int32) ([]*domain.Payment, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT p.`+paymentColumns+` FROM payments p
		 WHERE p.representative_id = $1
		   AND p.amount_paid_ves_equivalent > COALESCE((SELECT SUM(amount_allocated_ves) FROM payment_allocations pa WHERE pa.payment_id = p.id), 0)
		 ORDER BY p.payment_date ASC, p.created_at ASC`, representativeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPaymentRows(rows)
}

func (r *PaymentRepository) GetAllocationsByPayment(paymentID int32) ([]*domain.PaymentAllocation, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT id, payment_id, applied_charge_id, amount_allocated_ves, created_at FROM payment_allocations WHERE payment_id = $1 ORDER BY created_at ASC`,
		paymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAllocationRows(rows)
}

func (r *PaymentRepository) GetAllocationsByCharge(chargeID int32) ([]*domain.PaymentAllocation, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT id, payment_id, applied_charge_id, amount_allocated_ves, created_at FROM payment_allocations WHERE applied_charge_id = $1 ORDER BY created_at ASC`,
		chargeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAllocationRows(rows)
}

func (r *PaymentRepository) SumAllocations(paymentID int32) (decimal.Decimal, error) {
	var sum pgtype.Numeric
	err := r.pool.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(amount_allocated_ves), 0) FROM payment_allocations WHERE payment_id = $1`, paymentID).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(sum), nil
}

func (r *PaymentRepository) RecordPaymentAtomic(payment *domain.Payment, allocations []*domain.PaymentAllocation, updatedCharges []*domain.AppliedCharge) (*domain.Payment, []*domain.PaymentAllocation, error) {
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
	rateApplied, err := optionalPgNumeric(payment.ExchangeRateApplied)
	if err != nil {
		return nil, nil, err
	}
	row := tx.QueryRow(ctx,
		`INSERT INTO payments (representative_id, payment_date, amount_paid, currency_paid, exchange_rate_applied, amount_paid_ves_equivalent, method, reference, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		 RETURNING `+paymentColumns,
		payment.RepresentativeID, payment.PaymentDate, amount, string(payment.CurrencyPaid), rateApplied, vesEquivalent,
		string(payment.Method), pgText(payment.Reference), pgText(payment.Notes))
	created, err := scanPayment(row)
	if err != nil {
		return nil, nil, err
	}

	persistedAllocations := make([]*domain.PaymentAllocation, 0, len(allocations))
	for _, a := range allocations {
		allocated, err := decimalToPgNumeric(a.AmountAllocatedVES)
		if err != nil {
			return nil, nil, err
		}
		allocRow := tx.QueryRow(ctx,
			`INSERT INTO payment_allocations (payment_id, applied_charge_id, amount_allocated_ves, created_at)
			 VALUES ($1, $2, $3, now())
			 RETURNING id, payment_id, applied_charge_id, amount_allocated_ves, created_at`,
			created.ID, a.AppliedChargeID, allocated)
		persisted, err := scanAllocation(allocRow)
		if err != nil {
			return nil, nil, err
		}
		persistedAllocations = append(persistedAllocations, persisted)
	}

	if err := updateChargesInTx(ctx, tx, updatedCharges); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return created, persistedAllocations, nil
}

func (r *PaymentRepository) ApplyCreditAtomic(allocations []*domain.PaymentAllocation, updatedCharges []*domain.AppliedCharge) error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, a := range allocations {
		allocated, err := decimalToPgNumeric(a.AmountAllocatedVES)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO payment_allocations (payment_id, applied_charge_id, amount_allocated_ves, created_at) VALUES ($1, $2, $3, now())`,
			a.PaymentID, a.AppliedChargeID, allocated); err != nil {
			return err
		}
	}

	if err := updateChargesInTx(ctx, tx, updatedCharges); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func updateChargesInTx(ctx context.Context, tx pgx.Tx, charges []*domain.AppliedCharge) error {
	for _, c := range charges {
		paidOriginal, err := decimalToPgNumeric(c.AmountPaidOriginalCurrencyEquivalent)
		if err != nil {
			return err
		}
		paidVES, err := decimalToPgNumeric(c.AmountPaidVES)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`UPDATE applied_charges SET amount_paid_original_currency_equivalent = $2, amount_paid_ves = $3, status = $4, updated_at = now() WHERE id = $1`,
			c.ID, paidOriginal, paidVES, string(c.Status)); err != nil {
			return err
		}
	}
	return nil
}

func scanPaymentRows(rows pgx.Rows) ([]*domain.Payment, error) {
	var out []*domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	var amount, rate, vesEquivalent pgtype.Numeric
	var currency, method string
	var reference, notes pgtype.Text
	if err := row.Scan(&p.ID, &p.RepresentativeID, &p.PaymentDate, &amount, &currency, &rate, &vesEquivalent,
		&method, &reference, &notes, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Method = domain.PaymentMethod(method)
	p.AmountPaid = pgNumericToDecimal(amount)
	p.CurrencyPaid = domain.Currency(currency)
	p.ExchangeRateApplied = optionalDecimal(rate)
	p.AmountPaidVESEquivalent = pgNumericToDecimal(vesEquivalent)
	p.Reference = textPtr(reference)
	p.Notes = textPtr(notes)
	return &p, nil
}

func scanAllocationRows(rows pgx.Rows) ([]*domain.PaymentAllocation, error) {
	var out []*domain.PaymentAllocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAllocation(row pgx.Row) (*domain.PaymentAllocation, error) {
	var a domain.PaymentAllocation
	var amount pgtype.Numeric
	if err := row.Scan(&a.ID, &a.PaymentID, &a.AppliedChargeID, &amount, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.AmountAllocatedVES = pgNumericToDecimal(amount)
	return &a, nil
}
