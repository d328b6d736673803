package postgres

import (
	"context"
	"time"

	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AppliedChargeRepository implements domain.AppliedChargeRepository.
type AppliedChargeRepository struct {
	pool *pgxpool.Pool
}

func NewAppliedChargeRepository(pool *pgxpool.Pool) *AppliedChargeRepository {
	return &AppliedChargeRepository{pool: pool}
}

const appliedChargeColumns = `id, student_id, concept_id, invoice_id, description, original_concept_amount, original_concept_currency,
	is_indexed, exchange_rate_at_emission, amount_due_original_currency, amount_due_ves_at_emission,
	amount_paid_original_currency_equivalent, amount_paid_ves, issue_date, due_date, status, created_at, updated_at`

func (r *AppliedChargeRepository) Create(c *domain.AppliedCharge) (*domain.AppliedCharge, error) {
	original, err := decimalToPgNumeric(c.OriginalConceptAmount)
	if err != nil {
		return nil, err
	}
	dueOriginal, err := decimalToPgNumeric(c.AmountDueOriginalCurrency)
	if err != nil {
		return nil, err
	}
	dueVES, err := decimalToPgNumeric(c.AmountDueVESAtEmission)
	if err != nil {
		return nil, err
	}
	paidOriginal, err := decimalToPgNumeric(c.AmountPaidOriginalCurrencyEquivalent)
	if err != nil {
		return nil, err
	}
	paidVES, err := decimalToPgNumeric(c.AmountPaidVES)
	if err != nil {
		return nil, err
	}
	rateAtEmission, err := optionalPgNumeric(c.ExchangeRateAtEmission)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO applied_charges (student_id, concept_id, invoice_id, description, original_concept_amount, original_concept_currency,
		   is_indexed, exchange_rate_at_emission, amount_due_original_currency, amount_due_ves_at_emission,
		   amount_paid_original_currency_equivalent, amount_paid_ves, issue_date, due_date, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, now(), now())
		 RETURNING `+appliedChargeColumns,
		c.StudentID, c.ConceptID, pgInt4(c.InvoiceID), c.Description, original, string(c.OriginalConceptCurrency),
		c.IsIndexed, rateAtEmission, dueOriginal, dueVES, paidOriginal, paidVES, c.IssueDate, c.DueDate, string(c.Status))
	return scanAppliedCharge(row)
}

func (r *AppliedChargeRepository) GetByID(id int32) (*domain.AppliedCharge, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+appliedChargeColumns+` FROM applied_charges WHERE id = $1`, id)
	c, err := scanAppliedCharge(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrAppliedChargeNotFound
	}
	return c, err
}

func (r *AppliedChargeRepository) List(filter domain.AppliedChargeFilter) ([]*domain.AppliedCharge, error) {
	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}
	rows, err := r.pool.Query(context.Background(),
		`SELECT ac.`+appliedChargeColumns+` FROM applied_charges ac
		 JOIN students s ON s.id = ac.student_id
		 WHERE ($1::int IS NULL OR ac.student_id = $1)
		   AND ($2::int IS NULL OR s.representative_id = $2)
		   AND ($3::int IS NULL OR ac.concept_id = $3)
		   AND ($4::text IS NULL OR ac.status = $4)
		   AND ($5::bool = false OR ac.status IN ('pending', 'partially_paid', 'overdue'))
		   AND ($6::date IS NULL OR ac.issue_date >= $6)
		   AND ($7::date IS NULL OR ac.issue_date <= $7)
		   AND ($8::int IS NULL OR ac.invoice_id = $8)
		 ORDER BY ac.due_date ASC, ac.issue_date ASC`,
		filter.StudentID, filter.RepresentativeID, filter.ConceptID, status, filter.OpenOnly,
		filter.IssueDateFrom, filter.IssueDateTo, filter.InvoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppliedChargeRows(rows)
}

func (r *AppliedChargeRepository) ListOpenForRepresentativeOrdered(representativeID int32) ([]*domain.AppliedCharge, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT ac.`+appliedChargeColumns+` FROM applied_charges ac
		 JOIN students s ON s.id = ac.student_id
		 WHERE s.representative_id = $1 AND ac.status IN ('pending', 'partially_paid', 'overdue')
		 ORDER BY ac.due_date ASC, ac.issue_date ASC`, representativeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppliedChargeRows(rows)
}

func (r *AppliedChargeRepository) ExistsForStudentConceptInRange(studentID, conceptID int32, from, to time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM applied_charges WHERE student_id = $1 AND concept_id = $2 AND status != 'cancelled'
		   AND issue_date >= $3 AND issue_date <= $4)`,
		studentID, conceptID, from, to).Scan(&exists)
	return exists, err
}

func (r *AppliedChargeRepository) Update(c *domain.AppliedCharge) (*domain.AppliedCharge, error) {
	dueOriginal, err := decimalToPgNumeric(c.AmountDueOriginalCurrency)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(context.Background(),
		`UPDATE applied_charges SET description = $2, due_date = $3, status = $4, invoice_id = $5,
		   amount_due_original_currency = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING `+appliedChargeColumns,
		c.ID, c.Description, c.DueDate, string(c.Status), pgInt4(c.InvoiceID), dueOriginal)
	updated, err := scanAppliedCharge(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrAppliedChargeNotFound
	}
	return updated, err
}

func (r *AppliedChargeRepository) UpdatePaymentFields(charges []*domain.AppliedCharge) error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
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
			`UPDATE applied_charges SET amount_paid_original_currency_equivalent = $2, amount_paid_ves = $3, status = $4, updated_at = now()
			 WHERE id = $1`,
			c.ID, paidOriginal, paidVES, string(c.Status)); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *AppliedChargeRepository) ClearInvoiceLink(invoiceID int32) error {
	_, err := r.pool.Exec(context.Background(), `UPDATE applied_charges SET invoice_id = NULL, updated_at = now() WHERE invoice_id = $1`, invoiceID)
	return err
}

func scanAppliedChargeRows(rows pgx.Rows) ([]*domain.AppliedCharge, error) {
	var out []*domain.AppliedCharge
	for rows.Next() {
		c, err := scanAppliedCharge(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanAppliedCharge(row pgx.Row) (*domain.AppliedCharge, error) {
	var c domain.AppliedCharge
	var invoiceID pgtype.Int4
	var originalAmount, rateAtEmission, dueOriginal, dueVES, paidOriginal, paidVES pgtype.Numeric
	var originalCurrency, status string
	if err := row.Scan(&c.ID, &c.StudentID, &c.ConceptID, &invoiceID, &c.Description, &originalAmount, &originalCurrency,
		&c.IsIndexed, &rateAtEmission, &dueOriginal, &dueVES, &paidOriginal, &paidVES, &c.IssueDate, &c.DueDate, &status,
		&c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.InvoiceID = int4Ptr(invoiceID)
	c.OriginalConceptAmount = pgNumericToDecimal(originalAmount)
	c.OriginalConceptCurrency = domain.Currency(originalCurrency)
	c.ExchangeRateAtEmission = optionalDecimal(rateAtEmission)
	c.AmountDueOriginalCurrency = pgNumericToDecimal(dueOriginal)
	c.AmountDueVESAtEmission = pgNumericToDecimal(dueVES)
	c.AmountPaidOriginalCurrencyEquivalent = pgNumericToDecimal(paidOriginal)
	c.AmountPaidVES = pgNumericToDecimal(paidVES)
	c.Status = domain.AppliedChargeStatus(status)
	return &c, nil
}
