package postgres

import (
	"context"
	"time"

	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GradeLevelRepository implements domain.GradeLevelRepository.
type GradeLevelRepository struct {
	pool *pgxpool.Pool
}

func NewGradeLevelRepository(pool *pgxpool.Pool) *GradeLevelRepository {
	return &GradeLevelRepository{pool: pool}
}

func (r *GradeLevelRepository) Create(gl *domain.GradeLevel) (*domain.GradeLevel, error) {
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO grade_levels (name, order_index, is_active) VALUES ($1, $2, $3)
		 RETURNING id, name, order_index, is_active`,
		gl.Name, gl.OrderIndex, gl.IsActive)
	return scanGradeLevel(row)
}

func (r *GradeLevelRepository) GetByID(id int32) (*domain.GradeLevel, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT id, name, order_index, is_active FROM grade_levels WHERE id = $1`, id)
	gl, err := scanGradeLevel(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrGradeLevelNotFound
	}
	return gl, err
}

func (r *GradeLevelRepository) GetByName(name string) (*domain.GradeLevel, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT id, name, order_index, is_active FROM grade_levels WHERE name = $1`, name)
	gl, err := scanGradeLevel(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrGradeLevelNotFound
	}
	return gl, err
}

func (r *GradeLevelRepository) List() ([]*domain.GradeLevel, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT id, name, order_index, is_active FROM grade_levels ORDER BY order_index ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.GradeLevel
	for rows.Next() {
		gl, err := scanGradeLevel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, gl)
	}
	return out, rows.Err()
}

func (r *GradeLevelRepository) Update(gl *domain.GradeLevel) (*domain.GradeLevel, error) {
	row := r.pool.QueryRow(context.Background(),
		`UPDATE grade_levels SET name = $2, order_index = $3, is_active = $4 WHERE id = $1
		 RETURNING id, name, order_index, is_active`,
		gl.ID, gl.Name, gl.OrderIndex, gl.IsActive)
	updated, err := scanGradeLevel(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrGradeLevelNotFound
	}
	return updated, err
}

func (r *GradeLevelRepository) HasActiveStudents(id int32) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM students WHERE grade_level_id = $1 AND is_active = true)`, id).Scan(&exists)
	return exists, err
}

func scanGradeLevel(row pgx.Row) (*domain.GradeLevel, error) {
	var gl domain.GradeLevel
	if err := row.Scan(&gl.ID, &gl.Name, &gl.OrderIndex, &gl.IsActive); err != nil {
		return nil, err
	}
	return &gl, nil
}

// ChargeConceptRepository implements domain.ChargeConceptRepository.
type ChargeConceptRepository struct {
	pool *pgxpool.Pool
}

func NewChargeConceptRepository(pool *pgxpool.Pool) *ChargeConceptRepository {
	return &ChargeConceptRepository{pool: pool}
}

func (r *ChargeConceptRepository) Create(c *domain.ChargeConcept) (*domain.ChargeConcept, error) {
	amount, err := decimalToPgNumeric(c.DefaultAmount)
	if err != nil {
		return nil, err
	}
	iva, err := decimalToPgNumeric(c.IVAPercentage)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO charge_concepts
		   (name, default_amount, default_amount_currency, default_frequency, category, iva_percentage, applicable_grade_level_id, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, name, default_amount, default_amount_currency, default_frequency, category, iva_percentage, applicable_grade_level_id, is_active`,
		c.Name, amount, string(c.DefaultAmountCurrency), string(c.DefaultFrequency), c.Category, iva, pgInt4(c.ApplicableGradeLevelID), c.IsActive)
	return scanChargeConcept(row)
}

func (r *ChargeConceptRepository) GetByID(id int32) (*domain.ChargeConcept, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT id, name, default_amount, default_amount_currency, default_frequency, category, iva_percentage, applicable_grade_level_id, is_active
		 FROM charge_concepts WHERE id = $1`, id)
	cc, err := scanChargeConcept(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrChargeConceptNotFound
	}
	return cc, err
}

func (r *ChargeConceptRepository) GetByName(name string) (*domain.ChargeConcept, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT id, name, default_amount, default_amount_currency, default_frequency, category, iva_percentage, applicable_grade_level_id, is_active
		 FROM charge_concepts WHERE name = $1`, name)
	cc, err := scanChargeConcept(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrChargeConceptNotFound
	}
	return cc, err
}

func (r *ChargeConceptRepository) List(filter domain.ChargeConceptFilter) ([]*domain.ChargeConcept, error) {
	query := `SELECT id, name, default_amount, default_amount_currency, default_frequency, category, iva_percentage, applicable_grade_level_id, is_active
	          FROM charge_concepts WHERE ($1::bool = false OR is_active = true) AND ($2::text IS NULL OR default_frequency = $2) AND ($3::int[] IS NULL OR id = ANY($3))
	          ORDER BY name ASC`
	var freq *string
	if filter.Frequency != nil {
		f := string(*filter.Frequency)
		freq = &f
	}
	var ids []int32
	if filter.IDs != nil {
		ids = filter.IDs
	}
	rows, err := r.pool.Query(context.Background(), query, filter.ActiveOnly, freq, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.ChargeConcept
	for rows.Next() {
		cc, err := scanChargeConcept(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cc)
	}
	return out, rows.Err()
}

func (r *ChargeConceptRepository) Update(c *domain.ChargeConcept) (*domain.ChargeConcept, error) {
	amount, err := decimalToPgNumeric(c.DefaultAmount)
	if err != nil {
		return nil, err
	}
	iva, err := decimalToPgNumeric(c.IVAPercentage)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(context.Background(),
		`UPDATE charge_concepts SET name = $2, default_amount = $3, default_amount_currency = $4, default_frequency = $5,
		   category = $6, iva_percentage = $7, applicable_grade_level_id = $8, is_active = $9
		 WHERE id = $1
		 RETURNING id, name, default_amount, default_amount_currency, default_frequency, category, iva_percentage, applicable_grade_level_id, is_active`,
		c.ID, c.Name, amount, string(c.DefaultAmountCurrency), string(c.DefaultFrequency), c.Category, iva, pgInt4(c.ApplicableGradeLevelID), c.IsActive)
	updated, err := scanChargeConcept(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrChargeConceptNotFound
	}
	return updated, err
}

func (r *ChargeConceptRepository) HasOpenAppliedCharges(id int32) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM applied_charges WHERE concept_id = $1 AND status IN ('pending', 'partially_paid', 'overdue'))`, id).Scan(&exists)
	return exists, err
}

func scanChargeConcept(row pgx.Row) (*domain.ChargeConcept, error) {
	var cc domain.ChargeConcept
	var amount, iva pgtype.Numeric
	var gradeLevelID pgtype.Int4
	var currency, frequency string
	if err := row.Scan(&cc.ID, &cc.Name, &amount, &currency, &frequency, &cc.Category, &iva, &gradeLevelID, &cc.IsActive); err != nil {
		return nil, err
	}
	cc.DefaultAmount = pgNumericToDecimal(amount)
	cc.IVAPercentage = pgNumericToDecimal(iva)
	cc.DefaultAmountCurrency = domain.Currency(currency)
	cc.DefaultFrequency = domain.ChargeFrequency(frequency)
	cc.ApplicableGradeLevelID = int4Ptr(gradeLevelID)
	return &cc, nil
}

// ExchangeRateRepository implements domain.ExchangeRateRepository.
type ExchangeRateRepository struct {
	pool *pgxpool.Pool
}

func NewExchangeRateRepository(pool *pgxpool.Pool) *ExchangeRateRepository {
	return &ExchangeRateRepository{pool: pool}
}

func (r *ExchangeRateRepository) Create(rate *domain.ExchangeRate) (*domain.ExchangeRate, error) {
	value, err := decimalToPgNumeric(rate.Rate)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO exchange_rates (from_currency, to_currency, rate_date, rate, created_at)
		 VALUES ($1, $2, $3, $4, now())
		 RETURNING id, from_currency, to_currency, rate_date, rate, created_at`,
		string(rate.FromCurrency), string(rate.ToCurrency), rate.RateDate, value)
	return scanExchangeRate(row)
}

func (r *ExchangeRateRepository) Update(rate *domain.ExchangeRate) (*domain.ExchangeRate, error) {
	value, err := decimalToPgNumeric(rate.Rate)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(context.Background(),
		`UPDATE exchange_rates SET rate = $2 WHERE id = $1
		 RETURNING id, from_currency, to_currency, rate_date, rate, created_at`,
		rate.ID, value)
	updated, err := scanExchangeRate(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrExchangeRateNotFound
	}
	return updated, err
}

func (r *ExchangeRateRepository) GetExact(from, to domain.Currency, date time.Time) (*domain.ExchangeRate, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT id, from_currency, to_currency, rate_date, rate, created_at FROM exchange_rates
		 WHERE from_currency = $1 AND to_currency = $2 AND rate_date = $3`,
		string(from), string(to), date)
	rate, err := scanExchangeRate(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrExchangeRateNotFound
	}
	return rate, err
}

func (r *ExchangeRateRepository) GetLatestOnOrBefore(from, to domain.Currency, date time.Time) (*domain.ExchangeRate, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT id, from_currency, to_currency, rate_date, rate, created_at FROM exchange_rates
		 WHERE from_currency = $1 AND to_currency = $2 AND rate_date <= $3
		 ORDER BY rate_date DESC, created_at DESC LIMIT 1`,
		string(from), string(to), date)
	rate, err := scanExchangeRate(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return rate, err
}

func scanExchangeRate(row pgx.Row) (*domain.ExchangeRate, error) {
	var e domain.ExchangeRate
	var rate pgtype.Numeric
	var from, to string
	if err := row.Scan(&e.ID, &from, &to, &e.RateDate, &rate, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.FromCurrency = domain.Currency(from)
	e.ToCurrency = domain.Currency(to)
	e.Rate = pgNumericToDecimal(rate)
	return &e, nil
}

// SchoolConfigurationRepository implements domain.SchoolConfigurationRepository.
// The table carries exactly one row.
type SchoolConfigurationRepository struct {
	pool *pgxpool.Pool
}

func NewSchoolConfigurationRepository(pool *pgxpool.Pool) *SchoolConfigurationRepository {
	return &SchoolConfigurationRepository{pool: pool}
}

func (r *SchoolConfigurationRepository) Get() (*domain.SchoolConfiguration, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT id, school_name, school_rif, school_address, invoice_prefix, next_internal_invoice_reference,
		        credit_note_prefix, next_credit_note_reference, default_iva_percentage, payment_due_day
		 FROM school_configuration LIMIT 1`)
	cfg, err := scanSchoolConfiguration(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrConfigurationNotFound
	}
	return cfg, err
}

func (r *SchoolConfigurationRepository) Update(cfg *domain.SchoolConfiguration) (*domain.SchoolConfiguration, error) {
	iva, err := decimalToPgNumeric(cfg.DefaultIVAPercentage)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(context.Background(),
		`UPDATE school_configuration SET school_name = $2, school_rif = $3, school_address = $4,
		   invoice_prefix = $5, next_internal_invoice_reference = $6, credit_note_prefix = $7,
		   next_credit_note_reference = $8, default_iva_percentage = $9, payment_due_day = $10
		 WHERE id = $1
		 RETURNING id, school_name, school_rif, school_address, invoice_prefix, next_internal_invoice_reference,
		           credit_note_prefix, next_credit_note_reference, default_iva_percentage, payment_due_day`,
		cfg.ID, cfg.SchoolName, cfg.SchoolRIF, cfg.SchoolAddress, cfg.InvoicePrefix, cfg.NextInternalInvoiceReference,
		cfg.CreditNotePrefix, cfg.NextCreditNoteReference, iva, pgInt4(cfg.PaymentDueDay))
	updated, err := scanSchoolConfiguration(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrConfigurationNotFound
	}
	return updated, err
}

func scanSchoolConfiguration(row pgx.Row) (*domain.SchoolConfiguration, error) {
	var cfg domain.SchoolConfiguration
	var iva pgtype.Numeric
	var dueDay pgtype.Int4
	if err := row.Scan(&cfg.ID, &cfg.SchoolName, &cfg.SchoolRIF, &cfg.SchoolAddress, &cfg.InvoicePrefix,
		&cfg.NextInternalInvoiceReference, &cfg.CreditNotePrefix, &cfg.NextCreditNoteReference, &iva, &dueDay); err != nil {
		return nil, err
	}
	cfg.DefaultIVAPercentage = pgNumericToDecimal(iva)
	cfg.PaymentDueDay = int4Ptr(dueDay)
	return &cfg, nil
}
