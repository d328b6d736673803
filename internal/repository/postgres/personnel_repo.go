package postgres

import (
	"context"

	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// DepartmentRepository implements domain.DepartmentRepository.
type DepartmentRepository struct {
	pool *pgxpool.Pool
}

func NewDepartmentRepository(pool *pgxpool.Pool) *DepartmentRepository {
	return &DepartmentRepository{pool: pool}
}

func (r *DepartmentRepository) Create(d *domain.Department) (*domain.Department, error) {
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO departments (name, is_active) VALUES ($1, $2) RETURNING id, name, is_active`, d.Name, d.IsActive)
	return scanDepartment(row)
}

func (r *DepartmentRepository) GetByID(id int32) (*domain.Department, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT id, name, is_active FROM departments WHERE id = $1`, id)
	d, err := scanDepartment(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrDepartmentNotFound
	}
	return d, err
}

func (r *DepartmentRepository) List() ([]*domain.Department, error) {
	rows, err := r.pool.Query(context.Background(), `SELECT id, name, is_active FROM departments ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DepartmentRepository) Update(d *domain.Department) (*domain.Department, error) {
	row := r.pool.QueryRow(context.Background(),
		`UPDATE departments SET name = $2, is_active = $3 WHERE id = $1 RETURNING id, name, is_active`, d.ID, d.Name, d.IsActive)
	updated, err := scanDepartment(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrDepartmentNotFound
	}
	return updated, err
}

func scanDepartment(row pgx.Row) (*domain.Department, error) {
	var d domain.Department
	if err := row.Scan(&d.ID, &d.Name, &d.IsActive); err != nil {
		return nil, err
	}
	return &d, nil
}

// PositionRepository implements domain.PositionRepository.
type PositionRepository struct {
	pool *pgxpool.Pool
}

func NewPositionRepository(pool *pgxpool.Pool) *PositionRepository {
	return &PositionRepository{pool: pool}
}

func (r *PositionRepository) Create(p *domain.Position) (*domain.Position, error) {
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO positions (name, department_id, is_active) VALUES ($1, $2, $3) RETURNING id, name, department_id, is_active`,
		p.Name, p.DepartmentID, p.IsActive)
	return scanPosition(row)
}

func (r *PositionRepository) GetByID(id int32) (*domain.Position, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT id, name, department_id, is_active FROM positions WHERE id = $1`, id)
	p, err := scanPosition(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrPositionNotFound
	}
	return p, err
}

func (r *PositionRepository) ListByDepartment(departmentID int32) ([]*domain.Position, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT id, name, department_id, is_active FROM positions WHERE department_id = $1 ORDER BY name ASC`, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PositionRepository) Update(p *domain.Position) (*domain.Position, error) {
	row := r.pool.QueryRow(context.Background(),
		`UPDATE positions SET name = $2, department_id = $3, is_active = $4 WHERE id = $1 RETURNING id, name, department_id, is_active`,
		p.ID, p.Name, p.DepartmentID, p.IsActive)
	updated, err := scanPosition(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrPositionNotFound
	}
	return updated, err
}

func scanPosition(row pgx.Row) (*domain.Position, error) {
	var p domain.Position
	if err := row.Scan(&p.ID, &p.Name, &p.DepartmentID, &p.IsActive); err != nil {
		return nil, err
	}
	return &p, nil
}

// EmployeeRepository implements domain.EmployeeRepository.
type EmployeeRepository struct {
	pool *pgxpool.Pool
}

func NewEmployeeRepository(pool *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

const employeeColumns = `id, first_name, last_name, identity, email, department_id, position_id, is_active,
	pay_frequency, base_salary_amount, base_salary_currency, hourly_rate, accumulated_hours, hire_date, created_at, updated_at`

func (r *EmployeeRepository) Create(e *domain.Employee) (*domain.Employee, error) {
	base, err := decimalToPgNumeric(e.BaseSalaryAmount)
	if err != nil {
		return nil, err
	}
	hourly, err := decimalToPgNumeric(e.HourlyRate)
	if err != nil {
		return nil, err
	}
	hours, err := decimalToPgNumeric(e.AccumulatedHours)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO employees (first_name, last_name, identity, email, department_id, position_id, is_active,
		   pay_frequency, base_salary_amount, base_salary_currency, hourly_rate, accumulated_hours, hire_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now(), now())
		 RETURNING `+employeeColumns,
		e.FirstName, e.LastName, e.Identity, pgText(e.Email), pgInt4(e.DepartmentID), pgInt4(e.PositionID), e.IsActive,
		string(e.PayFrequency), base, string(e.BaseSalaryCurrency), hourly, hours, e.HireDate)
	return scanEmployee(row)
}

func (r *EmployeeRepository) GetByID(id int32) (*domain.Employee, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	e, err := scanEmployee(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrEmployeeNotFound
	}
	return e, err
}

func (r *EmployeeRepository) List(filter domain.EmployeeFilter) ([]*domain.Employee, error) {
	var freq *string
	if filter.PayFrequency != nil {
		f := string(*filter.PayFrequency)
		freq = &f
	}
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+employeeColumns+` FROM employees
		 WHERE ($1::bool = false OR is_active = true)
		   AND ($2::int IS NULL OR department_id = $2)
		   AND ($3::text IS NULL OR pay_frequency = $3)
		 ORDER BY last_name ASC, first_name ASC`,
		filter.ActiveOnly, filter.DepartmentID, freq)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EmployeeRepository) ListEligibleForRun(payFrequency domain.PayFrequency) ([]*domain.Employee, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+employeeColumns+` FROM employees WHERE is_active = true AND pay_frequency = $1 ORDER BY last_name ASC`, string(payFrequency))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EmployeeRepository) Update(e *domain.Employee) (*domain.Employee, error) {
	base, err := decimalToPgNumeric(e.BaseSalaryAmount)
	if err != nil {
		return nil, err
	}
	hourly, err := decimalToPgNumeric(e.HourlyRate)
	if err != nil {
		return nil, err
	}
	hours, err := decimalToPgNumeric(e.AccumulatedHours)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(context.Background(),
		`UPDATE employees SET first_name = $2, last_name = $3, identity = $4, email = $5, department_id = $6, position_id = $7,
		   is_active = $8, pay_frequency = $9, base_salary_amount = $10, base_salary_currency = $11, hourly_rate = $12,
		   accumulated_hours = $13, hire_date = $14, updated_at = now()
		 WHERE id = $1
		 RETURNING `+employeeColumns,
		e.ID, e.FirstName, e.LastName, e.Identity, pgText(e.Email), pgInt4(e.DepartmentID), pgInt4(e.PositionID), e.IsActive,
		string(e.PayFrequency), base, string(e.BaseSalaryCurrency), hourly, hours, e.HireDate)
	updated, err := scanEmployee(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrEmployeeNotFound
	}
	return updated, err
}

func (r *EmployeeRepository) DecrementAccumulatedHours(id int32, hours decimal.Decimal) error {
	value, err := decimalToPgNumeric(hours)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(context.Background(),
		`UPDATE employees SET accumulated_hours = accumulated_hours - $2, updated_at = now() WHERE id = $1`, id, value)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var e domain.Employee
	var email pgtype.Text
	var departmentID, positionID pgtype.Int4
	var payFrequency, currency string
	var base, hourly, hours pgtype.Numeric
	if err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Identity, &email, &departmentID, &positionID, &e.IsActive,
		&payFrequency, &base, &currency, &hourly, &hours, &e.HireDate, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Email = textPtr(email)
	e.DepartmentID = int4Ptr(departmentID)
	e.PositionID = int4Ptr(positionID)
	e.PayFrequency = domain.PayFrequency(payFrequency)
	e.BaseSalaryAmount = pgNumericToDecimal(base)
	e.BaseSalaryCurrency = domain.Currency(currency)
	e.HourlyRate = pgNumericToDecimal(hourly)
	e.AccumulatedHours = pgNumericToDecimal(hours)
	return &e, nil
}

// SalaryComponentDefinitionRepository implements domain.SalaryComponentDefinitionRepository.
type SalaryComponentDefinitionRepository struct {
	pool *pgxpool.Pool
}

func NewSalaryComponentDefinitionRepository(pool *pgxpool.Pool) *SalaryComponentDefinitionRepository {
	return &SalaryComponentDefinitionRepository{pool: pool}
}

const salaryComponentDefinitionColumns = `id, name, component_type, calculation_type, default_value, default_currency, is_taxable, is_active`

func (r *SalaryComponentDefinitionRepository) Create(d *domain.SalaryComponentDefinition) (*domain.SalaryComponentDefinition, error) {
	value, err := decimalToPgNumeric(d.DefaultValue)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO salary_component_definitions (name, component_type, calculation_type, default_value, default_currency, is_taxable, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+salaryComponentDefinitionColumns,
		d.Name, string(d.ComponentType), string(d.CalculationType), value, string(d.DefaultCurrency), d.IsTaxable, d.IsActive)
	return scanSalaryComponentDefinition(row)
}

func (r *SalaryComponentDefinitionRepository) GetByID(id int32) (*domain.SalaryComponentDefinition, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+salaryComponentDefinitionColumns+` FROM salary_component_definitions WHERE id = $1`, id)
	d, err := scanSalaryComponentDefinition(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrSalaryComponentNotFound
	}
	return d, err
}

func (r *SalaryComponentDefinitionRepository) List() ([]*domain.SalaryComponentDefinition, error) {
	rows, err := r.pool.Query(context.Background(), `SELECT `+salaryComponentDefinitionColumns+` FROM salary_component_definitions ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.SalaryComponentDefinition
	for rows.Next() {
		d, err := scanSalaryComponentDefinition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *SalaryComponentDefinitionRepository) Update(d *domain.SalaryComponentDefinition) (*domain.SalaryComponentDefinition, error) {
	value, err := decimalToPgNumeric(d.DefaultValue)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(context.Background(),
		`UPDATE salary_component_definitions SET name = $2, component_type = $3, calculation_type = $4, default_value = $5,
		   default_currency = $6, is_taxable = $7, is_active = $8
		 WHERE id = $1
		 RETURNING `+salaryComponentDefinitionColumns,
		d.ID, d.Name, string(d.ComponentType), string(d.CalculationType), value, string(d.DefaultCurrency), d.IsTaxable, d.IsActive)
	updated, err := scanSalaryComponentDefinition(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrSalaryComponentNotFound
	}
	return updated, err
}

func scanSalaryComponentDefinition(row pgx.Row) (*domain.SalaryComponentDefinition, error) {
	var d domain.SalaryComponentDefinition
	var value pgtype.Numeric
	var componentType, calculationType, currency string
	if err := row.Scan(&d.ID, &d.Name, &componentType, &calculationType, &value, &currency, &d.IsTaxable, &d.IsActive); err != nil {
		return nil, err
	}
	d.ComponentType = domain.ComponentType(componentType)
	d.CalculationType = domain.CalculationType(calculationType)
	d.DefaultValue = pgNumericToDecimal(value)
	d.DefaultCurrency = domain.Currency(currency)
	return &d, nil
}

// EmployeeSalaryComponentRepository implements domain.EmployeeSalaryComponentRepository.
type EmployeeSalaryComponentRepository struct {
	pool *pgxpool.Pool
}

func NewEmployeeSalaryComponentRepository(pool *pgxpool.Pool) *EmployeeSalaryComponentRepository {
	return &EmployeeSalaryComponentRepository{pool: pool}
}

func (r *EmployeeSalaryComponentRepository) Create(c *domain.EmployeeSalaryComponent) (*domain.EmployeeSalaryComponent, error) {
	override, err := optionalPgNumeric(c.OverrideValue)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO employee_salary_components (employee_id, definition_id, override_value, override_currency, is_active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, employee_id, definition_id, override_value, override_currency, is_active`,
		c.EmployeeID, c.DefinitionID, override, optionalCurrencyText(c.OverrideCurrency), c.IsActive)
	return scanEmployeeSalaryComponent(row)
}

func (r *EmployeeSalaryComponentRepository) ListActiveByEmployee(employeeID int32) ([]*domain.EmployeeSalaryComponent, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT id, employee_id, definition_id, override_value, override_currency, is_active
		 FROM employee_salary_components WHERE employee_id = $1 AND is_active = true`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.EmployeeSalaryComponent
	for rows.Next() {
		c, err := scanEmployeeSalaryComponent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *EmployeeSalaryComponentRepository) Update(c *domain.EmployeeSalaryComponent) (*domain.EmployeeSalaryComponent, error) {
	override, err := optionalPgNumeric(c.OverrideValue)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(context.Background(),
		`UPDATE employee_salary_components SET override_value = $2, override_currency = $3, is_active = $4 WHERE id = $1
		 RETURNING id, employee_id, definition_id, override_value, override_currency, is_active`,
		c.ID, override, optionalCurrencyText(c.OverrideCurrency), c.IsActive)
	updated, err := scanEmployeeSalaryComponent(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrSalaryComponentNotFound
	}
	return updated, err
}

func (r *EmployeeSalaryComponentRepository) Delete(id int32) error {
	tag, err := r.pool.Exec(context.Background(), `DELETE FROM employee_salary_components WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSalaryComponentNotFound
	}
	return nil
}

func scanEmployeeSalaryComponent(row pgx.Row) (*domain.EmployeeSalaryComponent, error) {
	var c domain.EmployeeSalaryComponent
	var override pgtype.Numeric
	var overrideCurrency pgtype.Text
	if err := row.Scan(&c.ID, &c.EmployeeID, &c.DefinitionID, &override, &overrideCurrency, &c.IsActive); err != nil {
		return nil, err
	}
	c.OverrideValue = optionalDecimal(override)
	if overrideCurrency.Valid {
		cur := domain.Currency(overrideCurrency.String)
		c.OverrideCurrency = &cur
	}
	return &c, nil
}

func optionalCurrencyText(c *domain.Currency) pgtype.Text {
	if c == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: string(*c), Valid: true}
}
