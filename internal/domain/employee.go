package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayFrequency is how often an employee is paid.
type PayFrequency string

const (
	PayFrequencyMonthly     PayFrequency = "monthly"
	PayFrequencyFortnightly PayFrequency = "fortnightly"
	PayFrequencyHourly      PayFrequency = "hourly"
)

// Department is an organisational grouping; supplemented from the original
// source's org chart (not named explicitly in the distilled ledger spec but
// required by Employee.department_id references).
type Department struct {
	ID       int32  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

func (d *Department) Validate() error {
	if d.Name == "" {
		return ErrNameRequired
	}
	return nil
}

// Position is a job title within a Department.
type Position struct {
	ID           int32  `json:"id"`
	Name         string `json:"name"`
	DepartmentID int32  `json:"departmentId"`
	IsActive     bool   `json:"isActive"`
}

func (p *Position) Validate() error {
	if p.Name == "" {
		return ErrNameRequired
	}
	if p.DepartmentID <= 0 {
		return NewBusinessRuleViolation("position_department_required", "department is required")
	}
	return nil
}

// Employee is the payroll-side symmetric counterpart of Representative.
type Employee struct {
	ID           int32  `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Identity     string `json:"identity"`
	Email        *string `json:"email,omitempty"`
	DepartmentID *int32  `json:"departmentId,omitempty"`
	PositionID   *int32  `json:"positionId,omitempty"`
	IsActive     bool    `json:"isActive"`

	PayFrequency       PayFrequency    `json:"payFrequency"`
	BaseSalaryAmount   decimal.Decimal `json:"baseSalaryAmount"`
	BaseSalaryCurrency Currency        `json:"baseSalaryCurrency"`
	HourlyRate         decimal.Decimal `json:"hourlyRate"`
	AccumulatedHours   decimal.Decimal `json:"accumulatedHours"`

	HireDate  *time.Time `json:"hireDate,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (e *Employee) Validate() error {
	if e.FirstName == "" || e.LastName == "" {
		return NewBusinessRuleViolation("employee_name_required", "first and last name are required")
	}
	if e.Identity == "" {
		return NewBusinessRuleViolation("employee_identity_required", "identity is required")
	}
	switch e.PayFrequency {
	case PayFrequencyMonthly, PayFrequencyFortnightly, PayFrequencyHourly:
	default:
		return NewBusinessRuleViolation("employee_pay_frequency_invalid", "unrecognised pay_frequency %q", e.PayFrequency)
	}
	if e.PayFrequency == PayFrequencyHourly {
		if e.HourlyRate.LessThanOrEqual(decimal.Zero) {
			return NewBusinessRuleViolation("employee_hourly_rate_required", "hourly_rate must be positive for hourly employees")
		}
	} else if !e.BaseSalaryAmount.IsPositive() {
		return NewBusinessRuleViolation("employee_base_salary_required", "base_salary_amount must be positive")
	}
	if !e.BaseSalaryCurrency.IsValid() {
		return ErrCurrencyNotSupported
	}
	return nil
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

type EmployeeFilter struct {
	DepartmentID *int32
	ActiveOnly   bool
	PayFrequency *PayFrequency
}

type EmployeeRepository interface {
	Create(emp *Employee) (*Employee, error)
	GetByID(id int32) (*Employee, error)
	List(filter EmployeeFilter) ([]*Employee, error)
	ListEligibleForRun(payFrequency PayFrequency) ([]*Employee, error)
	Update(emp *Employee) (*Employee, error)
	DecrementAccumulatedHours(id int32, hours decimal.Decimal) error
}

type DepartmentRepository interface {
	Create(dept *Department) (*Department, error)
	GetByID(id int32) (*Department, error)
	List() ([]*Department, error)
	Update(dept *Department) (*Department, error)
}

type PositionRepository interface {
	Create(pos *Position) (*Position, error)
	GetByID(id int32) (*Position, error)
	ListByDepartment(departmentID int32) ([]*Position, error)
	Update(pos *Position) (*Position, error)
}
