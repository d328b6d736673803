package domain

import "github.com/shopspring/decimal"

type ComponentType string

const (
	ComponentTypeEarning   ComponentType = "earning"
	ComponentTypeDeduction ComponentType = "deduction"
)

type CalculationType string

const (
	CalculationFixedAmount      CalculationType = "fixed_amount"
	CalculationPercentageOfBase CalculationType = "percentage_of_base"
)

// SalaryComponentDefinition is a named reusable payroll building block
// (e.g. "transportation bonus", "social security deduction").
type SalaryComponentDefinition struct {
	ID              int32           `json:"id"`
	Name            string          `json:"name"`
	ComponentType   ComponentType   `json:"componentType"`
	CalculationType CalculationType `json:"calculationType"`
	DefaultValue    decimal.Decimal `json:"defaultValue"`
	DefaultCurrency Currency        `json:"defaultCurrency"`
	IsTaxable       bool            `json:"isTaxable"`
	IsActive        bool            `json:"isActive"`
}

func (d *SalaryComponentDefinition) Validate() error {
	if d.Name == "" {
		return ErrNameRequired
	}
	switch d.ComponentType {
	case ComponentTypeEarning, ComponentTypeDeduction:
	default:
		return NewBusinessRuleViolation("salary_component_type_invalid", "unrecognised component_type %q", d.ComponentType)
	}
	switch d.CalculationType {
	case CalculationFixedAmount, CalculationPercentageOfBase:
	default:
		return NewBusinessRuleViolation("salary_component_calculation_invalid", "unrecognised calculation_type %q", d.CalculationType)
	}
	if d.CalculationType == CalculationFixedAmount && !d.DefaultCurrency.IsValid() {
		return ErrCurrencyNotSupported
	}
	return nil
}

// EmployeeSalaryComponent assigns a definition to an employee, optionally
// overriding its value/currency. Unique per (employee, definition).
type EmployeeSalaryComponent struct {
	ID              int32            `json:"id"`
	EmployeeID      int32            `json:"employeeId"`
	DefinitionID    int32            `json:"definitionId"`
	OverrideValue   *decimal.Decimal `json:"overrideValue,omitempty"`
	OverrideCurrency *Currency       `json:"overrideCurrency,omitempty"`
	IsActive        bool             `json:"isActive"`
}

// EffectiveValue resolves override-or-default value/currency per §4.8.
func (c *EmployeeSalaryComponent) EffectiveValue(def *SalaryComponentDefinition) (decimal.Decimal, Currency) {
	value := def.DefaultValue
	currency := def.DefaultCurrency
	if c.OverrideValue != nil {
		value = *c.OverrideValue
	}
	if c.OverrideCurrency != nil {
		currency = *c.OverrideCurrency
	}
	return value, currency
}

type SalaryComponentDefinitionRepository interface {
	Create(def *SalaryComponentDefinition) (*SalaryComponentDefinition, error)
	GetByID(id int32) (*SalaryComponentDefinition, error)
	List() ([]*SalaryComponentDefinition, error)
	Update(def *SalaryComponentDefinition) (*SalaryComponentDefinition, error)
}

type EmployeeSalaryComponentRepository interface {
	Create(c *EmployeeSalaryComponent) (*EmployeeSalaryComponent, error)
	ListActiveByEmployee(employeeID int32) ([]*EmployeeSalaryComponent, error)
	Update(c *EmployeeSalaryComponent) (*EmployeeSalaryComponent, error)
	Delete(id int32) error
}
