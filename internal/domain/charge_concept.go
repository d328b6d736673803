package domain

import "github.com/shopspring/decimal"

// ChargeFrequency is the billing cadence a ChargeConcept recurs on.
type ChargeFrequency string

const (
	FrequencyMonthly     ChargeFrequency = "monthly"
	FrequencyFortnightly ChargeFrequency = "fortnightly"
	FrequencyAnnual      ChargeFrequency = "annual"
	FrequencyOneShot     ChargeFrequency = "one-shot"
	FrequencyOther       ChargeFrequency = "other"
)

// ChargeConcept is a catalogue row describing a priced item (tuition, fee,
// supply) that AppliedCharges are issued against.
type ChargeConcept struct {
	ID                    int32           `json:"id"`
	Name                  string          `json:"name"`
	DefaultAmount         decimal.Decimal `json:"defaultAmount"`
	DefaultAmountCurrency Currency        `json:"defaultAmountCurrency"`
	DefaultFrequency      ChargeFrequency `json:"defaultFrequency"`
	Category              string          `json:"category"`
	IVAPercentage         decimal.Decimal `json:"ivaPercentage"`
	ApplicableGradeLevelID *int32         `json:"applicableGradeLevelId,omitempty"`
	IsActive              bool            `json:"isActive"`
}

func (c *ChargeConcept) Validate() error {
	if c.Name == "" {
		return ErrNameRequired
	}
	if len(c.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if !c.DefaultAmountCurrency.IsValid() {
		return ErrCurrencyNotSupported
	}
	if c.DefaultAmount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if c.IVAPercentage.LessThan(decimal.Zero) || c.IVAPercentage.GreaterThan(decimal.NewFromInt(1)) {
		return NewBusinessRuleViolation("charge_concept_iva_range", "iva_percentage must be between 0 and 1")
	}
	switch c.DefaultFrequency {
	case FrequencyMonthly, FrequencyFortnightly, FrequencyAnnual, FrequencyOneShot, FrequencyOther:
	default:
		return NewBusinessRuleViolation("charge_concept_frequency_invalid", "unrecognised default_frequency %q", c.DefaultFrequency)
	}
	return nil
}

// AppliesToGrade reports whether this concept applies to the given grade
// level, per the "null matches everything" rule in §4.5.
func (c *ChargeConcept) AppliesToGrade(gradeLevelID int32) bool {
	return c.ApplicableGradeLevelID == nil || *c.ApplicableGradeLevelID == gradeLevelID
}

type ChargeConceptFilter struct {
	ActiveOnly bool
	Frequency  *ChargeFrequency
	IDs        []int32
}

type ChargeConceptRepository interface {
	Create(concept *ChargeConcept) (*ChargeConcept, error)
	GetByID(id int32) (*ChargeConcept, error)
	GetByName(name string) (*ChargeConcept, error)
	List(filter ChargeConceptFilter) ([]*ChargeConcept, error)
	Update(concept *ChargeConcept) (*ChargeConcept, error)
	HasOpenAppliedCharges(id int32) (bool, error)
}
