package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Representative is a parent/guardian account: the billing party for its
// Students and the party a Payment is recorded against.
type Representative struct {
	ID                   int32           `json:"id"`
	FirstName            string          `json:"firstName"`
	LastName             string          `json:"lastName"`
	IdentificationType   string          `json:"identificationType"`
	IdentificationNumber string          `json:"identificationNumber"`
	Email                string          `json:"email"`
	Phones               []string        `json:"phones,omitempty"`
	Address              string          `json:"address,omitempty"`
	RIF                  *string         `json:"rif,omitempty"`
	AvailableCreditVES   decimal.Decimal `json:"availableCreditVes"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

func (r *Representative) Validate() error {
	if r.FirstName == "" || r.LastName == "" {
		return NewBusinessRuleViolation("representative_name_required", "first and last name are required")
	}
	if len(r.FirstName) > MaxNameLength || len(r.LastName) > MaxNameLength {
		return ErrNameTooLong
	}
	if r.IdentificationType == "" || r.IdentificationNumber == "" {
		return NewBusinessRuleViolation("representative_identification_required", "identification type and number are required")
	}
	if r.Email == "" {
		return NewBusinessRuleViolation("representative_email_required", "email is required")
	}
	if r.AvailableCreditVES.IsNegative() {
		return NewBusinessRuleViolation("representative_credit_negative", "available credit cannot be negative")
	}
	return nil
}

// FullName is a convenience accessor used by invoice/payslip snapshots.
func (r *Representative) FullName() string {
	return r.FirstName + " " + r.LastName
}

type RepresentativeFilter struct {
	Search *string
}

type RepresentativeRepository interface {
	Create(rep *Representative) (*Representative, error)
	GetByID(id int32) (*Representative, error)
	GetByEmail(email string) (*Representative, error)
	GetByIdentification(idType, idNumber string) (*Representative, error)
	List(filter RepresentativeFilter) ([]*Representative, error)
	Update(rep *Representative) (*Representative, error)
	UpdateAvailableCredit(id int32, newBalance decimal.Decimal) error
	HasStudents(id int32) (bool, error)
}
