package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Student belongs to a Representative and carries optional scholarship terms
// consulted by the Scholarship & Indexation Kernel.
type Student struct {
	ID                        int32           `json:"id"`
	FirstName                 string          `json:"firstName"`
	LastName                  string          `json:"lastName"`
	Identity                  *string         `json:"identity,omitempty"`
	BirthDate                 *time.Time      `json:"birthDate,omitempty"`
	GradeLevelID              int32           `json:"gradeLevelId"`
	RepresentativeID          int32           `json:"representativeId"`
	IsActive                  bool            `json:"isActive"`
	HasScholarship            bool            `json:"hasScholarship"`
	ScholarshipPercentage     decimal.Decimal `json:"scholarshipPercentage"`
	ScholarshipFixedAmountVES decimal.Decimal `json:"scholarshipFixedAmountVes"`
	CreatedAt                 time.Time      `json:"createdAt"`
	UpdatedAt                 time.Time      `json:"updatedAt"`
}

func (s *Student) Validate() error {
	if s.FirstName == "" || s.LastName == "" {
		return NewBusinessRuleViolation("student_name_required", "first and last name are required")
	}
	if s.GradeLevelID <= 0 {
		return NewBusinessRuleViolation("student_grade_level_required", "grade level is required")
	}
	if s.RepresentativeID <= 0 {
		return NewBusinessRuleViolation("student_representative_required", "representative is required")
	}
	if s.ScholarshipPercentage.LessThan(decimal.Zero) || s.ScholarshipPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return NewBusinessRuleViolation("student_scholarship_percentage_range", "scholarship percentage must be between 0 and 100")
	}
	if s.ScholarshipFixedAmountVES.IsNegative() {
		return NewBusinessRuleViolation("student_scholarship_fixed_amount_negative", "scholarship fixed amount cannot be negative")
	}
	return nil
}

func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

type StudentFilter struct {
	RepresentativeID *int32
	GradeLevelID      *int32
	ActiveOnly        bool
	Search            *string
}

type StudentRepository interface {
	Create(student *Student) (*Student, error)
	GetByID(id int32) (*Student, error)
	List(filter StudentFilter) ([]*Student, error)
	ListByRepresentative(representativeID int32) ([]*Student, error)
	ListActiveByGradeLevel(gradeLevelID int32) ([]*Student, error)
	Update(student *Student) (*Student, error)
}
