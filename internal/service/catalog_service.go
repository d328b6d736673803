package service

import "github.com/aluvasquez/schoolledger/internal/domain"

// GradeLevelService is the catalogue CRUD surface for grade levels.
type GradeLevelService struct {
	repo domain.GradeLevelRepository
}

func NewGradeLevelService(repo domain.GradeLevelRepository) *GradeLevelService {
	return &GradeLevelService{repo: repo}
}

func (s *GradeLevelService) Create(gl *domain.GradeLevel) (*domain.GradeLevel, error) {
	if err := gl.Validate(); err != nil {
		return nil, err
	}
	if existing, _ := s.repo.GetByName(gl.Name); existing != nil {
		return nil, domain.ErrAlreadyExists
	}
	return s.repo.Create(gl)
}

func (s *GradeLevelService) List() ([]*domain.GradeLevel, error) { return s.repo.List() }

func (s *GradeLevelService) Update(gl *domain.GradeLevel) (*domain.GradeLevel, error) {
	if err := gl.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(gl)
}

// Deactivate refuses to deactivate a grade level with active students, per
// the catalogue's referential-integrity expectations.
func (s *GradeLevelService) Deactivate(id int32) (*domain.GradeLevel, error) {
	hasStudents, err := s.repo.HasActiveStudents(id)
	if err != nil {
		return nil, err
	}
	if hasStudents {
		return nil, domain.NewBusinessRuleViolation("grade_level_has_active_students", "cannot deactivate a grade level with active students")
	}
	gl, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	gl.IsActive = false
	return s.repo.Update(gl)
}

// ChargeConceptService is the catalogue CRUD surface for charge concepts.
type ChargeConceptService struct {
	repo domain.ChargeConceptRepository
}

func NewChargeConceptService(repo domain.ChargeConceptRepository) *ChargeConceptService {
	return &ChargeConceptService{repo: repo}
}

func (s *ChargeConceptService) Create(concept *domain.ChargeConcept) (*domain.ChargeConcept, error) {
	if err := concept.Validate(); err != nil {
		return nil, err
	}
	if existing, _ := s.repo.GetByName(concept.Name); existing != nil {
		return nil, domain.ErrAlreadyExists
	}
	return s.repo.Create(concept)
}

func (s *ChargeConceptService) Get(id int32) (*domain.ChargeConcept, error) { return s.repo.GetByID(id) }

func (s *ChargeConceptService) List(filter domain.ChargeConceptFilter) ([]*domain.ChargeConcept, error) {
	return s.repo.List(filter)
}

func (s *ChargeConceptService) Update(concept *domain.ChargeConcept) (*domain.ChargeConcept, error) {
	if err := concept.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(concept)
}

// Deactivate refuses to deactivate a concept with open applied charges still
// outstanding against it.
func (s *ChargeConceptService) Deactivate(id int32) (*domain.ChargeConcept, error) {
	hasOpen, err := s.repo.HasOpenAppliedCharges(id)
	if err != nil {
		return nil, err
	}
	if hasOpen {
		return nil, domain.NewBusinessRuleViolation("charge_concept_has_open_charges", "cannot deactivate a concept with open applied charges")
	}
	concept, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	concept.IsActive = false
	return s.repo.Update(concept)
}

// SchoolConfigurationService is the single-row configuration surface.
type SchoolConfigurationService struct {
	repo domain.SchoolConfigurationRepository
}

func NewSchoolConfigurationService(repo domain.SchoolConfigurationRepository) *SchoolConfigurationService {
	return &SchoolConfigurationService{repo: repo}
}

func (s *SchoolConfigurationService) Get() (*domain.SchoolConfiguration, error) { return s.repo.Get() }

func (s *SchoolConfigurationService) Update(cfg *domain.SchoolConfiguration) (*domain.SchoolConfiguration, error) {
	return s.repo.Update(cfg)
}
