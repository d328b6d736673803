package service

import "github.com/aluvasquez/schoolledger/internal/domain"

// EmployeeService is the catalogue CRUD surface for Employees.
type EmployeeService struct {
	repo     domain.EmployeeRepository
	deptRepo domain.DepartmentRepository
	posRepo  domain.PositionRepository
}

func NewEmployeeService(repo domain.EmployeeRepository, deptRepo domain.DepartmentRepository, posRepo domain.PositionRepository) *EmployeeService {
	return &EmployeeService{repo: repo, deptRepo: deptRepo, posRepo: posRepo}
}

func (s *EmployeeService) Create(emp *domain.Employee) (*domain.Employee, error) {
	if err := emp.Validate(); err != nil {
		return nil, err
	}
	if emp.DepartmentID != nil {
		if _, err := s.deptRepo.GetByID(*emp.DepartmentID); err != nil {
			return nil, err
		}
	}
	if emp.PositionID != nil {
		if _, err := s.posRepo.GetByID(*emp.PositionID); err != nil {
			return nil, err
		}
	}
	return s.repo.Create(emp)
}

func (s *EmployeeService) Get(id int32) (*domain.Employee, error) { return s.repo.GetByID(id) }

func (s *EmployeeService) List(filter domain.EmployeeFilter) ([]*domain.Employee, error) {
	return s.repo.List(filter)
}

func (s *EmployeeService) Update(emp *domain.Employee) (*domain.Employee, error) {
	if err := emp.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(emp)
}

// DepartmentService is the catalogue CRUD surface for Departments.
type DepartmentService struct {
	repo domain.DepartmentRepository
}

func NewDepartmentService(repo domain.DepartmentRepository) *DepartmentService {
	return &DepartmentService{repo: repo}
}

func (s *DepartmentService) Create(d *domain.Department) (*domain.Department, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(d)
}

func (s *DepartmentService) List() ([]*domain.Department, error) { return s.repo.List() }

func (s *DepartmentService) Update(d *domain.Department) (*domain.Department, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(d)
}

// PositionService is the catalogue CRUD surface for Positions.
type PositionService struct {
	repo     domain.PositionRepository
	deptRepo domain.DepartmentRepository
}

func NewPositionService(repo domain.PositionRepository, deptRepo domain.DepartmentRepository) *PositionService {
	return &PositionService{repo: repo, deptRepo: deptRepo}
}

func (s *PositionService) Create(p *domain.Position) (*domain.Position, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.deptRepo.GetByID(p.DepartmentID); err != nil {
		return nil, err
	}
	return s.repo.Create(p)
}

func (s *PositionService) ListByDepartment(departmentID int32) ([]*domain.Position, error) {
	return s.repo.ListByDepartment(departmentID)
}

func (s *PositionService) Update(p *domain.Position) (*domain.Position, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(p)
}

// SalaryComponentService is the catalogue CRUD surface for salary component
// definitions and their per-employee assignments.
type SalaryComponentService struct {
	defRepo domain.SalaryComponentDefinitionRepository
	empRepo domain.EmployeeSalaryComponentRepository
}

func NewSalaryComponentService(defRepo domain.SalaryComponentDefinitionRepository, empRepo domain.EmployeeSalaryComponentRepository) *SalaryComponentService {
	return &SalaryComponentService{defRepo: defRepo, empRepo: empRepo}
}

func (s *SalaryComponentService) CreateDefinition(def *domain.SalaryComponentDefinition) (*domain.SalaryComponentDefinition, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return s.defRepo.Create(def)
}

func (s *SalaryComponentService) ListDefinitions() ([]*domain.SalaryComponentDefinition, error) {
	return s.defRepo.List()
}

func (s *SalaryComponentService) AssignToEmployee(c *domain.EmployeeSalaryComponent) (*domain.EmployeeSalaryComponent, error) {
	if _, err := s.defRepo.GetByID(c.DefinitionID); err != nil {
		return nil, err
	}
	c.IsActive = true
	return s.empRepo.Create(c)
}

func (s *SalaryComponentService) ListForEmployee(employeeID int32) ([]*domain.EmployeeSalaryComponent, error) {
	return s.empRepo.ListActiveByEmployee(employeeID)
}

func (s *SalaryComponentService) RemoveAssignment(id int32) error {
	return s.empRepo.Delete(id)
}
