package service

import "github.com/aluvasquez/schoolledger/internal/domain"

// StudentService is the catalogue CRUD surface for Students.
type StudentService struct {
	repo     domain.StudentRepository
	repRepo  domain.RepresentativeRepository
	gradeRepo domain.GradeLevelRepository
}

func NewStudentService(repo domain.StudentRepository, repRepo domain.RepresentativeRepository, gradeRepo domain.GradeLevelRepository) *StudentService {
	return &StudentService{repo: repo, repRepo: repRepo, gradeRepo: gradeRepo}
}

func (s *StudentService) Create(student *domain.Student) (*domain.Student, error) {
	if err := student.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repRepo.GetByID(student.RepresentativeID); err != nil {
		return nil, err
	}
	if _, err := s.gradeRepo.GetByID(student.GradeLevelID); err != nil {
		return nil, err
	}
	return s.repo.Create(student)
}

func (s *StudentService) Get(id int32) (*domain.Student, error) {
	return s.repo.GetByID(id)
}

func (s *StudentService) List(filter domain.StudentFilter) ([]*domain.Student, error) {
	return s.repo.List(filter)
}

func (s *StudentService) Update(student *domain.Student) (*domain.Student, error) {
	if err := student.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(student)
}
