package service

import "github.com/aluvasquez/schoolledger/internal/domain"

// RepresentativeService is the catalogue CRUD surface for Representatives.
type RepresentativeService struct {
	repo domain.RepresentativeRepository
}

func NewRepresentativeService(repo domain.RepresentativeRepository) *RepresentativeService {
	return &RepresentativeService{repo: repo}
}

func (s *RepresentativeService) Create(rep *domain.Representative) (*domain.Representative, error) {
	if err := rep.Validate(); err != nil {
		return nil, err
	}
	if existing, _ := s.repo.GetByEmail(rep.Email); existing != nil {
		return nil, domain.ErrAlreadyExists
	}
	return s.repo.Create(rep)
}

func (s *RepresentativeService) Get(id int32) (*domain.Representative, error) {
	return s.repo.GetByID(id)
}

func (s *RepresentativeService) List(filter domain.RepresentativeFilter) ([]*domain.Representative, error) {
	return s.repo.List(filter)
}

func (s *RepresentativeService) Update(rep *domain.Representative) (*domain.Representative, error) {
	if err := rep.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(rep)
}
