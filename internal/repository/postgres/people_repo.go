package postgres

import (
	"context"

	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// RepresentativeRepository implements domain.RepresentativeRepository.
type RepresentativeRepository struct {
	pool *pgxpool.Pool
}

func NewRepresentativeRepository(pool *pgxpool.Pool) *RepresentativeRepository {
	return &RepresentativeRepository{pool: pool}
}

const representativeColumns = `id, first_name, last_name, identification_type, identification_number, email, phones, address, rif, available_credit_ves, created_at, updated_at`

func (r *RepresentativeRepository) Create(rep *domain.Representative) (*domain.Representative, error) {
	credit, err := decimalToPgNumeric(rep.AvailableCreditVES)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO representatives (first_name, last_name, identification_type, identification_number, email, phones, address, rif, available_credit_ves, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		 RETURNING `+representativeColumns,
		rep.FirstName, rep.LastName, rep.IdentificationType, rep.IdentificationNumber, rep.Email, rep.Phones, rep.Address, pgText(rep.RIF), credit)
	return scanRepresentative(row)
}

func (r *RepresentativeRepository) GetByID(id int32) (*domain.Representative, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+representativeColumns+` FROM representatives WHERE id = $1`, id)
	rep, err := scanRepresentative(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrRepresentativeNotFound
	}
	return rep, err
}

func (r *RepresentativeRepository) GetByEmail(email string) (*domain.Representative, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+representativeColumns+` FROM representatives WHERE email = $1`, email)
	rep, err := scanRepresentative(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrRepresentativeNotFound
	}
	return rep, err
}

func (r *RepresentativeRepository) GetByIdentification(idType, idNumber string) (*domain.Representative, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+representativeColumns+` FROM representatives WHERE identification_type = $1 AND identification_number = $2`,
		idType, idNumber)
	rep, err := scanRepresentative(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrRepresentativeNotFound
	}
	return rep, err
}

func (r *RepresentativeRepository) List(filter domain.RepresentativeFilter) ([]*domain.Representative, error) {
	var search *string
	if filter.Search != nil {
		s := "%" + *filter.Search + "%"
		search = &s
	}
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+representativeColumns+` FROM representatives
		 WHERE $1::text IS NULL OR first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1 OR identification_number ILIKE $1
		 ORDER BY last_name ASC, first_name ASC`, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Representative
	for rows.Next() {
		rep, err := scanRepresentative(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

func (r *RepresentativeRepository) Update(rep *domain.Representative) (*domain.Representative, error) {
	credit, err := decimalToPgNumeric(rep.AvailableCreditVES)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(context.Background(),
		`UPDATE representatives SET first_name = $2, last_name = $3, identification_type = $4, identification_number = $5,
		   email = $6, phones = $7, address = $8, rif = $9, available_credit_ves = $10, updated_at = now()
		 WHERE id = $1
		 RETURNING `+representativeColumns,
		rep.ID, rep.FirstName, rep.LastName, rep.IdentificationType, rep.IdentificationNumber, rep.Email, rep.Phones, rep.Address, pgText(rep.RIF), credit)
	updated, err := scanRepresentative(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrRepresentativeNotFound
	}
	return updated, err
}

func (r *RepresentativeRepository) UpdateAvailableCredit(id int32, newBalance decimal.Decimal) error {
	value, err := decimalToPgNumeric(newBalance)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(context.Background(),
		`UPDATE representatives SET available_credit_ves = $2, updated_at = now() WHERE id = $1`, id, value)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRepresentativeNotFound
	}
	return nil
}

func (r *RepresentativeRepository) HasStudents(id int32) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM students WHERE representative_id = $1)`, id).Scan(&exists)
	return exists, err
}

func scanRepresentative(row pgx.Row) (*domain.Representative, error) {
	var rep domain.Representative
	var credit pgtype.Numeric
	var rif pgtype.Text
	if err := row.Scan(&rep.ID, &rep.FirstName, &rep.LastName, &rep.IdentificationType, &rep.IdentificationNumber,
		&rep.Email, &rep.Phones, &rep.Address, &rif, &credit, &rep.CreatedAt, &rep.UpdatedAt); err != nil {
		return nil, err
	}
	rep.RIF = textPtr(rif)
	rep.AvailableCreditVES = pgNumericToDecimal(credit)
	return &rep, nil
}

// StudentRepository implements domain.StudentRepository.
type StudentRepository struct {
	pool *pgxpool.Pool
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

const studentColumns = `id, first_name, last_name, identity, birth_date, grade_level_id, representative_id, is_active, has_scholarship, scholarship_percentage, scholarship_fixed_amount_ves, created_at, updated_at`

func (r *StudentRepository) Create(s *domain.Student) (*domain.Student, error) {
	pct, err := decimalToPgNumeric(s.ScholarshipPercentage)
	if err != nil {
		return nil, err
	}
	fixed, err := decimalToPgNumeric(s.ScholarshipFixedAmountVES)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO students (first_name, last_name, identity, birth_date, grade_level_id, representative_id, is_active, has_scholarship, scholarship_percentage, scholarship_fixed_amount_ves, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		 RETURNING `+studentColumns,
		s.FirstName, s.LastName, pgText(s.Identity), s.BirthDate, s.GradeLevelID, s.RepresentativeID, s.IsActive, s.HasScholarship, pct, fixed)
	return scanStudent(row)
}

func (r *StudentRepository) GetByID(id int32) (*domain.Student, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+studentColumns+` FROM students WHERE id = $1`, id)
	s, err := scanStudent(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrStudentNotFound
	}
	return s, err
}

func (r *StudentRepository) List(filter domain.StudentFilter) ([]*domain.Student, error) {
	var search *string
	if filter.Search != nil {
		v := "%" + *filter.Search + "%"
		search = &v
	}
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+studentColumns+` FROM students
		 WHERE ($1::bool = false OR is_active = true)
		   AND ($2::int IS NULL OR representative_id = $2)
		   AND ($3::int IS NULL OR grade_level_id = $3)
		   AND ($4::text IS NULL OR first_name ILIKE $4 OR last_name ILIKE $4)
		 ORDER BY last_name ASC, first_name ASC`,
		filter.ActiveOnly, filter.RepresentativeID, filter.GradeLevelID, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *StudentRepository) ListByRepresentative(representativeID int32) ([]*domain.Student, error) {
	rows, err := r.pool.Query(context.Background(), `SELECT `+studentColumns+` FROM students WHERE representative_id = $1 ORDER BY last_name ASC`, representativeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *StudentRepository) ListActiveByGradeLevel(gradeLevelID int32) ([]*domain.Student, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+studentColumns+` FROM students WHERE grade_level_id = $1 AND is_active = true ORDER BY last_name ASC`, gradeLevelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *StudentRepository) Update(s *domain.Student) (*domain.Student, error) {
	pct, err := decimalToPgNumeric(s.ScholarshipPercentage)
	if err != nil {
		return nil, err
	}
	fixed, err := decimalToPgNumeric(s.ScholarshipFixedAmountVES)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(context.Background(),
		`UPDATE students SET first_name = $2, last_name = $3, identity = $4, birth_date = $5, grade_level_id = $6,
		   representative_id = $7, is_active = $8, has_scholarship = $9, scholarship_percentage = $10,
		   scholarship_fixed_amount_ves = $11, updated_at = now()
		 WHERE id = $1
		 RETURNING `+studentColumns,
		s.ID, s.FirstName, s.LastName, pgText(s.Identity), s.BirthDate, s.GradeLevelID, s.RepresentativeID,
		s.IsActive, s.HasScholarship, pct, fixed)
	updated, err := scanStudent(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrStudentNotFound
	}
	return updated, err
}

func scanStudent(row pgx.Row) (*domain.Student, error) {
	var s domain.Student
	var identity pgtype.Text
	var pct, fixed pgtype.Numeric
	if err := row.Scan(&s.ID, &s.FirstName, &s.LastName, &identity, &s.BirthDate, &s.GradeLevelID, &s.RepresentativeID,
		&s.IsActive, &s.HasScholarship, &pct, &fixed, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Identity = textPtr(identity)
	s.ScholarshipPercentage = pgNumericToDecimal(pct)
	s.ScholarshipFixedAmountVES = pgNumericToDecimal(fixed)
	return &s, nil
}
