package postgres

import (
	"context"

	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository implements domain.UserRepository.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, full_name, password_hash, is_active, is_superuser, created_at, updated_at`

func (r *UserRepository) Create(u *domain.User) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO users (email, full_name, password_hash, is_active, is_superuser, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, now(), now())
		 RETURNING `+userColumns,
		u.Email, u.FullName, u.PasswordHash, u.IsActive, u.IsSuperuser)
	return scanUser(row)
}

func (r *UserRepository) GetByID(id int32) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	return u, err
}

func (r *UserRepository) GetByEmail(email string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	return u, err
}

func (r *UserRepository) List() ([]*domain.User, error) {
	rows, err := r.pool.Query(context.Background(), `SELECT `+userColumns+` FROM users ORDER BY full_name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepository) Update(u *domain.User) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`UPDATE users SET email = $2, full_name = $3, password_hash = $4, is_active = $5, is_superuser = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		u.ID, u.Email, u.FullName, u.PasswordHash, u.IsActive, u.IsSuperuser)
	updated, err := scanUser(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	return updated, err
}

func (r *UserRepository) CountSuperusers() (int64, error) {
	var count int64
	err := r.pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM users WHERE is_superuser = true`).Scan(&count)
	return count, err
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.IsActive, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
