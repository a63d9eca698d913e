package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rizkypratama/go-accounts/internal/domain/entity"
	"github.com/rizkypratama/go-accounts/internal/domain/repository"
)

const userColumns = `id, email, username, first_name, last_name, password_hash,
		date_joined, is_verified, bio, location, birth_date,
		is_active, is_staff, is_superuser, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, username, first_name, last_name, password_hash,
			date_joined, is_verified, bio, location, birth_date,
			is_active, is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Username, u.FirstName, u.LastName, u.PasswordHash,
		u.DateJoined, u.IsVerified, u.Bio, u.Location, u.BirthDate,
		u.IsActive, u.IsStaff, u.IsSuperuser)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *UserRepository) getBy(ctx context.Context, column, value string) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+column+` = $1`, value)
	if err := scanUser(row, u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, username = $2, first_name = $3, last_name = $4,
			bio = $5, location = $6, birth_date = $7,
			is_active = $8, is_staff = $9, is_superuser = $10, updated_at = $11
		WHERE id = $12
	`, u.Email, u.Username, u.FirstName, u.LastName,
		u.Bio, u.Location, u.BirthDate,
		u.IsActive, u.IsStaff, u.IsSuperuser, u.UpdatedAt, u.ID)
	if err != nil {
		return mapPgError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2
	`, passwordHash, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetVerified(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET is_verified = TRUE, updated_at = now() WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row, u *entity.User) error {
	return row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName, &u.PasswordHash,
		&u.DateJoined, &u.IsVerified, &u.Bio, &u.Location, &u.BirthDate,
		&u.IsActive, &u.IsStaff, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt)
}

// mapPgError translates SQLSTATE failures into repository sentinels so a
// registration race on the unique indexes reaches the flow controller as a
// duplicate, not an opaque driver error.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505": // unique_violation
		if strings.Contains(pgErr.ConstraintName, "email") {
			return repository.ErrDuplicateEmail
		}
		return repository.ErrDuplicateUsername
	case "23514", "22001", "22007": // check_violation, value too long, bad date
		return repository.ErrInvalidData
	}
	return err
}

var _ repository.UserRepository = (*UserRepository)(nil)
