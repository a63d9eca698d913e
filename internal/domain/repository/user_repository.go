package repository

import (
	"context"
	"errors"

	"github.com/rizkypratama/go-accounts/internal/domain/entity"
)

var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrInvalidData is returned when the store rejects a row on a domain
	// constraint (bounded bio/location length, malformed date).
	ErrInvalidData = errors.New("invalid user data")
)

// UserRepository defines the persistence operations for user accounts.
// Create is all-or-nothing: a uniqueness race between two concurrent
// registrations surfaces as ErrDuplicateEmail/ErrDuplicateUsername on the
// losing call, never as a partial row.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetVerified(ctx context.Context, id string) error
}
