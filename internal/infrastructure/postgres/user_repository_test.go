package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/rizkypratama/go-accounts/internal/domain/repository"
)

func TestMapPgError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "email unique violation",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"},
			want: repository.ErrDuplicateEmail,
		},
		{
			name: "username unique violation",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"},
			want: repository.ErrDuplicateUsername,
		},
		{
			name: "check violation",
			err:  &pgconn.PgError{Code: "23514", ConstraintName: "users_bio_length"},
			want: repository.ErrInvalidData,
		},
		{
			name: "value too long",
			err:  &pgconn.PgError{Code: "22001"},
			want: repository.ErrInvalidData,
		},
		{
			name: "bad date input",
			err:  &pgconn.PgError{Code: "22007"},
			want: repository.ErrInvalidData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapPgError(tt.err), tt.want)
		})
	}
}

func TestMapPgErrorWrapped(t *testing.T) {
	inner := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	wrapped := fmt.Errorf("insert user: %w", inner)

	assert.ErrorIs(t, mapPgError(wrapped), repository.ErrDuplicateEmail)
}

func TestMapPgErrorPassthrough(t *testing.T) {
	plain := errors.New("connection refused")
	assert.Equal(t, plain, mapPgError(plain))

	other := &pgconn.PgError{Code: "40001"} // serialization failure
	assert.Equal(t, error(other), mapPgError(other))
}
