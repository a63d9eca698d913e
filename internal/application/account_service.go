package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rizkypratama/go-accounts/internal/domain/entity"
	"github.com/rizkypratama/go-accounts/internal/domain/repository"
	"github.com/rizkypratama/go-accounts/pkg/helpers"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// AccountService owns the account lifecycle: registration and credential
// checks. Session establishment is the gateway's job; this layer never
// touches cookies or tokens.
type AccountService struct {
	Repo   repository.UserRepository
	Logger *logrus.Logger
}

func NewAccountService(repo repository.UserRepository, logger *logrus.Logger) *AccountService {
	return &AccountService{Repo: repo, Logger: logger}
}

type RegisterInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Register validates nothing itself (the form layer already has) and
// persists a new user in a single all-or-nothing insert. Every attempt is
// logged with the submitted username; the password never reaches a log.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		s.Logger.WithError(err).WithField("username", in.Username).Error("password hashing failed")
		return nil, err
	}

	u := &entity.User{
		Email:        normalizeEmail(in.Email),
		Username:     strings.TrimSpace(in.Username),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: hash,
		DateJoined:   time.Now().UTC(),
		IsActive:     true,
	}

	if err := s.Repo.Create(ctx, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail), errors.Is(err, repository.ErrDuplicateUsername):
			s.Logger.WithField("username", in.Username).Warn("registration rejected: duplicate identity")
		case errors.Is(err, repository.ErrInvalidData):
			s.Logger.WithField("username", in.Username).Warn("registration rejected: invalid data")
		default:
			s.Logger.WithError(err).WithField("username", in.Username).Error("registration failed")
		}
		return nil, err
	}

	s.Logger.WithFields(logrus.Fields{
		"user_id":  u.ID,
		"username": u.Username,
	}).Info("user registered")
	return u, nil
}

// Authenticate checks email+password. Every failure collapses to
// ErrInvalidCredentials so callers cannot distinguish an unknown email
// from a wrong password.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GetUserByEmail looks a user up without a password check (reset flow).
func (s *AccountService) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// ChangePassword replaces the stored hash for the given user.
func (s *AccountService) ChangePassword(ctx context.Context, userID, newPassword string) error {
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Repo.UpdatePassword(ctx, userID, hash)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
