// Package auth provides the session gateway: the capability the account
// flows use to establish, resolve, and destroy an authenticated session.
// Flow controllers depend on the Gateway interface only, so tests can
// substitute a fake.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/rizkypratama/go-accounts/internal/domain/entity"
)

var ErrNoSession = errors.New("no active session")

// Identity describes the authenticated principal behind a live session.
type Identity struct {
	UserID   string
	Email    string
	Username string
}

// TokenPair is the session material handed back to the cookie layer.
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// Gateway is the session/auth collaborator contract. Establish behaves like
// an immediate login for the given user; Resolve answers "is this request
// authenticated"; Destroy ends the session idempotently.
type Gateway interface {
	Establish(ctx context.Context, u *entity.User) (TokenPair, error)
	Resolve(ctx context.Context, accessToken string) (*Identity, error)
	Destroy(ctx context.Context, userID string) error
}
