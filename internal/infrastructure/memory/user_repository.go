package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rizkypratama/go-accounts/internal/domain/entity"
	"github.com/rizkypratama/go-accounts/internal/domain/repository"
)

// UserRepository is an in-memory UserRepository used by tests and local
// tooling. It enforces the same uniqueness rules as the Postgres store.
type UserRepository struct {
	mu    sync.Mutex
	seq   int
	users map[string]*entity.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*entity.User)}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.users {
		if ex.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
		if ex.Username == u.Username {
			return repository.ErrDuplicateUsername
		}
	}
	if len(u.Bio) > 500 || len(u.Location) > 100 {
		return repository.ErrInvalidData
	}
	r.seq++
	u.ID = "mem-" + strconv.Itoa(r.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email })
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username })
}

func (r *UserRepository) find(match func(*entity.User) bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	u.UpdatedAt = time.Now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *UserRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	return nil
}

func (r *UserRepository) SetVerified(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsVerified = true
	u.UpdatedAt = time.Now()
	return nil
}

// Count reports the number of stored users; handy in tests asserting that a
// failed registration left nothing behind.
func (r *UserRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

var _ repository.UserRepository = (*UserRepository)(nil)
