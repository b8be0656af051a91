// Package memory holds map-backed implementations of the domain
// repositories. They back the test suites and the STORE_DRIVER=memory
// single-node mode; semantics mirror the postgresql package.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/expensio/expense-backend-go/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]user.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]user.User)}
}

func copyUser(u user.User) user.User {
	out := u
	out.Roles = append([]string(nil), u.Roles...)
	if u.ManagerID != nil {
		id := *u.ManagerID
		out.ManagerID = &id
	}
	return out
}

// Create implements user.Repository.
func (r *UserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = copyUser(u)
	return u, nil
}

// GetByID implements user.Repository.
func (r *UserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return copyUser(u), nil
}

// GetByEmail implements user.Repository.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lower := strings.ToLower(email)
	for _, u := range r.users {
		if strings.ToLower(u.Email) == lower {
			return copyUser(u), nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

// List implements user.Repository.
func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]user.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, copyUser(u))
	}
	return out, nil
}

// ListByRole implements user.Repository.
func (r *UserRepository) ListByRole(ctx context.Context, role string) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []user.User
	for _, u := range r.users {
		if u.HasRole(role) {
			out = append(out, copyUser(u))
		}
	}
	return out, nil
}

// Update implements user.Repository.
func (r *UserRepository) Update(ctx context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return user.ErrUserNotFound
	}
	r.users[u.ID] = copyUser(u)
	return nil
}

// Delete implements user.Repository.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// ClearManagerRefs implements user.Repository.
func (r *UserRepository) ClearManagerRefs(ctx context.Context, managerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if u.ManagerID != nil && *u.ManagerID == managerID {
			u.ManagerID = nil
			r.users[id] = u
		}
	}
	return nil
}

// WithinTransaction implements user.Repository. The map store has no
// transactions; fn runs directly and each call locks on its own.
func (r *UserRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// StripRole implements user.Repository.
func (r *UserRepository) StripRole(ctx context.Context, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		kept := u.Roles[:0:0]
		for _, name := range u.Roles {
			if name != role {
				kept = append(kept, name)
			}
		}
		if len(kept) != len(u.Roles) {
			u.Roles = kept
			r.users[id] = u
		}
	}
	return nil
}
