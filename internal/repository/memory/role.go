package memory

import (
	"context"
	"sync"

	"github.com/expensio/expense-backend-go/internal/domain/role"
)

type RoleRepository struct {
	mu    sync.RWMutex
	roles []role.CustomRole
}

func NewRoleRepository() *RoleRepository {
	return &RoleRepository{}
}

// List implements role.Repository.
func (r *RoleRepository) List(ctx context.Context) ([]role.CustomRole, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]role.CustomRole(nil), r.roles...), nil
}

// Add implements role.Repository.
func (r *RoleRepository) Add(ctx context.Context, cr role.CustomRole) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.roles {
		if existing.Name == cr.Name {
			return role.ErrDuplicateRole
		}
	}
	r.roles = append(r.roles, cr)
	return nil
}

// Remove implements role.Repository.
func (r *RoleRepository) Remove(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.roles {
		if existing.Name == name {
			r.roles = append(r.roles[:i], r.roles[i+1:]...)
			return nil
		}
	}
	return role.ErrRoleNotFound
}
