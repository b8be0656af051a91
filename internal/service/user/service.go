package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/expensio/expense-backend-go/internal/domain/role"
	"github.com/expensio/expense-backend-go/internal/domain/user"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service manages user accounts. Role assignments are validated against the
// role registry; manager references against the users collection.
type Service struct {
	users    user.Repository
	registry role.RegistryService
}

func NewService(users user.Repository, registry role.RegistryService) *Service {
	return &Service{
		users:    users,
		registry: registry,
	}
}

// normalizeRoles canonicalizes and validates a role set against the registry.
func (s *Service) normalizeRoles(ctx context.Context, roles []string) ([]string, error) {
	seen := make(map[string]struct{}, len(roles))
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		normalized := role.Normalize(r)
		exists, err := s.registry.Exists(ctx, normalized)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%w: %q", user.ErrInvalidRole, r)
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out, nil
}

// Create implements user.UserService.
func (s *Service) Create(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
	roles, err := s.normalizeRoles(ctx, req.Roles)
	if err != nil {
		return user.User{}, err
	}

	if req.ManagerID != nil {
		if _, err := s.users.GetByID(ctx, *req.ManagerID); err != nil {
			return user.User{}, user.ErrManagerNotFound
		}
	}

	if _, err := s.users.GetByEmail(ctx, strings.ToLower(req.Email)); err == nil {
		return user.User{}, user.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	u := user.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
		Roles:        roles,
		ManagerID:    req.ManagerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

// GetByID implements user.UserService.
func (s *Service) GetByID(ctx context.Context, id string) (user.User, error) {
	return s.users.GetByID(ctx, id)
}

// List implements user.UserService.
func (s *Service) List(ctx context.Context) ([]user.UserResponse, error) {
	all, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	out := make([]user.UserResponse, 0, len(all))
	for _, u := range all {
		out = append(out, user.ToResponse(u))
	}
	return out, nil
}

// Update implements user.UserService.
func (s *Service) Update(ctx context.Context, req user.UpdateUserRequest) (user.User, error) {
	u, err := s.users.GetByID(ctx, req.ID)
	if err != nil {
		return user.User{}, err
	}

	if req.Name != nil {
		u.Name = *req.Name
	}

	if req.Roles != nil {
		roles, err := s.normalizeRoles(ctx, *req.Roles)
		if err != nil {
			return user.User{}, err
		}
		u.Roles = roles
	}

	if req.ClearManager {
		u.ManagerID = nil
	} else if req.ManagerID != nil {
		if *req.ManagerID == u.ID {
			return user.User{}, user.ErrSelfManagerAssignment
		}
		if _, err := s.users.GetByID(ctx, *req.ManagerID); err != nil {
			return user.User{}, user.ErrManagerNotFound
		}
		u.ManagerID = req.ManagerID
	}

	u.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, u); err != nil {
		return user.User{}, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

// Delete implements user.UserService. Any user whose manager reference
// points at the deleted user has it cleared; both writes hit the same
// collection, so they share one transaction.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return err
	}

	return s.users.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.users.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		if err := s.users.ClearManagerRefs(ctx, id); err != nil {
			return fmt.Errorf("failed to clear manager references: %w", err)
		}
		return nil
	})
}
