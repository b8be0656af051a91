package role

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/expensio/expense-backend-go/internal/domain/role"
	"github.com/expensio/expense-backend-go/internal/domain/rules"
	"github.com/expensio/expense-backend-go/internal/domain/user"
)

// RegistryService maintains built-in plus custom roles and performs the
// removal cascade across users and the rule set.
type RegistryService struct {
	roles role.Repository
	users user.Repository
	rules rules.Repository
}

func NewRegistryService(roles role.Repository, users user.Repository, rulesRepo rules.Repository) *RegistryService {
	return &RegistryService{
		roles: roles,
		users: users,
		rules: rulesRepo,
	}
}

// List implements role.RegistryService. Built-ins come first, followed by
// custom roles; duplicates never occur because AddCustom rejects them.
func (s *RegistryService) List(ctx context.Context) ([]string, error) {
	custom, err := s.roles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list custom roles: %w", err)
	}

	names := role.BuiltIn()
	for _, c := range custom {
		names = append(names, c.Name)
	}
	return names, nil
}

// Exists implements role.RegistryService.
func (s *RegistryService) Exists(ctx context.Context, name string) (bool, error) {
	normalized := role.Normalize(name)
	if normalized == "" {
		return false, nil
	}
	all, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range all {
		if n == normalized {
			return true, nil
		}
	}
	return false, nil
}

// AddCustom implements role.RegistryService.
func (s *RegistryService) AddCustom(ctx context.Context, name string) (string, error) {
	normalized := role.Normalize(name)
	if normalized == "" {
		return "", role.ErrInvalidRoleName
	}

	exists, err := s.Exists(ctx, normalized)
	if err != nil {
		return "", err
	}
	if exists {
		return "", role.ErrDuplicateRole
	}

	if err := s.roles.Add(ctx, role.CustomRole{
		Name:      normalized,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return "", fmt.Errorf("failed to add custom role: %w", err)
	}
	return normalized, nil
}

// RemoveCustom implements role.RegistryService. The cascade touches three
// collections (custom roles, users, rule set) with separate writes; a
// failure after the first write leaves the system diverged, so every later
// error is wrapped in ErrCascadeIncomplete and must be surfaced to an
// operator rather than retried silently.
func (s *RegistryService) RemoveCustom(ctx context.Context, name string) error {
	normalized := role.Normalize(name)
	if role.IsBuiltIn(normalized) {
		return role.ErrRoleNotRemovable
	}

	custom, err := s.roles.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list custom roles: %w", err)
	}
	found := false
	for _, c := range custom {
		if c.Name == normalized {
			found = true
			break
		}
	}
	if !found {
		return role.ErrRoleNotFound
	}

	if err := s.roles.Remove(ctx, normalized); err != nil {
		return fmt.Errorf("failed to remove custom role: %w", err)
	}

	if err := s.users.StripRole(ctx, normalized); err != nil {
		return fmt.Errorf("%w: failed to strip role %q from users: %v", role.ErrCascadeIncomplete, normalized, err)
	}

	if err := s.cascadeRuleSet(ctx, normalized); err != nil {
		return fmt.Errorf("%w: failed to update rule set after removing %q: %v", role.ErrCascadeIncomplete, normalized, err)
	}

	slog.Info("custom role removed", "role", normalized)
	return nil
}

// cascadeRuleSet drops the removed role from the rule set: the specific
// approver designation falls back to CFO, and the step chain loses every
// occurrence. An emptied chain resets to the default three stages.
func (s *RegistryService) cascadeRuleSet(ctx context.Context, removed string) error {
	rs, err := s.rules.Get(ctx)
	if err != nil {
		return err
	}

	changed := false

	if rs.SpecificApprover.Role == removed {
		rs.SpecificApprover.Role = role.CFO
		changed = true
	}

	steps := rs.Steps[:0:0]
	for _, step := range rs.Steps {
		if step != removed {
			steps = append(steps, step)
		}
	}
	if len(steps) != len(rs.Steps) {
		changed = true
	}
	if len(steps) == 0 {
		steps = rules.DefaultSteps()
	}
	rs.Steps = steps

	if !changed {
		return nil
	}

	rs.UpdatedAt = time.Now().UTC()
	return s.rules.Save(ctx, rs)
}
