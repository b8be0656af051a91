package expense

import (
	"context"
	"errors"
	"fmt"

	"github.com/expensio/expense-backend-go/internal/domain/expense"
	"github.com/expensio/expense-backend-go/internal/domain/role"
	"github.com/expensio/expense-backend-go/internal/domain/user"
)

func isNotFound(err error) bool {
	return errors.Is(err, user.ErrUserNotFound)
}

// EligibilityResolver computes which users may decide at a given role for a
// given expense. MANAGER is special: it resolves to the submitting user's
// declared manager, not to everyone holding the MANAGER role.
type EligibilityResolver struct {
	users user.Repository
}

func NewEligibilityResolver(users user.Repository) *EligibilityResolver {
	return &EligibilityResolver{users: users}
}

// EligibleApprovers returns the set of user ids authorized to decide at
// stepRole for this expense. An empty set is a valid outcome (e.g. an
// employee with no manager) and is handled by the evaluator's auto-skip.
func (r *EligibilityResolver) EligibleApprovers(ctx context.Context, exp *expense.Expense, stepRole string) (map[string]struct{}, error) {
	eligible := make(map[string]struct{})

	if stepRole == role.Manager {
		owner, err := r.users.GetByID(ctx, exp.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("failed to get expense owner: %w", err)
		}
		if owner.ManagerID != nil && *owner.ManagerID != "" {
			eligible[*owner.ManagerID] = struct{}{}
		}
		return eligible, nil
	}

	holders, err := r.users.ListByRole(ctx, stepRole)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	for _, h := range holders {
		eligible[h.ID] = struct{}{}
	}
	return eligible, nil
}

// IsEligibleApprover reports whether u may decide on the expense's current
// step. Admins may always act on the current step, independent of formal
// eligibility.
func (r *EligibilityResolver) IsEligibleApprover(ctx context.Context, exp *expense.Expense, u *user.User) (bool, error) {
	if u.IsAdmin() {
		return true, nil
	}

	current := exp.Approvals.Current()
	if current == nil {
		return false, nil
	}

	eligible, err := r.EligibleApprovers(ctx, exp, current.Role)
	if err != nil {
		return false, err
	}
	_, ok := eligible[u.ID]
	return ok, nil
}

// HoldsRole reports whether the user identified by id currently holds the
// given role. Unknown users simply do not hold any role.
func (r *EligibilityResolver) HoldsRole(ctx context.Context, userID, roleName string) (bool, error) {
	u, err := r.users.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get user: %w", err)
	}
	return u.HasRole(roleName), nil
}
