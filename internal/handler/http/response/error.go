package response

import (
	"errors"
	"net/http"

	"github.com/expensio/expense-backend-go/internal/domain/auth"
	"github.com/expensio/expense-backend-go/internal/domain/expense"
	"github.com/expensio/expense-backend-go/internal/domain/role"
	"github.com/expensio/expense-backend-go/internal/domain/rules"
	"github.com/expensio/expense-backend-go/internal/domain/user"
	"github.com/expensio/expense-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing token")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrManagerNotFound):
		BadRequest(w, "Manager reference does not exist", nil)
	case errors.Is(err, user.ErrInvalidRole):
		BadRequest(w, "User references a role that does not exist", nil)
	case errors.Is(err, user.ErrSelfManagerAssignment):
		BadRequest(w, "User cannot be their own manager", nil)
	case errors.Is(err, user.ErrAdminAccessRequired):
		Forbidden(w, "Admin privilege required")

	// Role domain errors
	case errors.Is(err, role.ErrRoleNotFound):
		NotFound(w, "Role not found")
	case errors.Is(err, role.ErrDuplicateRole):
		Conflict(w, "Role already exists")
	case errors.Is(err, role.ErrRoleNotRemovable):
		BadRequest(w, "Built-in roles cannot be removed", nil)
	case errors.Is(err, role.ErrInvalidRoleName):
		BadRequest(w, "Role name is empty after normalization", nil)
	case errors.Is(err, role.ErrCascadeIncomplete):
		InternalServerError(w, "Role removal cascade incomplete; manual reconciliation required")

	// Rule set domain errors
	case errors.Is(err, rules.ErrInvalidRuleSet):
		BadRequest(w, "Rule set must contain at least one step", nil)
	case errors.Is(err, rules.ErrInvalidThreshold):
		BadRequest(w, "Percentage threshold must be between 1 and 100", nil)
	case errors.Is(err, rules.ErrUnknownStepRole):
		BadRequest(w, "Rule set references an unknown role", nil)

	// Expense domain errors
	case errors.Is(err, expense.ErrExpenseNotFound):
		NotFound(w, "Expense not found")
	case errors.Is(err, expense.ErrNotPending):
		Conflict(w, "Expense is not pending")
	case errors.Is(err, expense.ErrNoActiveStep):
		Conflict(w, "Expense has no active approval step")
	case errors.Is(err, expense.ErrNotEligibleApprover):
		Forbidden(w, "Not an eligible approver for the current step")
	case errors.Is(err, expense.ErrInvalidDecision):
		BadRequest(w, "Decision must be APPROVE or REJECT", nil)
	case errors.Is(err, expense.ErrInvalidStatus):
		BadRequest(w, "Target status must be APPROVED or REJECTED", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
