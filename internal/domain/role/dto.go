package role

import (
	"github.com/expensio/expense-backend-go/internal/pkg/validator"
)

// AddRoleRequest represents a request to register a custom role
type AddRoleRequest struct {
	Name string `json:"name"`
}

func (r *AddRoleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ListRolesResponse is the role list in API responses
type ListRolesResponse struct {
	Roles []string `json:"roles"`
}
