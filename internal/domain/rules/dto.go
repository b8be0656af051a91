package rules

import (
	"github.com/expensio/expense-backend-go/internal/pkg/validator"
)

// UpdateRuleSetRequest replaces the whole rule set configuration.
type UpdateRuleSetRequest struct {
	Steps            []string             `json:"steps"`
	Percentage       PercentageRule       `json:"percentage_rule"`
	SpecificApprover SpecificApproverRule `json:"specific_approver_rule"`
	Hybrid           HybridRule           `json:"hybrid"`
}

func (r *UpdateRuleSetRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Steps) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "steps",
			Message: "at least one step is required",
		})
	}
	for _, step := range r.Steps {
		if validator.IsEmpty(step) {
			errs = append(errs, validator.ValidationError{
				Field:   "steps",
				Message: "step role names must not be empty",
			})
			break
		}
	}

	if r.Percentage.Enabled && (r.Percentage.Threshold < 1 || r.Percentage.Threshold > 100) {
		errs = append(errs, validator.ValidationError{
			Field:   "percentage_rule.threshold",
			Message: "threshold must be between 1 and 100",
		})
	}

	if r.SpecificApprover.Enabled && validator.IsEmpty(r.SpecificApprover.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "specific_approver_rule.role",
			Message: "role is required when the rule is enabled",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// RuleSetResponse is the rule set in API responses
type RuleSetResponse struct {
	Steps            []string             `json:"steps"`
	Percentage       PercentageRule       `json:"percentage_rule"`
	SpecificApprover SpecificApproverRule `json:"specific_approver_rule"`
	Hybrid           HybridRule           `json:"hybrid"`
	UpdatedAt        string               `json:"updated_at"`
}
