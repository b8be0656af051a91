package rules

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/expensio/expense-backend-go/internal/domain/role"
)

// PercentageRule passes a step once the share of decided eligible approvers
// that approved meets or exceeds Threshold (percent, 1-100).
type PercentageRule struct {
	Enabled   bool `json:"enabled"`
	Threshold int  `json:"threshold"`
}

// SpecificApproverRule concludes the whole expense as approved the moment a
// user holding Role approves at any step.
type SpecificApproverRule struct {
	Enabled bool   `json:"enabled"`
	Role    string `json:"role"`
}

// HybridRule, when enabled, lets a step pass on unanimous approval OR the
// percentage threshold, whichever is satisfied first. When disabled, only
// unanimity advances a step; the specific-approver override is independent
// of this flag.
type HybridRule struct {
	Enabled bool `json:"enabled"`
}

// RuleSet is the organization-wide approval configuration. Expense step
// chains are snapshotted from Steps at creation time, so edits here never
// alter an in-flight expense.
type RuleSet struct {
	Steps            []string             `json:"steps"`
	Percentage       PercentageRule       `json:"percentage_rule"`
	SpecificApprover SpecificApproverRule `json:"specific_approver_rule"`
	Hybrid           HybridRule           `json:"hybrid"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// DefaultSteps is the three-stage chain installed on first boot and restored
// when a role removal cascade empties the step list.
func DefaultSteps() []string {
	return []string{role.Manager, role.Finance, role.Director}
}

// Default returns the initial rule set configuration.
func Default() RuleSet {
	return RuleSet{
		Steps:            DefaultSteps(),
		Percentage:       PercentageRule{Enabled: false, Threshold: 60},
		SpecificApprover: SpecificApproverRule{Enabled: false, Role: role.CFO},
		Hybrid:           HybridRule{Enabled: false},
	}
}

// Value implements driver.Valuer for database storage
func (rs RuleSet) Value() (driver.Value, error) {
	return json.Marshal(rs)
}

// Scan implements sql.Scanner for database retrieval
func (rs *RuleSet) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan RuleSet: invalid type")
	}

	return json.Unmarshal(bytes, rs)
}
