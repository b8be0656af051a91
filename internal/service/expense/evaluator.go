package expense

import (
	"context"
	"fmt"
	"time"

	"github.com/expensio/expense-backend-go/internal/domain/expense"
	"github.com/expensio/expense-backend-go/internal/domain/rules"
)

// StepEvaluator applies the rule set semantics to an expense's approval
// chain. The rule set is passed into every call rather than read from a
// shared singleton, so concurrent tests (and future multi-tenant callers)
// can evaluate against different configurations.
type StepEvaluator struct {
	resolver *EligibilityResolver
}

func NewStepEvaluator(resolver *EligibilityResolver) *StepEvaluator {
	return &StepEvaluator{resolver: resolver}
}

// Evaluate re-computes the expense's status and step cursor after its
// decision lists changed (or right after creation, when auto-skip may apply).
// It mutates exp in place and appends history entries for every transition;
// the caller persists.
//
// Precedence: specific-approver override, then rejection, then auto-skip /
// pass computation on the current step.
func (ev *StepEvaluator) Evaluate(ctx context.Context, exp *expense.Expense, rs rules.RuleSet) error {
	if exp.Approvals.Concluded() {
		return nil
	}

	// Specific-approver short-circuit: an APPROVE from a user holding the
	// configured role anywhere in the chain concludes the whole expense,
	// even on steps already passed.
	if rs.SpecificApprover.Enabled {
		by, found, err := ev.findSpecificApprover(ctx, exp, rs.SpecificApprover.Role)
		if err != nil {
			return err
		}
		if found {
			conclude(exp, expense.StatusApproved, by)
			return nil
		}
	}

	// Rejection short-circuit on the current step.
	current := exp.Approvals.Current()
	for _, d := range dedupByUser(current.Decisions) {
		if d.Decision == expense.DecisionReject {
			conclude(exp, expense.StatusRejected, lastDecisionAuthor(current.Decisions))
			return nil
		}
	}

	// Advance through the chain: pass the current step when its combination
	// rule is satisfied, and keep skipping consecutive steps that have no
	// eligible approvers at all.
	for !exp.Approvals.Concluded() {
		step := exp.Approvals.Current()

		eligible, err := ev.resolver.EligibleApprovers(ctx, exp, step.Role)
		if err != nil {
			return fmt.Errorf("failed to resolve eligible approvers: %w", err)
		}

		if len(eligible) > 0 && !stepPasses(step, eligible, rs) {
			return nil // stay PENDING on this step, awaiting decisions
		}

		by := lastDecisionAuthor(step.Decisions)
		exp.Approvals.StepIndex++
		if exp.Approvals.Concluded() {
			conclude(exp, expense.StatusApproved, by)
			return nil
		}
		appendHistory(exp, expense.StatusPending, by)
	}
	return nil
}

// findSpecificApprover scans every decision across every step for an APPROVE
// by a user currently holding roleName.
func (ev *StepEvaluator) findSpecificApprover(ctx context.Context, exp *expense.Expense, roleName string) (string, bool, error) {
	for _, step := range exp.Approvals.Steps {
		for _, d := range dedupByUser(step.Decisions) {
			if d.Decision != expense.DecisionApprove {
				continue
			}
			holds, err := ev.resolver.HoldsRole(ctx, d.UserID, roleName)
			if err != nil {
				return "", false, err
			}
			if holds {
				return d.UserID, true, nil
			}
		}
	}
	return "", false, nil
}

// stepPasses computes the current step's pass condition against a non-empty
// eligible set.
func stepPasses(step *expense.Step, eligible map[string]struct{}, rs rules.RuleSet) bool {
	latest := dedupByUser(step.Decisions)

	approved := make(map[string]struct{})
	decided := 0
	for _, d := range latest {
		if _, ok := eligible[d.UserID]; !ok {
			continue
		}
		decided++
		if d.Decision == expense.DecisionApprove {
			approved[d.UserID] = struct{}{}
		}
	}

	unanimous := true
	for id := range eligible {
		if _, ok := approved[id]; !ok {
			unanimous = false
			break
		}
	}

	if !rs.Hybrid.Enabled {
		return unanimous
	}

	percentagePass := rs.Percentage.Enabled && decided > 0 &&
		len(approved)*100 >= rs.Percentage.Threshold*decided

	return unanimous || percentagePass
}

// dedupByUser keeps only the most recent decision per user id, preserving
// first-seen order. Earlier decisions stay on the record for audit but must
// not inflate pass counts.
func dedupByUser(decisions []expense.Decision) []expense.Decision {
	latest := make(map[string]expense.Decision, len(decisions))
	order := make([]string, 0, len(decisions))
	for _, d := range decisions {
		if _, seen := latest[d.UserID]; !seen {
			order = append(order, d.UserID)
		}
		latest[d.UserID] = d
	}
	out := make([]expense.Decision, 0, len(order))
	for _, id := range order {
		out = append(out, latest[id])
	}
	return out
}

func lastDecisionAuthor(decisions []expense.Decision) string {
	if len(decisions) == 0 {
		return ""
	}
	return decisions[len(decisions)-1].UserID
}

func conclude(exp *expense.Expense, status expense.Status, by string) {
	exp.Status = status
	exp.Approvals.StepIndex = len(exp.Approvals.Steps)
	appendHistory(exp, status, by)
}

func appendHistory(exp *expense.Expense, status expense.Status, by string) {
	exp.History = append(exp.History, expense.HistoryEntry{
		Timestamp: time.Now().UTC(),
		Status:    status,
		By:        by,
	})
}
