package expense

import "context"

type ExpenseService interface {
	// Create snapshots the rule set's step chain into a new PENDING expense
	// and immediately evaluates it, so leading steps with no eligible
	// approvers are skipped before anyone ever decides.
	Create(ctx context.Context, req CreateExpenseRequest) (Expense, error)
	GetByID(ctx context.Context, id string) (Expense, error)
	List(ctx context.Context) ([]Expense, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Expense, error)
	// SubmitDecision records a verdict on the current step and re-evaluates
	// the chain. Returns the resulting status.
	SubmitDecision(ctx context.Context, req SubmitDecisionRequest) (Status, error)
	// Override forces the expense to a terminal status regardless of its
	// step state. Callers must be admin-gated at the boundary.
	Override(ctx context.Context, req OverrideRequest) (Expense, error)
}
