package expense

import "context"

// Repository - interface for the expenses collection. There is no Delete:
// expenses carry an append-only audit trail and are kept forever.
type Repository interface {
	Create(ctx context.Context, e Expense) (Expense, error)
	GetByID(ctx context.Context, id string) (Expense, error)
	GetByOwnerID(ctx context.Context, ownerID string) ([]Expense, error)
	List(ctx context.Context) ([]Expense, error)
	Update(ctx context.Context, e Expense) error
}
