package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/expensio/expense-backend-go/internal/domain/expense"
)

type ExpenseRepository struct {
	mu       sync.RWMutex
	expenses map[string]expense.Expense
}

func NewExpenseRepository() *ExpenseRepository {
	return &ExpenseRepository{expenses: make(map[string]expense.Expense)}
}

// copyExpense deep-copies the approvals block and history so callers never
// alias stored state.
func copyExpense(e expense.Expense) expense.Expense {
	out := e
	if e.ReceiptRef != nil {
		ref := *e.ReceiptRef
		out.ReceiptRef = &ref
	}
	out.Approvals.Steps = make([]expense.Step, len(e.Approvals.Steps))
	for i, s := range e.Approvals.Steps {
		out.Approvals.Steps[i] = expense.Step{
			Role:      s.Role,
			Decisions: append([]expense.Decision(nil), s.Decisions...),
		}
	}
	out.History = append(expense.History(nil), e.History...)
	return out
}

// Create implements expense.Repository.
func (r *ExpenseRepository) Create(ctx context.Context, e expense.Expense) (expense.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expenses[e.ID] = copyExpense(e)
	return e, nil
}

// GetByID implements expense.Repository.
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (expense.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.expenses[id]
	if !ok {
		return expense.Expense{}, expense.ErrExpenseNotFound
	}
	return copyExpense(e), nil
}

// GetByOwnerID implements expense.Repository.
func (r *ExpenseRepository) GetByOwnerID(ctx context.Context, ownerID string) ([]expense.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []expense.Expense
	for _, e := range r.expenses {
		if e.OwnerID == ownerID {
			out = append(out, copyExpense(e))
		}
	}
	sortByCreatedAt(out)
	return out, nil
}

// List implements expense.Repository.
func (r *ExpenseRepository) List(ctx context.Context) ([]expense.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]expense.Expense, 0, len(r.expenses))
	for _, e := range r.expenses {
		out = append(out, copyExpense(e))
	}
	sortByCreatedAt(out)
	return out, nil
}

// Update implements expense.Repository.
func (r *ExpenseRepository) Update(ctx context.Context, e expense.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.expenses[e.ID]; !ok {
		return expense.ErrExpenseNotFound
	}
	r.expenses[e.ID] = copyExpense(e)
	return nil
}

func sortByCreatedAt(expenses []expense.Expense) {
	sort.Slice(expenses, func(i, j int) bool {
		return expenses[i].CreatedAt.Before(expenses[j].CreatedAt)
	})
}
