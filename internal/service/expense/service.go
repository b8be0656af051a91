package expense

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/expensio/expense-backend-go/internal/domain/expense"
	"github.com/expensio/expense-backend-go/internal/domain/rules"
	"github.com/expensio/expense-backend-go/internal/domain/user"
	"github.com/expensio/expense-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

// Service owns the expense status field and step cursor. All mutations go
// through SubmitDecision and Override; decision evaluation on a single
// expense is serialized with a per-expense lock because the evaluator's
// read-modify-write is not safe under interleaving.
type Service struct {
	expenses  expense.Repository
	users     user.Repository
	rules     rules.Repository
	resolver  *EligibilityResolver
	evaluator *StepEvaluator

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(expenses expense.Repository, users user.Repository, rulesRepo rules.Repository) *Service {
	resolver := NewEligibilityResolver(users)
	return &Service{
		expenses:  expenses,
		users:     users,
		rules:     rulesRepo,
		resolver:  resolver,
		evaluator: NewStepEvaluator(resolver),
		locks:     make(map[string]*sync.Mutex),
	}
}

// lockExpense returns the mutex serializing mutations of one expense id.
func (s *Service) lockExpense(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// Create implements expense.ExpenseService.
func (s *Service) Create(ctx context.Context, req expense.CreateExpenseRequest) (expense.Expense, error) {
	owner, err := s.users.GetByID(ctx, req.OwnerID)
	if err != nil {
		return expense.Expense{}, fmt.Errorf("failed to get expense owner: %w", err)
	}

	rs, err := s.rules.Get(ctx)
	if err != nil {
		return expense.Expense{}, fmt.Errorf("failed to get rule set: %w", err)
	}

	date, err := validator.ParseDate(req.Date)
	if err != nil {
		return expense.Expense{}, fmt.Errorf("failed to parse expense date: %w", err)
	}

	// Snapshot the step chain. Later rule set edits never touch this expense.
	steps := make([]expense.Step, 0, len(rs.Steps))
	for _, role := range rs.Steps {
		steps = append(steps, expense.Step{Role: role})
	}

	now := time.Now().UTC()
	exp := expense.Expense{
		ID:          uuid.NewString(),
		OwnerID:     owner.ID,
		AmountMinor: req.AmountMinor,
		Currency:    strings.ToUpper(strings.TrimSpace(req.Currency)),
		Category:    req.Category,
		Description: req.Description,
		ReceiptRef:  req.ReceiptRef,
		Date:        date,
		Status:      expense.StatusPending,
		Approvals:   expense.Approvals{Steps: steps, StepIndex: 0},
		History: expense.History{
			{Timestamp: now, Status: expense.StatusPending, By: owner.ID},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Evaluate immediately: leading steps with no eligible approvers are
	// skipped without waiting for a decision that can never come.
	if err := s.evaluator.Evaluate(ctx, &exp, rs); err != nil {
		return expense.Expense{}, fmt.Errorf("failed to evaluate new expense: %w", err)
	}

	created, err := s.expenses.Create(ctx, exp)
	if err != nil {
		return expense.Expense{}, fmt.Errorf("failed to create expense: %w", err)
	}
	return created, nil
}

// GetByID implements expense.ExpenseService.
func (s *Service) GetByID(ctx context.Context, id string) (expense.Expense, error) {
	exp, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		return expense.Expense{}, err
	}
	return exp, nil
}

// List implements expense.ExpenseService.
func (s *Service) List(ctx context.Context) ([]expense.Expense, error) {
	return s.expenses.List(ctx)
}

// ListByOwner implements expense.ExpenseService.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]expense.Expense, error) {
	return s.expenses.GetByOwnerID(ctx, ownerID)
}

// SubmitDecision implements expense.ExpenseService.
func (s *Service) SubmitDecision(ctx context.Context, req expense.SubmitDecisionRequest) (expense.Status, error) {
	kind := expense.DecisionKind(strings.ToUpper(strings.TrimSpace(req.Decision)))
	if kind != expense.DecisionApprove && kind != expense.DecisionReject {
		return "", expense.ErrInvalidDecision
	}

	lock := s.lockExpense(req.ExpenseID)
	lock.Lock()
	defer lock.Unlock()

	exp, err := s.expenses.GetByID(ctx, req.ExpenseID)
	if err != nil {
		return "", err
	}

	if exp.Status != expense.StatusPending {
		return "", expense.ErrNotPending
	}
	if exp.Approvals.Concluded() {
		// Unreachable given the pending check, kept as a guard against a
		// corrupted cursor in storage.
		return "", expense.ErrNoActiveStep
	}

	decider, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return "", err
	}

	rs, err := s.rules.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get rule set: %w", err)
	}

	eligible, err := s.resolver.IsEligibleApprover(ctx, &exp, &decider)
	if err != nil {
		return "", fmt.Errorf("failed to check approver eligibility: %w", err)
	}
	// A holder of the designated specific-approver role may approve at any
	// step, regardless of step eligibility. Their rejections get no such
	// shortcut.
	if !eligible && kind == expense.DecisionApprove &&
		rs.SpecificApprover.Enabled && decider.HasRole(rs.SpecificApprover.Role) {
		eligible = true
	}
	if !eligible {
		return "", expense.ErrNotEligibleApprover
	}

	current := exp.Approvals.Current()
	current.Decisions = append(current.Decisions, expense.Decision{
		UserID:    decider.ID,
		Decision:  kind,
		Comment:   req.Comment,
		Timestamp: time.Now().UTC(),
	})

	if err := s.evaluator.Evaluate(ctx, &exp, rs); err != nil {
		return "", fmt.Errorf("failed to evaluate expense: %w", err)
	}

	exp.UpdatedAt = time.Now().UTC()
	if err := s.expenses.Update(ctx, exp); err != nil {
		return "", fmt.Errorf("failed to update expense: %w", err)
	}
	return exp.Status, nil
}

// Override implements expense.ExpenseService. It may re-terminalize an
// already-terminal expense; that is the intended escape hatch.
func (s *Service) Override(ctx context.Context, req expense.OverrideRequest) (expense.Expense, error) {
	target := expense.Status(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !target.IsTerminal() {
		return expense.Expense{}, expense.ErrInvalidStatus
	}

	lock := s.lockExpense(req.ExpenseID)
	lock.Lock()
	defer lock.Unlock()

	exp, err := s.expenses.GetByID(ctx, req.ExpenseID)
	if err != nil {
		return expense.Expense{}, err
	}

	exp.Status = target
	exp.Approvals.StepIndex = len(exp.Approvals.Steps)
	exp.History = append(exp.History, expense.HistoryEntry{
		Timestamp: time.Now().UTC(),
		Status:    target,
		By:        req.AdminID,
	})
	exp.UpdatedAt = time.Now().UTC()

	if err := s.expenses.Update(ctx, exp); err != nil {
		return expense.Expense{}, fmt.Errorf("failed to update expense: %w", err)
	}
	return exp, nil
}
