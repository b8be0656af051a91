package expense

import (
	"context"
	"testing"

	"github.com/expensio/expense-backend-go/internal/domain/expense"
	"github.com/expensio/expense-backend-go/internal/domain/role"
	"github.com/expensio/expense-backend-go/internal/domain/rules"
	"github.com/expensio/expense-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	users    *memory.UserRepository
	expenses *memory.ExpenseRepository
	rules    *memory.RuleSetRepository
	svc      *Service
}

func newFixture() *fixture {
	users := memory.NewUserRepository()
	expenses := memory.NewExpenseRepository()
	rulesRepo := memory.NewRuleSetRepository()
	return &fixture{
		users:    users,
		expenses: expenses,
		rules:    rulesRepo,
		svc:      NewService(expenses, users, rulesRepo),
	}
}

func (f *fixture) saveRules(t *testing.T, rs rules.RuleSet) {
	t.Helper()
	require.NoError(t, f.rules.Save(context.Background(), rs))
}

func (f *fixture) create(t *testing.T, ownerID string) expense.Expense {
	t.Helper()
	exp, err := f.svc.Create(context.Background(), expense.CreateExpenseRequest{
		OwnerID:     ownerID,
		AmountMinor: 4250,
		Currency:    "USD",
		Category:    "travel",
		Description: "client visit",
		Date:        "2026-03-15",
	})
	require.NoError(t, err)
	return exp
}

func (f *fixture) decide(t *testing.T, expenseID, userID, decision string) (expense.Status, error) {
	t.Helper()
	return f.svc.SubmitDecision(context.Background(), expense.SubmitDecisionRequest{
		ExpenseID: expenseID,
		UserID:    userID,
		Decision:  decision,
		Comment:   "looks fine",
	})
}

// Scenario A: the default MANAGER -> FINANCE -> DIRECTOR chain, approved one
// step at a time.
func TestService_FullChainApproval(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture()
	mgr := "mgr-1"
	seedUser(t, f.users, mgr, []string{role.Manager}, nil)
	seedUser(t, f.users, "owner", []string{role.Employee}, &mgr)
	seedUser(t, f.users, "fin-1", []string{role.Finance}, nil)
	seedUser(t, f.users, "dir-1", []string{role.Director}, nil)

	exp := f.create(t, "owner")
	require.Equal(t, expense.StatusPending, exp.Status)
	require.Equal(t, 0, exp.Approvals.StepIndex)
	require.Len(t, exp.Approvals.Steps, 3)

	status, err := f.decide(t, exp.ID, mgr, "APPROVE")
	require.NoError(t, err)
	assert.Equal(t, expense.StatusPending, status)

	got, err := f.svc.GetByID(ctx, exp.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Approvals.StepIndex)

	status, err = f.decide(t, exp.ID, "fin-1", "APPROVE")
	require.NoError(t, err)
	assert.Equal(t, expense.StatusPending, status)

	status, err = f.decide(t, exp.ID, "dir-1", "APPROVE")
	require.NoError(t, err)
	assert.Equal(t, expense.StatusApproved, status)

	got, err = f.svc.GetByID(ctx, exp.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Approvals.StepIndex)
	assert.Equal(t, expense.StatusApproved, got.History[len(got.History)-1].Status)
}

// Scenario B: a manager rejection at step 0 terminates the chain; later
// steps are never touched.
func TestService_RejectionTerminatesImmediately(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture()
	mgr := "mgr-1"
	seedUser(t, f.users, mgr, []string{role.Manager}, nil)
	seedUser(t, f.users, "owner", []string{role.Employee}, &mgr)
	seedUser(t, f.users, "fin-1", []string{role.Finance}, nil)
	seedUser(t, f.users, "dir-1", []string{role.Director}, nil)

	exp := f.create(t, "owner")

	status, err := f.decide(t, exp.ID, mgr, "REJECT")
	require.NoError(t, err)
	assert.Equal(t, expense.StatusRejected, status)

	got, err := f.svc.GetByID(ctx, exp.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Approvals.Steps[1].Decisions)
	assert.Empty(t, got.Approvals.Steps[2].Decisions)
}

// Scenario C: an owner with no manager auto-skips the MANAGER step at
// creation, before any decision exists.
func TestService_CreateAutoSkipsManagerWithoutManager(t *testing.T) {
	t.Parallel()
	f := newFixture()
	seedUser(t, f.users, "owner", []string{role.Employee}, nil)
	seedUser(t, f.users, "fin-1", []string{role.Finance}, nil)

	rs := rules.Default()
	rs.Steps = []string{role.Manager, role.Finance}
	f.saveRules(t, rs)

	exp := f.create(t, "owner")

	assert.Equal(t, expense.StatusPending, exp.Status)
	assert.Equal(t, 1, exp.Approvals.StepIndex)
	assert.Equal(t, role.Finance, exp.Approvals.Steps[1].Role)
}

// Scenario D: rejection wins over a satisfied percentage threshold.
func TestService_RejectionBeatsPercentageThreshold(t *testing.T) {
	t.Parallel()
	f := newFixture()
	for _, id := range []string{"fin-1", "fin-2", "fin-3", "fin-4"} {
		seedUser(t, f.users, id, []string{role.Finance}, nil)
	}
	seedUser(t, f.users, "owner", []string{role.Employee}, nil)

	rs := rules.Default()
	rs.Steps = []string{role.Finance}
	rs.Percentage = rules.PercentageRule{Enabled: true, Threshold: 50}
	rs.Hybrid.Enabled = true
	f.saveRules(t, rs)

	// Percentage is computed over decided approvers, so a first approval
	// passes the 50% threshold on its own.
	exp := f.create(t, "owner")
	status, err := f.decide(t, exp.ID, "fin-1", "APPROVE")
	require.NoError(t, err)
	require.Equal(t, expense.StatusApproved, status)

	// A rejection concludes the expense before the percentage rule is ever
	// consulted, and later approvals bounce off the terminal state.
	exp2 := f.create(t, "owner")
	status, err = f.decide(t, exp2.ID, "fin-3", "REJECT")
	require.NoError(t, err)
	require.Equal(t, expense.StatusRejected, status)

	_, err = f.decide(t, exp2.ID, "fin-1", "APPROVE")
	assert.ErrorIs(t, err, expense.ErrNotPending)

	got, err := f.svc.GetByID(context.Background(), exp2.ID)
	require.NoError(t, err)
	assert.Equal(t, expense.StatusRejected, got.Status)
}

// Scenario E: a CFO approval at the MANAGER step concludes the whole chain.
func TestService_SpecificApproverBypassesChain(t *testing.T) {
	t.Parallel()
	f := newFixture()
	mgr := "mgr-1"
	seedUser(t, f.users, mgr, []string{role.Manager}, nil)
	seedUser(t, f.users, "owner", []string{role.Employee}, &mgr)
	seedUser(t, f.users, "fin-1", []string{role.Finance}, nil)
	seedUser(t, f.users, "dir-1", []string{role.Director}, nil)
	seedUser(t, f.users, "cfo-1", []string{role.CFO}, nil)

	rs := rules.Default()
	rs.SpecificApprover = rules.SpecificApproverRule{Enabled: true, Role: role.CFO}
	f.saveRules(t, rs)

	exp := f.create(t, "owner")

	// The CFO is neither the owner's manager nor an admin; holding the
	// designated role alone carries the approval through the gate.
	status, err := f.decide(t, exp.ID, "cfo-1", "APPROVE")
	require.NoError(t, err)
	assert.Equal(t, expense.StatusApproved, status)

	got, err := f.svc.GetByID(context.Background(), exp.ID)
	require.NoError(t, err)
	assert.Equal(t, len(got.Approvals.Steps), got.Approvals.StepIndex)
	assert.Empty(t, got.Approvals.Steps[1].Decisions)
	assert.Empty(t, got.Approvals.Steps[2].Decisions)
}

// The specific-approver shortcut covers approvals only; a rejection from a
// role holder who is not step-eligible stays behind the gate.
func TestService_SpecificApproverCannotRejectOutOfStep(t *testing.T) {
	t.Parallel()
	f := newFixture()
	mgr := "mgr-1"
	seedUser(t, f.users, mgr, []string{role.Manager}, nil)
	seedUser(t, f.users, "owner", []string{role.Employee}, &mgr)
	seedUser(t, f.users, "cfo-1", []string{role.CFO}, nil)

	rs := rules.Default()
	rs.SpecificApprover = rules.SpecificApproverRule{Enabled: true, Role: role.CFO}
	f.saveRules(t, rs)

	exp := f.create(t, "owner")

	_, err := f.decide(t, exp.ID, "cfo-1", "REJECT")
	assert.ErrorIs(t, err, expense.ErrNotEligibleApprover)

	got, err := f.svc.GetByID(context.Background(), exp.ID)
	require.NoError(t, err)
	assert.Equal(t, expense.StatusPending, got.Status)
	assert.Empty(t, got.Approvals.Steps[0].Decisions)
}

// A disabled specific-approver rule grants no gate shortcut either.
func TestService_SpecificApproverDisabledKeepsGate(t *testing.T) {
	t.Parallel()
	f := newFixture()
	mgr := "mgr-1"
	seedUser(t, f.users, mgr, []string{role.Manager}, nil)
	seedUser(t, f.users, "owner", []string{role.Employee}, &mgr)
	seedUser(t, f.users, "cfo-1", []string{role.CFO}, nil)

	exp := f.create(t, "owner")

	_, err := f.decide(t, exp.ID, "cfo-1", "APPROVE")
	assert.ErrorIs(t, err, expense.ErrNotEligibleApprover)
}

// Rule set edits never reshape the chain of an in-flight expense.
func TestService_StepChainSnapshotIsImmutable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture()
	mgr := "mgr-1"
	seedUser(t, f.users, mgr, []string{role.Manager}, nil)
	seedUser(t, f.users, "owner", []string{role.Employee}, &mgr)

	exp := f.create(t, "owner")
	require.Len(t, exp.Approvals.Steps, 3)

	rs := rules.Default()
	rs.Steps = []string{role.CFO}
	f.saveRules(t, rs)

	got, err := f.svc.GetByID(ctx, exp.ID)
	require.NoError(t, err)
	assert.Len(t, got.Approvals.Steps, 3)
	assert.Equal(t, role.Manager, got.Approvals.Steps[0].Role)

	// A new expense picks up the edited chain.
	exp2 := f.create(t, "owner")
	assert.Len(t, exp2.Approvals.Steps, 1)
	assert.Equal(t, role.CFO, exp2.Approvals.Steps[0].Role)
}

// Once terminal, SubmitDecision always fails with ErrNotPending and never
// mutates the expense; Override still succeeds.
func TestService_TerminalStateIdempotence(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture()
	mgr := "mgr-1"
	seedUser(t, f.users, mgr, []string{role.Manager}, nil)
	seedUser(t, f.users, "owner", []string{role.Employee}, &mgr)
	seedUser(t, f.users, "admin-1", []string{role.Admin}, nil)

	rs := rules.Default()
	rs.Steps = []string{role.Manager}
	f.saveRules(t, rs)

	exp := f.create(t, "owner")
	status, err := f.decide(t, exp.ID, mgr, "REJECT")
	require.NoError(t, err)
	require.Equal(t, expense.StatusRejected, status)

	before, err := f.svc.GetByID(ctx, exp.ID)
	require.NoError(t, err)

	_, err = f.decide(t, exp.ID, mgr, "APPROVE")
	assert.ErrorIs(t, err, expense.ErrNotPending)

	after, err := f.svc.GetByID(ctx, exp.ID)
	require.NoError(t, err)
	assert.Equal(t, before.History, after.History)
	assert.Equal(t, before.Approvals, after.Approvals)

	// Override re-terminalizes regardless of prior state.
	overridden, err := f.svc.Override(ctx, expense.OverrideRequest{
		ExpenseID: exp.ID,
		AdminID:   "admin-1",
		Status:    "APPROVED",
	})
	require.NoError(t, err)
	assert.Equal(t, expense.StatusApproved, overridden.Status)
	assert.Equal(t, len(overridden.Approvals.Steps), overridden.Approvals.StepIndex)
	assert.Equal(t, "admin-1", overridden.History[len(overridden.History)-1].By)
}

func TestService_OverridePendingExpense(t *testing.T) {
	t.Parallel()
	f := newFixture()
	mgr := "mgr-1"
	seedUser(t, f.users, mgr, []string{role.Manager}, nil)
	seedUser(t, f.users, "owner", []string{role.Employee}, &mgr)
	seedUser(t, f.users, "admin-1", []string{role.Admin}, nil)

	exp := f.create(t, "owner")

	overridden, err := f.svc.Override(context.Background(), expense.OverrideRequest{
		ExpenseID: exp.ID,
		AdminID:   "admin-1",
		Status:    "REJECTED",
	})
	require.NoError(t, err)
	assert.Equal(t, expense.StatusRejected, overridden.Status)
	assert.Equal(t, 3, overridden.Approvals.StepIndex)
}

func TestService_OverrideRejectsNonTerminalTarget(t *testing.T) {
	t.Parallel()
	f := newFixture()
	_, err := f.svc.Override(context.Background(), expense.OverrideRequest{
		ExpenseID: "whatever",
		AdminID:   "admin-1",
		Status:    "PENDING",
	})
	assert.ErrorIs(t, err, expense.ErrInvalidStatus)
}

func TestService_SubmitDecisionUnknownExpense(t *testing.T) {
	t.Parallel()
	f := newFixture()
	seedUser(t, f.users, "mgr-1", []string{role.Manager}, nil)

	_, err := f.decide(t, "missing", "mgr-1", "APPROVE")
	assert.ErrorIs(t, err, expense.ErrExpenseNotFound)
}

func TestService_SubmitDecisionIneligibleUser(t *testing.T) {
	t.Parallel()
	f := newFixture()
	mgr := "mgr-1"
	seedUser(t, f.users, mgr, []string{role.Manager}, nil)
	seedUser(t, f.users, "owner", []string{role.Employee}, &mgr)
	seedUser(t, f.users, "bystander", []string{role.Employee}, nil)

	exp := f.create(t, "owner")

	_, err := f.decide(t, exp.ID, "bystander", "APPROVE")
	assert.ErrorIs(t, err, expense.ErrNotEligibleApprover)

	// The expense is untouched.
	got, err := f.svc.GetByID(context.Background(), exp.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Approvals.Steps[0].Decisions)
}

func TestService_SubmitDecisionInvalidKind(t *testing.T) {
	t.Parallel()
	f := newFixture()
	_, err := f.decide(t, "any", "any", "MAYBE")
	assert.ErrorIs(t, err, expense.ErrInvalidDecision)
}

func TestService_ListByOwner(t *testing.T) {
	t.Parallel()
	f := newFixture()
	mgr := "mgr-1"
	seedUser(t, f.users, mgr, []string{role.Manager}, nil)
	seedUser(t, f.users, "owner", []string{role.Employee}, &mgr)
	seedUser(t, f.users, "other", []string{role.Employee}, &mgr)

	f.create(t, "owner")
	f.create(t, "owner")
	f.create(t, "other")

	mine, err := f.svc.ListByOwner(context.Background(), "owner")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := f.svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
