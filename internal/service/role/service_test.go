package role

import (
	"context"
	"testing"

	"github.com/expensio/expense-backend-go/internal/domain/role"
	"github.com/expensio/expense-backend-go/internal/domain/rules"
	"github.com/expensio/expense-backend-go/internal/domain/user"
	"github.com/expensio/expense-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	users *memory.UserRepository
	rules *memory.RuleSetRepository
	svc   *RegistryService
}

func newFixture() *fixture {
	users := memory.NewUserRepository()
	rulesRepo := memory.NewRuleSetRepository()
	return &fixture{
		users: users,
		rules: rulesRepo,
		svc:   NewRegistryService(memory.NewRoleRepository(), users, rulesRepo),
	}
}

func TestRegistry_ListStartsWithBuiltIns(t *testing.T) {
	t.Parallel()
	f := newFixture()

	names, err := f.svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, role.BuiltIn(), names)
}

func TestRegistry_AddCustomNormalizes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture()

	added, err := f.svc.AddCustom(ctx, "  legal counsel ")
	require.NoError(t, err)
	assert.Equal(t, "LEGALCOUNSEL", added)

	ok, err := f.svc.Exists(ctx, "legalcounsel")
	require.NoError(t, err)
	assert.True(t, ok)

	names, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "LEGALCOUNSEL")
}

func TestRegistry_AddCustomRejectsDuplicates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.AddCustom(ctx, "AUDITOR")
	require.NoError(t, err)

	_, err = f.svc.AddCustom(ctx, "auditor")
	assert.ErrorIs(t, err, role.ErrDuplicateRole)

	// Built-in names are duplicates too.
	_, err = f.svc.AddCustom(ctx, "manager")
	assert.ErrorIs(t, err, role.ErrDuplicateRole)
}

func TestRegistry_AddCustomRejectsEmptyName(t *testing.T) {
	t.Parallel()
	f := newFixture()

	_, err := f.svc.AddCustom(context.Background(), "   !!! ")
	assert.ErrorIs(t, err, role.ErrInvalidRoleName)
}

func TestRegistry_RemoveBuiltInRefused(t *testing.T) {
	t.Parallel()
	f := newFixture()

	err := f.svc.RemoveCustom(context.Background(), "MANAGER")
	assert.ErrorIs(t, err, role.ErrRoleNotRemovable)
}

func TestRegistry_RemoveUnknownRole(t *testing.T) {
	t.Parallel()
	f := newFixture()

	err := f.svc.RemoveCustom(context.Background(), "AUDITOR")
	assert.ErrorIs(t, err, role.ErrRoleNotFound)
}

func TestRegistry_RemoveCascadesToUsersAndRules(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.AddCustom(ctx, "AUDITOR")
	require.NoError(t, err)

	_, err = f.users.Create(ctx, user.User{
		ID:    "u-1",
		Email: "u1@example.com",
		Roles: []string{role.Employee, "AUDITOR"},
	})
	require.NoError(t, err)

	rs := rules.Default()
	rs.Steps = []string{role.Manager, "AUDITOR", role.Finance}
	rs.SpecificApprover = rules.SpecificApproverRule{Enabled: true, Role: "AUDITOR"}
	require.NoError(t, f.rules.Save(ctx, rs))

	require.NoError(t, f.svc.RemoveCustom(ctx, "AUDITOR"))

	ok, err := f.svc.Exists(ctx, "AUDITOR")
	require.NoError(t, err)
	assert.False(t, ok)

	u, err := f.users.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, []string{role.Employee}, u.Roles)

	got, err := f.rules.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{role.Manager, role.Finance}, got.Steps)
	assert.Equal(t, role.CFO, got.SpecificApprover.Role)
	assert.True(t, got.SpecificApprover.Enabled)
}

func TestRegistry_RemoveResetsEmptiedStepChain(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.AddCustom(ctx, "AUDITOR")
	require.NoError(t, err)

	rs := rules.Default()
	rs.Steps = []string{"AUDITOR"}
	require.NoError(t, f.rules.Save(ctx, rs))

	require.NoError(t, f.svc.RemoveCustom(ctx, "AUDITOR"))

	got, err := f.rules.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, rules.DefaultSteps(), got.Steps)
}
