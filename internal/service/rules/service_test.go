package rules

import (
	"context"
	"testing"

	"github.com/expensio/expense-backend-go/internal/domain/role"
	"github.com/expensio/expense-backend-go/internal/domain/rules"
	"github.com/expensio/expense-backend-go/internal/repository/memory"
	rolesvc "github.com/expensio/expense-backend-go/internal/service/role"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() (*Service, *rolesvc.RegistryService) {
	rulesRepo := memory.NewRuleSetRepository()
	registry := rolesvc.NewRegistryService(
		memory.NewRoleRepository(),
		memory.NewUserRepository(),
		rulesRepo,
	)
	return NewService(rulesRepo, registry), registry
}

func TestRules_GetReturnsDefaultOnFirstBoot(t *testing.T) {
	t.Parallel()
	svc, _ := newService()

	rs, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rules.DefaultSteps(), rs.Steps)
	assert.False(t, rs.Percentage.Enabled)
	assert.False(t, rs.SpecificApprover.Enabled)
	assert.False(t, rs.Hybrid.Enabled)
}

func TestRules_UpdateNormalizesStepRoles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newService()

	rs, err := svc.Update(ctx, rules.UpdateRuleSetRequest{
		Steps:            []string{"manager", " finance "},
		Percentage:       rules.PercentageRule{Enabled: true, Threshold: 75},
		SpecificApprover: rules.SpecificApproverRule{Enabled: true, Role: "cfo"},
		Hybrid:           rules.HybridRule{Enabled: true},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{role.Manager, role.Finance}, rs.Steps)
	assert.Equal(t, role.CFO, rs.SpecificApprover.Role)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, rs.Steps, got.Steps)
	assert.Equal(t, 75, got.Percentage.Threshold)
}

func TestRules_UpdateAcceptsCustomRoles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, registry := newService()

	_, err := registry.AddCustom(ctx, "AUDITOR")
	require.NoError(t, err)

	rs, err := svc.Update(ctx, rules.UpdateRuleSetRequest{
		Steps: []string{role.Manager, "auditor"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{role.Manager, "AUDITOR"}, rs.Steps)
}

func TestRules_UpdateRejectsEmptyChain(t *testing.T) {
	t.Parallel()
	svc, _ := newService()

	_, err := svc.Update(context.Background(), rules.UpdateRuleSetRequest{})
	assert.ErrorIs(t, err, rules.ErrInvalidRuleSet)
}

func TestRules_UpdateRejectsUnknownStepRole(t *testing.T) {
	t.Parallel()
	svc, _ := newService()

	_, err := svc.Update(context.Background(), rules.UpdateRuleSetRequest{
		Steps: []string{role.Manager, "WIZARD"},
	})
	assert.ErrorIs(t, err, rules.ErrUnknownStepRole)
}

func TestRules_UpdateRejectsUnknownSpecificApprover(t *testing.T) {
	t.Parallel()
	svc, _ := newService()

	_, err := svc.Update(context.Background(), rules.UpdateRuleSetRequest{
		Steps:            []string{role.Manager},
		SpecificApprover: rules.SpecificApproverRule{Enabled: true, Role: "WIZARD"},
	})
	assert.ErrorIs(t, err, rules.ErrUnknownStepRole)
}

func TestRules_UpdateRejectsOutOfRangeThreshold(t *testing.T) {
	t.Parallel()
	svc, _ := newService()

	for _, threshold := range []int{0, 101, -5} {
		_, err := svc.Update(context.Background(), rules.UpdateRuleSetRequest{
			Steps:      []string{role.Manager},
			Percentage: rules.PercentageRule{Enabled: true, Threshold: threshold},
		})
		assert.ErrorIs(t, err, rules.ErrInvalidThreshold)
	}

	// A disabled percentage rule skips threshold validation.
	_, err := svc.Update(context.Background(), rules.UpdateRuleSetRequest{
		Steps:      []string{role.Manager},
		Percentage: rules.PercentageRule{Enabled: false, Threshold: 0},
	})
	assert.NoError(t, err)
}
