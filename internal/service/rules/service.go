package rules

import (
	"context"
	"fmt"
	"time"

	"github.com/expensio/expense-backend-go/internal/domain/role"
	"github.com/expensio/expense-backend-go/internal/domain/rules"
)

// Service edits the singleton rule set. Updates only affect expenses created
// afterwards; in-flight expenses keep their snapshotted step chains.
type Service struct {
	rules    rules.Repository
	registry role.RegistryService
}

func NewService(rulesRepo rules.Repository, registry role.RegistryService) *Service {
	return &Service{
		rules:    rulesRepo,
		registry: registry,
	}
}

// Get implements rules.RuleSetService.
func (s *Service) Get(ctx context.Context) (rules.RuleSet, error) {
	rs, err := s.rules.Get(ctx)
	if err != nil {
		return rules.RuleSet{}, fmt.Errorf("failed to get rule set: %w", err)
	}
	return rs, nil
}

// Update implements rules.RuleSetService.
func (s *Service) Update(ctx context.Context, req rules.UpdateRuleSetRequest) (rules.RuleSet, error) {
	if len(req.Steps) == 0 {
		return rules.RuleSet{}, rules.ErrInvalidRuleSet
	}

	if req.Percentage.Enabled && (req.Percentage.Threshold < 1 || req.Percentage.Threshold > 100) {
		return rules.RuleSet{}, rules.ErrInvalidThreshold
	}

	steps := make([]string, 0, len(req.Steps))
	for _, step := range req.Steps {
		normalized := role.Normalize(step)
		exists, err := s.registry.Exists(ctx, normalized)
		if err != nil {
			return rules.RuleSet{}, err
		}
		if !exists {
			return rules.RuleSet{}, fmt.Errorf("%w: %q", rules.ErrUnknownStepRole, step)
		}
		steps = append(steps, normalized)
	}

	specific := req.SpecificApprover
	specific.Role = role.Normalize(specific.Role)
	if specific.Enabled {
		exists, err := s.registry.Exists(ctx, specific.Role)
		if err != nil {
			return rules.RuleSet{}, err
		}
		if !exists {
			return rules.RuleSet{}, fmt.Errorf("%w: %q", rules.ErrUnknownStepRole, req.SpecificApprover.Role)
		}
	}

	rs := rules.RuleSet{
		Steps:            steps,
		Percentage:       req.Percentage,
		SpecificApprover: specific,
		Hybrid:           req.Hybrid,
		UpdatedAt:        time.Now().UTC(),
	}

	if err := s.rules.Save(ctx, rs); err != nil {
		return rules.RuleSet{}, fmt.Errorf("failed to save rule set: %w", err)
	}
	return rs, nil
}
