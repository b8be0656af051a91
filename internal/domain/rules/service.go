package rules

import "context"

type RuleSetService interface {
	Get(ctx context.Context) (RuleSet, error)
	Update(ctx context.Context, req UpdateRuleSetRequest) (RuleSet, error)
}
