package rules

import "context"

// Repository - interface for the singleton rule set record
type Repository interface {
	Get(ctx context.Context) (RuleSet, error)
	Save(ctx context.Context, rs RuleSet) error
}
