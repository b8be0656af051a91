package memory

import (
	"context"
	"sync"

	"github.com/expensio/expense-backend-go/internal/domain/rules"
)

type RuleSetRepository struct {
	mu sync.RWMutex
	rs rules.RuleSet
}

// NewRuleSetRepository seeds the store with the default configuration, so a
// freshly booted system always has a usable chain.
func NewRuleSetRepository() *RuleSetRepository {
	return &RuleSetRepository{rs: rules.Default()}
}

func copyRuleSet(rs rules.RuleSet) rules.RuleSet {
	out := rs
	out.Steps = append([]string(nil), rs.Steps...)
	return out
}

// Get implements rules.Repository.
func (r *RuleSetRepository) Get(ctx context.Context) (rules.RuleSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyRuleSet(r.rs), nil
}

// Save implements rules.Repository.
func (r *RuleSetRepository) Save(ctx context.Context, rs rules.RuleSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rs = copyRuleSet(rs)
	return nil
}
