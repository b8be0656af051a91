package postgresql

import (
	"context"
	"errors"

	"github.com/expensio/expense-backend-go/internal/domain/rules"
	"github.com/expensio/expense-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type ruleSetRepositoryImpl struct {
	db *database.DB
}

func NewRuleSetRepository(db *database.DB) rules.Repository {
	return &ruleSetRepositoryImpl{db: db}
}

// Get implements rules.Repository. The rule set is a singleton row; a
// missing row yields the default configuration so first boot needs no seed.
func (r *ruleSetRepositoryImpl) Get(ctx context.Context) (rules.RuleSet, error) {
	q := GetQuerier(ctx, r.db)

	var rs rules.RuleSet
	err := q.QueryRow(ctx, `SELECT document FROM rule_sets WHERE id = 1`).Scan(&rs)
	if errors.Is(err, pgx.ErrNoRows) {
		return rules.Default(), nil
	}
	if err != nil {
		return rules.RuleSet{}, err
	}
	return rs, nil
}

// Save implements rules.Repository.
func (r *ruleSetRepositoryImpl) Save(ctx context.Context, rs rules.RuleSet) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `
		INSERT INTO rule_sets (id, document, updated_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = NOW()
	`, rs)
	return err
}
