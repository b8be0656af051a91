package postgresql

import (
	"context"

	"github.com/expensio/expense-backend-go/internal/domain/role"
	"github.com/expensio/expense-backend-go/internal/pkg/database"
)

type roleRepositoryImpl struct {
	db *database.DB
}

func NewRoleRepository(db *database.DB) role.Repository {
	return &roleRepositoryImpl{db: db}
}

// List implements role.Repository.
func (r *roleRepositoryImpl) List(ctx context.Context) ([]role.CustomRole, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT name, created_at FROM custom_roles ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []role.CustomRole
	for rows.Next() {
		var cr role.CustomRole
		if err := rows.Scan(&cr.Name, &cr.CreatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, cr)
	}
	return roles, rows.Err()
}

// Add implements role.Repository.
func (r *roleRepositoryImpl) Add(ctx context.Context, cr role.CustomRole) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `
		INSERT INTO custom_roles (name, created_at)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING
	`, cr.Name, cr.CreatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return role.ErrDuplicateRole
	}
	return nil
}

// Remove implements role.Repository.
func (r *roleRepositoryImpl) Remove(ctx context.Context, name string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM custom_roles WHERE name = $1`, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return role.ErrRoleNotFound
	}
	return nil
}
