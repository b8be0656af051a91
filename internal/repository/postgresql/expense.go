package postgresql

import (
	"context"
	"errors"

	"github.com/expensio/expense-backend-go/internal/domain/expense"
	"github.com/expensio/expense-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type expenseRepositoryImpl struct {
	db *database.DB
}

func NewExpenseRepository(db *database.DB) expense.Repository {
	return &expenseRepositoryImpl{db: db}
}

const expenseColumns = `id, owner_id, amount_minor, currency, category, description,
	receipt_ref, expense_date, status, approvals, history, created_at, updated_at`

func scanExpense(row pgx.Row) (expense.Expense, error) {
	var e expense.Expense
	err := row.Scan(
		&e.ID,
		&e.OwnerID,
		&e.AmountMinor,
		&e.Currency,
		&e.Category,
		&e.Description,
		&e.ReceiptRef,
		&e.Date,
		&e.Status,
		&e.Approvals,
		&e.History,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return expense.Expense{}, expense.ErrExpenseNotFound
	}
	if err != nil {
		return expense.Expense{}, err
	}
	return e, nil
}

// Create implements expense.Repository.
func (r *expenseRepositoryImpl) Create(ctx context.Context, e expense.Expense) (expense.Expense, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO expenses (id, owner_id, amount_minor, currency, category, description,
			receipt_ref, expense_date, status, approvals, history, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + expenseColumns

	return scanExpense(q.QueryRow(ctx, query,
		e.ID, e.OwnerID, e.AmountMinor, e.Currency, e.Category, e.Description,
		e.ReceiptRef, e.Date, e.Status, e.Approvals, e.History, e.CreatedAt, e.UpdatedAt))
}

// GetByID implements expense.Repository.
func (r *expenseRepositoryImpl) GetByID(ctx context.Context, id string) (expense.Expense, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`
	return scanExpense(q.QueryRow(ctx, query, id))
}

// GetByOwnerID implements expense.Repository.
func (r *expenseRepositoryImpl) GetByOwnerID(ctx context.Context, ownerID string) ([]expense.Expense, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE owner_id = $1 ORDER BY created_at`

	rows, err := q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectExpenses(rows)
}

// List implements expense.Repository.
func (r *expenseRepositoryImpl) List(ctx context.Context) ([]expense.Expense, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + expenseColumns + ` FROM expenses ORDER BY created_at`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectExpenses(rows)
}

func collectExpenses(rows pgx.Rows) ([]expense.Expense, error) {
	var expenses []expense.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// Update implements expense.Repository.
func (r *expenseRepositoryImpl) Update(ctx context.Context, e expense.Expense) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE expenses
		SET status = $2, approvals = $3, history = $4, updated_at = $5
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query, e.ID, e.Status, e.Approvals, e.History, e.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return expense.ErrExpenseNotFound
	}
	return nil
}
