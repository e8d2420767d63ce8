package db

import (
	"context"
	"fmt"
	"time"

	"spendwise-server/src/models"

	"github.com/jackc/pgx/v5"
)

const expenseColumns = `id, description, amount, date, user_id, category_id, wallet_id, created_at, updated_at`

func scanExpense(row pgx.Row) (*models.Expense, error) {
	var (
		e    models.Expense
		date time.Time
	)
	err := row.Scan(&e.ID, &e.Description, &e.Amount, &date, &e.UserID, &e.CategoryID, &e.WalletID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	e.Date = models.DateOf(date)
	return &e, nil
}

// ensureExpenseRefs checks the category and wallet an expense points at.
func ensureExpenseRefs(ctx context.Context, q DBTX, e *models.Expense) error {
	if err := EnsureOwned(ctx, q, TableCategories, e.UserID, e.CategoryID); err != nil {
		return err
	}
	return EnsureOwned(ctx, q, TableWallets, e.UserID, e.WalletID)
}

func CreateExpense(ctx context.Context, q DBTX, expense *models.Expense) (*models.Expense, error) {
	if err := ensureExpenseRefs(ctx, q, expense); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO expenses (description, amount, date, user_id, category_id, wallet_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + expenseColumns

	return scanExpense(q.QueryRow(ctx, query,
		expense.Description,
		expense.Amount,
		expense.Date.Time,
		expense.UserID,
		expense.CategoryID,
		expense.WalletID,
	))
}

func GetExpenseByID(ctx context.Context, q DBTX, userID, expenseID int64) (*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1 AND user_id = $2`
	return scanExpense(q.QueryRow(ctx, query, expenseID, userID))
}

func GetExpensesForUser(ctx context.Context, q DBTX, userID int64, filters ...ExpenseFilter) ([]models.Expense, error) {
	query, args, err := ExpenseQuery(userID, filters...).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *e)
	}
	return expenses, mapError(rows.Err())
}

// UpdateExpense writes every field of expense. Callers patch a loaded row
// first; the category and wallet are re-checked against the owner.
func UpdateExpense(ctx context.Context, q DBTX, expense *models.Expense) (*models.Expense, error) {
	if err := ensureExpenseRefs(ctx, q, expense); err != nil {
		return nil, err
	}

	query := `
		UPDATE expenses
		SET description = $1, amount = $2, date = $3, category_id = $4, wallet_id = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7
		RETURNING ` + expenseColumns

	return scanExpense(q.QueryRow(ctx, query,
		expense.Description,
		expense.Amount,
		expense.Date.Time,
		expense.CategoryID,
		expense.WalletID,
		expense.ID,
		expense.UserID,
	))
}

func DeleteExpense(ctx context.Context, q DBTX, userID, expenseID int64) error {
	cmd, err := q.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND user_id = $2`, expenseID, userID)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("expense %d: %w", expenseID, ErrNotFound)
	}
	return nil
}
