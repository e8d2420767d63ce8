package db

import (
	"context"
	"errors"
	"fmt"

	"spendwise-server/src/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

const budgetColumns = `id, name, "limit", user_id, category_id, created_at, updated_at`

func scanBudget(row pgx.Row) (*models.Budget, error) {
	var b models.Budget
	err := row.Scan(&b.ID, &b.Name, &b.Limit, &b.UserID, &b.CategoryID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &b, nil
}

// CreateBudget checks that the category belongs to the user and has no
// budget yet, then inserts. The check and the insert are not atomic; a
// concurrent duplicate is caught by the (user_id, name) constraint at best.
func CreateBudget(ctx context.Context, q DBTX, budget *models.Budget) (*models.Budget, error) {
	if err := EnsureOwned(ctx, q, TableCategories, budget.UserID, budget.CategoryID); err != nil {
		return nil, err
	}

	_, err := GetBudgetByCategory(ctx, q, budget.UserID, budget.CategoryID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: budget for category %d", ErrConflict, budget.CategoryID)
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	query := `
		INSERT INTO budgets (name, "limit", user_id, category_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + budgetColumns

	return scanBudget(q.QueryRow(ctx, query, budget.Name, budget.Limit, budget.UserID, budget.CategoryID))
}

func GetBudgetByID(ctx context.Context, q DBTX, userID, budgetID int64) (*models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE id = $1 AND user_id = $2`
	return scanBudget(q.QueryRow(ctx, query, budgetID, userID))
}

func GetBudgetByCategory(ctx context.Context, q DBTX, userID, categoryID int64) (*models.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets WHERE user_id = $1 AND category_id = $2
		ORDER BY id ASC
		LIMIT 1
	`
	return scanBudget(q.QueryRow(ctx, query, userID, categoryID))
}

func GetAllBudgetsForUser(ctx context.Context, q DBTX, userID int64, search string) ([]models.Budget, error) {
	b := Psql.Select(budgetColumns).
		From("budgets").
		Where(OwnedBy("user_id", userID)).
		OrderBy("id ASC")
	if search != "" {
		b = b.Where(sq.ILike{"name": likePattern(search)})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, *b)
	}
	return budgets, mapError(rows.Err())
}

func UpdateBudget(ctx context.Context, q DBTX, budget *models.Budget) (*models.Budget, error) {
	query := `
		UPDATE budgets
		SET name = $1, "limit" = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
		RETURNING ` + budgetColumns

	return scanBudget(q.QueryRow(ctx, query, budget.Name, budget.Limit, budget.ID, budget.UserID))
}

func DeleteBudget(ctx context.Context, q DBTX, userID, budgetID int64) error {
	cmd, err := q.Exec(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, budgetID, userID)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("budget %d: %w", budgetID, ErrNotFound)
	}
	return nil
}
