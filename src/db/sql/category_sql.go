package db

import (
	"context"
	"fmt"

	"spendwise-server/src/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

const categoryColumns = `id, name, user_id, created_at, updated_at`

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.Name, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func CreateCategory(ctx context.Context, q DBTX, category *models.Category) (*models.Category, error) {
	query := `
		INSERT INTO categories (name, user_id)
		VALUES ($1, $2)
		RETURNING ` + categoryColumns

	return scanCategory(q.QueryRow(ctx, query, category.Name, category.UserID))
}

func GetCategoryByID(ctx context.Context, q DBTX, userID, categoryID int64) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND user_id = $2`
	return scanCategory(q.QueryRow(ctx, query, categoryID, userID))
}

// GetAllCategoriesForUser lists the user's categories, optionally narrowed to
// names containing search.
func GetAllCategoriesForUser(ctx context.Context, q DBTX, userID int64, search string) ([]models.Category, error) {
	b := Psql.Select(categoryColumns).
		From("categories").
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

	categories := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, mapError(rows.Err())
}

func UpdateCategory(ctx context.Context, q DBTX, category *models.Category) (*models.Category, error) {
	query := `
		UPDATE categories
		SET name = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING ` + categoryColumns

	return scanCategory(q.QueryRow(ctx, query, category.Name, category.ID, category.UserID))
}

// DeleteCategory also removes the category's budgets and expenses.
func DeleteCategory(ctx context.Context, q DBTX, userID, categoryID int64) error {
	cmd, err := q.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, categoryID, userID)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("category %d: %w", categoryID, ErrNotFound)
	}
	return nil
}
