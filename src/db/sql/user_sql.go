package db

import (
	"context"
	"fmt"

	"spendwise-server/src/models"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, email, password_hash, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

func CreateUser(ctx context.Context, q DBTX, req models.RegisterRequest, hashedPassword []byte) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	return scanUser(q.QueryRow(ctx, query, req.Username, req.Email, string(hashedPassword)))
}

func GetUserByID(ctx context.Context, q DBTX, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(q.QueryRow(ctx, query, id))
}

func GetUserByEmail(ctx context.Context, q DBTX, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(q.QueryRow(ctx, query, email))
}

func UpdateUserPassword(ctx context.Context, q DBTX, userID int64, hashedPassword []byte) error {
	query := `
		UPDATE users
		SET password_hash = $1, updated_at = NOW()
		WHERE id = $2
	`
	cmd, err := q.Exec(ctx, query, string(hashedPassword), userID)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return nil
}

// DeleteUser removes the user; categories, wallets, budgets and expenses go
// with it through ON DELETE CASCADE.
func DeleteUser(ctx context.Context, q DBTX, userID int64) error {
	cmd, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return nil
}
