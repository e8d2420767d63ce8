package db

import (
	"context"
	"fmt"

	"spendwise-server/src/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

const walletColumns = `id, name, balance, user_id, created_at, updated_at`

func scanWallet(row pgx.Row) (*models.Wallet, error) {
	var w models.Wallet
	if err := row.Scan(&w.ID, &w.Name, &w.Balance, &w.UserID, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return &w, nil
}

func CreateWallet(ctx context.Context, q DBTX, wallet *models.Wallet) (*models.Wallet, error) {
	query := `
		INSERT INTO wallets (name, balance, user_id)
		VALUES ($1, $2, $3)
		RETURNING ` + walletColumns

	return scanWallet(q.QueryRow(ctx, query, wallet.Name, wallet.Balance, wallet.UserID))
}

func GetWalletByID(ctx context.Context, q DBTX, userID, walletID int64) (*models.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 AND user_id = $2`
	return scanWallet(q.QueryRow(ctx, query, walletID, userID))
}

func GetAllWalletsForUser(ctx context.Context, q DBTX, userID int64, search string) ([]models.Wallet, error) {
	b := Psql.Select(walletColumns).
		From("wallets").
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

	wallets := []models.Wallet{}
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, *w)
	}
	return wallets, mapError(rows.Err())
}

// UpdateWallet overwrites name and balance. Expenses never touch the balance.
func UpdateWallet(ctx context.Context, q DBTX, wallet *models.Wallet) (*models.Wallet, error) {
	query := `
		UPDATE wallets
		SET name = $1, balance = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
		RETURNING ` + walletColumns

	return scanWallet(q.QueryRow(ctx, query, wallet.Name, wallet.Balance, wallet.ID, wallet.UserID))
}

func DeleteWallet(ctx context.Context, q DBTX, userID, walletID int64) error {
	cmd, err := q.Exec(ctx, `DELETE FROM wallets WHERE id = $1 AND user_id = $2`, walletID, userID)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("wallet %d: %w", walletID, ErrNotFound)
	}
	return nil
}
