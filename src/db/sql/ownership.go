package db

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// OwnedTable names a table whose rows carry a user_id column.
type OwnedTable string

const (
	TableCategories OwnedTable = "categories"
	TableWallets    OwnedTable = "wallets"
	TableBudgets    OwnedTable = "budgets"
	TableExpenses   OwnedTable = "expenses"
)

// OwnedBy is the predicate every user-scoped query starts from. column is
// the user_id column, qualified with a table alias when the query joins.
func OwnedBy(column string, userID int64) sq.Eq {
	return sq.Eq{column: userID}
}

// EnsureOwned fails with ErrNotOwned when the row does not exist or belongs
// to another user.
func EnsureOwned(ctx context.Context, q DBTX, table OwnedTable, userID, id int64) error {
	query := `SELECT EXISTS (SELECT 1 FROM ` + string(table) + ` WHERE id = $1 AND user_id = $2)`
	var owned bool
	if err := q.QueryRow(ctx, query, id, userID).Scan(&owned); err != nil {
		return mapError(err)
	}
	if !owned {
		return fmt.Errorf("%w: %s %d", ErrNotOwned, strings.TrimSuffix(string(table), "s"), id)
	}
	return nil
}

// likePattern turns a free-text term into an ILIKE substring pattern.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}
