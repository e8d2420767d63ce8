package report

import (
	"fmt"
	"time"

	db "spendwise-server/src/db/sql"
	"spendwise-server/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Raw rows as the pipelines return them. Money arrives as text so the
// driver never rounds through float64; nullable columns use pgtype.

type categorySpendRow struct {
	CategoryID   int64
	CategoryName string
	TotalSpent   pgtype.Text
}

type budgetUsageRow struct {
	CategoryID   int64
	CategoryName string
	BudgetID     pgtype.Int8
	BudgetName   pgtype.Text
	Limit        pgtype.Text
	TotalSpent   pgtype.Text
}

type walletSpendRow struct {
	WalletID   int64
	WalletName string
	Balance    pgtype.Text
	TotalSpent pgtype.Text
}

type monthlySpendRow struct {
	Month      time.Time
	TotalSpent pgtype.Text
}

func scanCategorySpend(row pgx.CollectableRow) (categorySpendRow, error) {
	var r categorySpendRow
	err := row.Scan(&r.CategoryID, &r.CategoryName, &r.TotalSpent)
	return r, err
}

func scanBudgetUsage(row pgx.CollectableRow) (budgetUsageRow, error) {
	var r budgetUsageRow
	err := row.Scan(&r.CategoryID, &r.CategoryName, &r.BudgetID, &r.BudgetName, &r.Limit, &r.TotalSpent)
	return r, err
}

func scanWalletSpend(row pgx.CollectableRow) (walletSpendRow, error) {
	var r walletSpendRow
	err := row.Scan(&r.WalletID, &r.WalletName, &r.Balance, &r.TotalSpent)
	return r, err
}

func scanMonthlySpend(row pgx.CollectableRow) (monthlySpendRow, error) {
	var r monthlySpendRow
	err := row.Scan(&r.Month, &r.TotalSpent)
	return r, err
}

// aggregate reads a summed amount. A missing sum means nothing was spent.
func aggregate(t pgtype.Text) (models.Money, error) {
	if !t.Valid {
		return models.ZeroMoney(), nil
	}
	return parseAmount(t.String)
}

// attribute reads an amount that belongs to an optional entity. Missing
// stays missing.
func attribute(t pgtype.Text) (*models.Money, error) {
	if !t.Valid {
		return nil, nil
	}
	m, err := parseAmount(t.String)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func parseAmount(s string) (models.Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return models.Money{}, fmt.Errorf("%w: malformed amount %q", db.ErrStoreFailure, s)
	}
	return models.NewMoney(d), nil
}

func shapeCategorySpend(rows []categorySpendRow) ([]models.CategorySpend, error) {
	out := make([]models.CategorySpend, 0, len(rows))
	for _, r := range rows {
		total, err := aggregate(r.TotalSpent)
		if err != nil {
			return nil, err
		}
		out = append(out, models.CategorySpend{
			CategoryID:   r.CategoryID,
			CategoryName: r.CategoryName,
			TotalSpent:   total,
		})
	}
	return out, nil
}

func shapeBudgetUsage(rows []budgetUsageRow) ([]models.BudgetUsage, error) {
	out := make([]models.BudgetUsage, 0, len(rows))
	for _, r := range rows {
		total, err := aggregate(r.TotalSpent)
		if err != nil {
			return nil, err
		}
		limit, err := attribute(r.Limit)
		if err != nil {
			return nil, err
		}

		u := models.BudgetUsage{
			CategoryID:   r.CategoryID,
			CategoryName: r.CategoryName,
			Limit:        limit,
			TotalSpent:   total,
		}
		if r.BudgetID.Valid {
			id := r.BudgetID.Int64
			u.BudgetID = &id
		}
		if r.BudgetName.Valid {
			name := r.BudgetName.String
			u.BudgetName = &name
		}
		out = append(out, u)
	}
	return out, nil
}

func shapeWalletSpend(rows []walletSpendRow) ([]models.WalletSpend, error) {
	out := make([]models.WalletSpend, 0, len(rows))
	for _, r := range rows {
		balance, err := aggregate(r.Balance)
		if err != nil {
			return nil, err
		}
		total, err := aggregate(r.TotalSpent)
		if err != nil {
			return nil, err
		}
		out = append(out, models.WalletSpend{
			WalletID:   r.WalletID,
			WalletName: r.WalletName,
			Balance:    balance,
			TotalSpent: total,
		})
	}
	return out, nil
}

func shapeMonthlySpend(rows []monthlySpendRow) ([]models.MonthlySpend, error) {
	out := make([]models.MonthlySpend, 0, len(rows))
	for _, r := range rows {
		total, err := aggregate(r.TotalSpent)
		if err != nil {
			return nil, err
		}
		out = append(out, models.MonthlySpend{
			Month:      models.DateOf(r.Month).FirstOfMonth(),
			TotalSpent: total,
		})
	}
	return out, nil
}
