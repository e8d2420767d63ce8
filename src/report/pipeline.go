package report

import (
	db "spendwise-server/src/db/sql"

	sq "github.com/Masterminds/squirrel"
)

// JoinKind decides whether groups without a match on the joined side are
// kept (LeftJoin) or dropped (InnerJoin). Each pipeline names its own.
type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
)

func (k JoinKind) String() string {
	if k == LeftJoin {
		return "left"
	}
	return "inner"
}

func (k JoinKind) keyword() string {
	if k == LeftJoin {
		return "LEFT JOIN"
	}
	return "JOIN"
}

func (k JoinKind) join(b sq.SelectBuilder, clause string, args ...any) sq.SelectBuilder {
	return b.JoinClause(k.keyword()+" "+clause, args...)
}

// joinSubquery joins a derived table. sub must use ? placeholders; the outer
// builder numbers them.
func (k JoinKind) joinSubquery(b sq.SelectBuilder, sub sq.Sqlizer, alias, on string) sq.SelectBuilder {
	return b.JoinClause(sq.ConcatExpr(k.keyword()+" (", sub, ") "+alias+" ON "+on))
}

type pipeline struct {
	name  string
	join  JoinKind
	build func(p pipeline, userID int64) sq.SelectBuilder
}

func (p pipeline) query(userID int64) (string, []any, error) {
	return p.build(p, userID).ToSql()
}

// Categories with no expenses are absent.
var spendByCategory = pipeline{
	name: "spend_by_category",
	join: InnerJoin,
	build: func(p pipeline, userID int64) sq.SelectBuilder {
		b := db.Psql.Select("c.id", "c.name", "SUM(e.amount)::text AS total_spent").
			From("expenses e")
		return p.join.join(b, "categories c ON c.id = e.category_id").
			Where(db.OwnedBy("e.user_id", userID)).
			Where(db.OwnedBy("c.user_id", userID)).
			GroupBy("c.id", "c.name").
			OrderBy("SUM(e.amount) DESC", "c.id ASC")
	},
}

// Every category of the user appears, budgeted or not, spent on or not.
// Spend is summed per category before the join so several budgets on one
// category do not multiply it.
var budgetVsSpend = pipeline{
	name: "budget_vs_spend",
	join: LeftJoin,
	build: func(p pipeline, userID int64) sq.SelectBuilder {
		spent := sq.Select("category_id", "SUM(amount) AS total").
			From("expenses").
			Where(db.OwnedBy("user_id", userID)).
			GroupBy("category_id")

		b := db.Psql.Select("c.id", "c.name", "b.id", "b.name", `b."limit"::text`, "s.total::text AS total_spent").
			From("categories c")
		b = p.join.join(b, "budgets b ON b.category_id = c.id AND b.user_id = ?", userID)
		b = p.join.joinSubquery(b, spent, "s", "s.category_id = c.id")
		return b.
			Where(db.OwnedBy("c.user_id", userID)).
			OrderBy("c.name ASC", "c.id ASC", "b.id ASC NULLS FIRST")
	},
}

// The stored balance is reported beside the spend, never reduced by it.
var walletBalances = pipeline{
	name: "wallet_balances",
	join: InnerJoin,
	build: func(p pipeline, userID int64) sq.SelectBuilder {
		b := db.Psql.Select("w.id", "w.name", "w.balance::text", "SUM(e.amount)::text AS total_spent").
			From("expenses e")
		return p.join.join(b, "wallets w ON w.id = e.wallet_id").
			Where(db.OwnedBy("e.user_id", userID)).
			Where(db.OwnedBy("w.user_id", userID)).
			GroupBy("w.id", "w.name", "w.balance").
			OrderBy("SUM(e.amount) DESC", "w.id ASC")
	},
}

// Only months with at least one expense appear.
var monthlySummary = pipeline{
	name: "monthly_summary",
	join: InnerJoin,
	build: func(p pipeline, userID int64) sq.SelectBuilder {
		return db.Psql.Select("date_trunc('month', e.date)::date AS month", "SUM(e.amount)::text AS total_spent").
			From("expenses e").
			Where(db.OwnedBy("e.user_id", userID)).
			GroupBy("date_trunc('month', e.date)::date").
			OrderBy("month DESC")
	},
}
