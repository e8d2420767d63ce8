package db

import (
	"errors"
	"fmt"

	"spendwise-server/src/models"

	sq "github.com/Masterminds/squirrel"
)

var ErrInvalidFilter = errors.New("invalid filter")

type SortField string

const (
	SortByDate   SortField = "date"
	SortByAmount SortField = "amount"
)

func ParseSortField(s string) (SortField, error) {
	switch f := SortField(s); f {
	case SortByDate, SortByAmount:
		return f, nil
	}
	return "", fmt.Errorf("%w: unknown sort field %q", ErrInvalidFilter, s)
}

// ExpenseFilter narrows or orders an expense listing. Filters only ever add
// to the query, so none of them can lift the ownership predicate.
type ExpenseFilter interface {
	apply(expenseQuery) expenseQuery
}

type expenseQuery struct {
	b    sq.SelectBuilder
	sort BySort
}

// BySearch matches a substring of the description, case-insensitively.
type BySearch struct {
	Term string
}

func (f BySearch) apply(q expenseQuery) expenseQuery {
	if f.Term == "" {
		return q
	}
	q.b = q.b.Where(sq.ILike{"description": likePattern(f.Term)})
	return q
}

type ByCategory struct {
	CategoryID int64
}

func (f ByCategory) apply(q expenseQuery) expenseQuery {
	q.b = q.b.Where(sq.Eq{"category_id": f.CategoryID})
	return q
}

// ByAmountRange keeps amounts within [Min, Max]. Either bound may be nil.
type ByAmountRange struct {
	Min *models.Money
	Max *models.Money
}

func (f ByAmountRange) Validate() error {
	if f.Min != nil && f.Max != nil && f.Min.GreaterThan(f.Max.Decimal) {
		return fmt.Errorf("%w: min amount %s exceeds max amount %s", ErrInvalidFilter, f.Min, f.Max)
	}
	return nil
}

func (f ByAmountRange) apply(q expenseQuery) expenseQuery {
	if f.Min != nil {
		q.b = q.b.Where(sq.GtOrEq{"amount": f.Min.String()})
	}
	if f.Max != nil {
		q.b = q.b.Where(sq.LtOrEq{"amount": f.Max.String()})
	}
	return q
}

// BySort replaces the default date-descending order. The last BySort wins.
type BySort struct {
	Field SortField
	Desc  bool
}

func (f BySort) apply(q expenseQuery) expenseQuery {
	if _, err := ParseSortField(string(f.Field)); err != nil {
		return q
	}
	q.sort = f
	return q
}

// ExpenseQuery builds the listing for one user. id breaks every tie in the
// direction of the primary sort.
func ExpenseQuery(userID int64, filters ...ExpenseFilter) sq.SelectBuilder {
	q := expenseQuery{
		b: Psql.Select(expenseColumns).
			From("expenses").
			Where(OwnedBy("user_id", userID)),
		sort: BySort{Field: SortByDate, Desc: true},
	}
	for _, f := range filters {
		q = f.apply(q)
	}

	dir := "ASC"
	if q.sort.Desc {
		dir = "DESC"
	}
	return q.b.OrderBy(string(q.sort.Field)+" "+dir, "id "+dir)
}
