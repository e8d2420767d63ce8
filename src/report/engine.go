package report

import (
	"context"
	"fmt"
	"time"

	db "spendwise-server/src/db/sql"
	"spendwise-server/src/logger"
	"spendwise-server/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrStoreFailure is the only error a report returns.
var ErrStoreFailure = db.ErrStoreFailure

// Engine runs the report pipelines against the ledger. Every pipeline is a
// single read-only query scoped to one user, so an Engine is safe for
// concurrent use.
type Engine struct {
	db  db.DBTX
	log zerolog.Logger
}

func NewEngine(q db.DBTX, log zerolog.Logger) *Engine {
	return &Engine{
		db:  q,
		log: log.With().Str(logger.FieldComponent, logger.ComponentReport).Logger(),
	}
}

// run executes one pipeline and collects its raw rows.
func run[R any](ctx context.Context, e *Engine, p pipeline, userID int64, scan pgx.RowToFunc[R]) ([]R, error) {
	query, args, err := p.query(userID)
	if err != nil {
		return nil, e.fail(p, userID, err)
	}

	start := time.Now()
	rows, err := e.db.Query(ctx, query, args...)
	if err != nil {
		return nil, e.fail(p, userID, err)
	}
	out, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return nil, e.fail(p, userID, err)
	}

	e.log.Debug().
		Str(logger.FieldPipeline, p.name).
		Str("join", p.join.String()).
		Int64(logger.FieldUserID, userID).
		Int(logger.FieldRows, len(out)).
		Dur(logger.FieldDuration, time.Since(start)).
		Msg("report pipeline finished")
	return out, nil
}

func (e *Engine) fail(p pipeline, userID int64, err error) error {
	e.log.Error().
		Err(err).
		Str(logger.FieldPipeline, p.name).
		Int64(logger.FieldUserID, userID).
		Msg("report pipeline failed")
	return fmt.Errorf("%w: %s: %w", ErrStoreFailure, p.name, err)
}

// SpendByCategory sums expenses per category, largest first.
func (e *Engine) SpendByCategory(ctx context.Context, userID int64) ([]models.CategorySpend, error) {
	rows, err := run(ctx, e, spendByCategory, userID, scanCategorySpend)
	if err != nil {
		return nil, err
	}
	return shapeCategorySpend(rows)
}

// BudgetVsSpend lists every category with its budget (if any) and spend.
func (e *Engine) BudgetVsSpend(ctx context.Context, userID int64) ([]models.BudgetUsage, error) {
	rows, err := run(ctx, e, budgetVsSpend, userID, scanBudgetUsage)
	if err != nil {
		return nil, err
	}
	return shapeBudgetUsage(rows)
}

// WalletBalances reports each wallet's stored balance and its spend.
func (e *Engine) WalletBalances(ctx context.Context, userID int64) ([]models.WalletSpend, error) {
	rows, err := run(ctx, e, walletBalances, userID, scanWalletSpend)
	if err != nil {
		return nil, err
	}
	return shapeWalletSpend(rows)
}

// MonthlySummary sums expenses per calendar month, newest first.
func (e *Engine) MonthlySummary(ctx context.Context, userID int64) ([]models.MonthlySpend, error) {
	rows, err := run(ctx, e, monthlySummary, userID, scanMonthlySpend)
	if err != nil {
		return nil, err
	}
	return shapeMonthlySpend(rows)
}

// Overview runs all four pipelines concurrently. Any failure fails the whole
// overview.
func (e *Engine) Overview(ctx context.Context, userID int64) (*models.ReportOverview, error) {
	var o models.ReportOverview
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		o.SpendByCategory, err = e.SpendByCategory(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		o.BudgetVsSpend, err = e.BudgetVsSpend(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		o.WalletBalances, err = e.WalletBalances(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		o.MonthlySummary, err = e.MonthlySummary(ctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &o, nil
}
