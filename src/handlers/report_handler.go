package handlers

import (
	"context"
	"net/http"

	"spendwise-server/src/logger"
	"spendwise-server/src/models"

	"github.com/rs/zerolog/hlog"
)

// Reports is the read side the report endpoints need.
type Reports interface {
	SpendByCategory(ctx context.Context, userID int64) ([]models.CategorySpend, error)
	BudgetVsSpend(ctx context.Context, userID int64) ([]models.BudgetUsage, error)
	WalletBalances(ctx context.Context, userID int64) ([]models.WalletSpend, error)
	MonthlySummary(ctx context.Context, userID int64) ([]models.MonthlySpend, error)
	Overview(ctx context.Context, userID int64) (*models.ReportOverview, error)
}

func reportHandler[T any](name string, run func(ctx context.Context, userID int64) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := run(r.Context(), currentUserID(r))
		if err != nil {
			hlog.FromRequest(r).Error().
				Err(err).
				Str(logger.FieldComponent, logger.ComponentReport).
				Str(logger.FieldOperation, logger.OpReport).
				Str(logger.FieldPipeline, name).
				Msg("failed to build report")
			writeMessage(w, http.StatusInternalServerError, "failed to build report")
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func SpendByCategoryReport(reports Reports) http.HandlerFunc {
	return reportHandler("spend_by_category", reports.SpendByCategory)
}

func BudgetVsSpendReport(reports Reports) http.HandlerFunc {
	return reportHandler("budget_vs_spend", reports.BudgetVsSpend)
}

func WalletBalancesReport(reports Reports) http.HandlerFunc {
	return reportHandler("wallet_balances", reports.WalletBalances)
}

func MonthlySummaryReport(reports Reports) http.HandlerFunc {
	return reportHandler("monthly_summary", reports.MonthlySummary)
}

func OverviewReport(reports Reports) http.HandlerFunc {
	return reportHandler("overview", reports.Overview)
}
