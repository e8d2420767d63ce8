package api

import (
	"net/http"

	"spendwise-server/src/config"
	db "spendwise-server/src/db/sql"
	"spendwise-server/src/handlers"
	"spendwise-server/src/middleware"
	"spendwise-server/src/report"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func NewRouter(pool db.DBTX, users middleware.UserCache, cfg config.Config, log zerolog.Logger) *chi.Mux {
	tokens := middleware.Tokens{Secret: []byte(cfg.JWTSecret), Expiry: cfg.JWTExpiry}
	reports := report.NewEngine(pool, log)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.ReadOnlyMiddleware(cfg.ReadOnly))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", handlers.Login(pool, tokens))
		r.Post("/auth/register", handlers.Register(pool, tokens))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware(tokens, pool, users)).Group(func(r chi.Router) {
			// User
			r.Delete("/auth/account", handlers.DeleteAccount(pool, users))
			r.Get("/user", handlers.GetUser(pool))
			r.Post("/user/change-password", handlers.ChangePassword(pool))

			// Categories
			r.Post("/categories", handlers.CreateCategory(pool))
			r.Get("/categories", handlers.GetAllCategoriesForUser(pool))
			r.Patch("/categories/{category_id}", handlers.UpdateCategory(pool))
			r.Delete("/categories/{category_id}", handlers.DeleteCategory(pool))

			// Wallets
			r.Post("/wallets", handlers.CreateWallet(pool))
			r.Get("/wallets", handlers.GetAllWalletsForUser(pool))
			r.Patch("/wallets/{wallet_id}", handlers.UpdateWallet(pool))
			r.Delete("/wallets/{wallet_id}", handlers.DeleteWallet(pool))

			// Budgets
			r.Post("/budgets", handlers.CreateBudget(pool))
			r.Get("/budgets", handlers.GetAllBudgetsForUser(pool))
			r.Patch("/budgets/{budget_id}", handlers.UpdateBudget(pool))
			r.Delete("/budgets/{budget_id}", handlers.DeleteBudget(pool))

			// Expenses
			r.Post("/expenses", handlers.CreateExpense(pool))
			r.Get("/expenses", handlers.GetExpensesForUser(pool))
			r.Patch("/expenses/{expense_id}", handlers.UpdateExpense(pool))
			r.Delete("/expenses/{expense_id}", handlers.DeleteExpense(pool))

			// Reports
			r.Get("/reports/totalSpent/byCategory", handlers.SpendByCategoryReport(reports))
			r.Get("/reports/budgets/categoryLimit", handlers.BudgetVsSpendReport(reports))
			r.Get("/reports/wallets/balances", handlers.WalletBalancesReport(reports))
			r.Get("/reports/expenses/monthlySummary", handlers.MonthlySummaryReport(reports))
			r.Get("/reports/overview", handlers.OverviewReport(reports))
		})
	})

	return r
}
