package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	db "spendwise-server/src/db/sql"
	"spendwise-server/src/middleware"
	"spendwise-server/src/models"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testUserID int64 = 1

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

// serve routes one request through a router that authenticates everyone as
// testUserID.
func serve(method, pattern, target, body string, h http.HandlerFunc) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), testUserID)))
		})
	})
	r.Method(method, pattern, h)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func expectOwned(mock pgxmock.PgxPoolIface, table string, id int64, owned bool) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM "+table)).
		WithArgs(id, testUserID).
		WillReturnRows(mock.NewRows([]string{"exists"}).AddRow(owned))
}

type fakeReports struct {
	spend []models.CategorySpend
	err   error
}

func (f fakeReports) SpendByCategory(context.Context, int64) ([]models.CategorySpend, error) {
	return f.spend, f.err
}

func (f fakeReports) BudgetVsSpend(context.Context, int64) ([]models.BudgetUsage, error) {
	return []models.BudgetUsage{}, f.err
}

func (f fakeReports) WalletBalances(context.Context, int64) ([]models.WalletSpend, error) {
	return []models.WalletSpend{}, f.err
}

func (f fakeReports) MonthlySummary(context.Context, int64) ([]models.MonthlySpend, error) {
	return []models.MonthlySpend{}, f.err
}

func (f fakeReports) Overview(context.Context, int64) (*models.ReportOverview, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.ReportOverview{
		SpendByCategory: f.spend,
		BudgetVsSpend:   []models.BudgetUsage{},
		WalletBalances:  []models.WalletSpend{},
		MonthlySummary:  []models.MonthlySpend{},
	}, nil
}

func TestReportHandlers(t *testing.T) {
	reports := fakeReports{spend: []models.CategorySpend{
		{CategoryID: 1, CategoryName: "Food", TotalSpent: models.MoneyFromCents(20000)},
	}}

	rec := serve(http.MethodGet, "/r", "/r", "", SpendByCategoryReport(reports))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `[{"categoryId":1,"categoryName":"Food","totalSpent":200.00}]`, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"totalSpent":200.00`)

	rec = serve(http.MethodGet, "/r", "/r", "", WalletBalancesReport(reports))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	rec = serve(http.MethodGet, "/r", "/r", "", OverviewReport(reports))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"monthlySummary":[]`)
}

func TestReportHandlerFailureIsGeneric(t *testing.T) {
	reports := fakeReports{err: errors.New("store failure: pq: relation does not exist")}

	for _, h := range []http.HandlerFunc{
		SpendByCategoryReport(reports),
		BudgetVsSpendReport(reports),
		WalletBalancesReport(reports),
		MonthlySummaryReport(reports),
		OverviewReport(reports),
	} {
		rec := serve(http.MethodGet, "/r", "/r", "", h)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"message":"failed to build report"}`, rec.Body.String())
	}
}

func TestParseExpenseFilters(t *testing.T) {
	valid := []struct {
		query string
		want  int
	}{
		{"", 0},
		{"search=taxi", 1},
		{"search=taxi&categoryId=3", 2},
		{"min_amount=5&max_amount=20.50", 1},
		{"sort=amount&order=asc", 1},
		{"order=asc", 1},
	}
	for _, tt := range valid {
		q, err := url.ParseQuery(tt.query)
		require.NoError(t, err)
		filters, err := parseExpenseFilters(q)
		require.NoError(t, err, tt.query)
		assert.Len(t, filters, tt.want, tt.query)
	}

	invalid := []string{
		"categoryId=food",
		"min_amount=abc",
		"max_amount=1.234",
		"min_amount=20&max_amount=5",
		"sort=price",
		"order=sideways",
	}
	for _, query := range invalid {
		q, err := url.ParseQuery(query)
		require.NoError(t, err)
		_, err = parseExpenseFilters(q)
		assert.ErrorIs(t, err, db.ErrInvalidFilter, query)
	}
}

func TestParseExpenseFiltersSortDefaults(t *testing.T) {
	q, err := url.ParseQuery("sort=amount")
	require.NoError(t, err)
	filters, err := parseExpenseFilters(q)
	require.NoError(t, err)
	assert.Equal(t, []db.ExpenseFilter{db.BySort{Field: db.SortByAmount, Desc: true}}, filters)
}

func TestGetExpensesRejectsBadFilter(t *testing.T) {
	mock := newMock(t)
	rec := serve(http.MethodGet, "/api/expenses", "/api/expenses?sort=price", "", GetExpensesForUser(mock))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBudget(t *testing.T) {
	t.Run("foreign category is not found", func(t *testing.T) {
		mock := newMock(t)
		expectOwned(mock, "categories", 9, false)

		rec := serve(http.MethodPost, "/api/budgets", "/api/budgets",
			`{"name":"Cap","limit":500,"categoryId":9}`, CreateBudget(mock))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("second budget for a category conflicts", func(t *testing.T) {
		mock := newMock(t)
		now := time.Now()
		expectOwned(mock, "categories", 3, true)
		mock.ExpectQuery(regexp.QuoteMeta("FROM budgets WHERE user_id = $1 AND category_id = $2")).
			WithArgs(testUserID, int64(3)).
			WillReturnRows(mock.NewRows([]string{"id", "name", "limit", "user_id", "category_id", "created_at", "updated_at"}).
				AddRow(int64(2), "Old", "100.00", testUserID, int64(3), now, now))

		rec := serve(http.MethodPost, "/api/budgets", "/api/budgets",
			`{"name":"Cap","limit":500,"categoryId":3}`, CreateBudget(mock))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("limit with three decimals is rejected", func(t *testing.T) {
		mock := newMock(t)
		rec := serve(http.MethodPost, "/api/budgets", "/api/budgets",
			`{"name":"Cap","limit":1.005,"categoryId":3}`, CreateBudget(mock))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("negative limit is rejected", func(t *testing.T) {
		mock := newMock(t)
		rec := serve(http.MethodPost, "/api/budgets", "/api/budgets",
			`{"name":"Cap","limit":-1,"categoryId":3}`, CreateBudget(mock))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCreateCategoryConflict(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO categories")).
		WithArgs("Food", testUserID).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	rec := serve(http.MethodPost, "/api/categories", "/api/categories", `{"name":" Food "}`, CreateCategory(mock))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"message":"category already exists"}`, rec.Body.String())
}

func TestUpdateExpenseOnlyOverwritesProvidedFields(t *testing.T) {
	mock := newMock(t)
	now := time.Now()
	cols := []string{"id", "description", "amount", "date", "user_id", "category_id", "wallet_id", "created_at", "updated_at"}
	day := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM expenses WHERE id = $1 AND user_id = $2")).
		WithArgs(int64(11), testUserID).
		WillReturnRows(mock.NewRows(cols).AddRow(int64(11), "Lunch", "10.00", day, testUserID, int64(3), int64(4), now, now))
	expectOwned(mock, "categories", 3, true)
	expectOwned(mock, "wallets", 4, true)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE expenses")).
		WithArgs("Team lunch", pgxmock.AnyArg(), day, int64(3), int64(4), int64(11), testUserID).
		WillReturnRows(mock.NewRows(cols).AddRow(int64(11), "Team lunch", "10.00", day, testUserID, int64(3), int64(4), now, now))

	rec := serve(http.MethodPatch, "/api/expenses/{expense_id}", "/api/expenses/11",
		`{"description":"Team lunch"}`, UpdateExpense(mock))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"amount":10.00`)
	assert.Contains(t, rec.Body.String(), `"date":"2024-01-05"`)
}

func TestDeleteExpenseOfAnotherUserIsNotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM expenses")).
		WithArgs(int64(11), testUserID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	rec := serve(http.MethodDelete, "/api/expenses/{expense_id}", "/api/expenses/11", "", DeleteExpense(mock))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvalidPathID(t *testing.T) {
	mock := newMock(t)
	rec := serve(http.MethodDelete, "/api/wallets/{wallet_id}", "/api/wallets/abc", "", DeleteWallet(mock))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

var testTokens = middleware.Tokens{Secret: []byte("test-secret"), Expiry: time.Hour}

func userRows(mock pgxmock.PgxPoolIface, hash []byte) *pgxmock.Rows {
	return mock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}).
		AddRow(testUserID, "maria", "maria@example.com", hash, time.Now())
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Secr3t!pass"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
			WithArgs("maria@example.com").
			WillReturnRows(userRows(mock, hash))

		rec := serve(http.MethodPost, "/api/auth/login", "/api/auth/login",
			`{"email":"Maria@Example.com","password":"Secr3t!pass"}`, Login(mock, testTokens))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"token":"`)
	})

	t.Run("wrong password", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
			WithArgs("maria@example.com").
			WillReturnRows(userRows(mock, hash))

		rec := serve(http.MethodPost, "/api/auth/login", "/api/auth/login",
			`{"email":"maria@example.com","password":"wrong"}`, Login(mock, testTokens))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
			WithArgs("nobody@example.com").
			WillReturnError(pgx.ErrNoRows)

		rec := serve(http.MethodPost, "/api/auth/login", "/api/auth/login",
			`{"email":"nobody@example.com","password":"x"}`, Login(mock, testTokens))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRegister(t *testing.T) {
	t.Run("duplicate email", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs("maria", "maria@example.com", pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		rec := serve(http.MethodPost, "/api/auth/register", "/api/auth/register",
			`{"username":"maria","email":"maria@example.com","password":"Secr3t!pass"}`, Register(mock, testTokens))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("weak password", func(t *testing.T) {
		mock := newMock(t)
		rec := serve(http.MethodPost, "/api/auth/register", "/api/auth/register",
			`{"username":"maria","email":"maria@example.com","password":"short"}`, Register(mock, testTokens))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("created", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs("maria", "maria@example.com", pgxmock.AnyArg()).
			WillReturnRows(userRows(mock, []byte("hash")))

		rec := serve(http.MethodPost, "/api/auth/register", "/api/auth/register",
			`{"username":"maria","email":"maria@example.com","password":"Secr3t!pass"}`, Register(mock, testTokens))
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"email":"maria@example.com"`)
	})
}

type evictions []int64

func (e *evictions) Get(int64) (*models.User, bool) { return nil, false }

func (e *evictions) Set(*models.User) {}

func (e *evictions) Del(id int64) { *e = append(*e, id) }

func TestDeleteAccountEvictsCachedUser(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
		WithArgs(testUserID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	var evicted evictions
	rec := serve(http.MethodDelete, "/api/auth/account", "/api/auth/account", "", DeleteAccount(mock, &evicted))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, evictions{testUserID}, evicted)
}

func TestGetUserHidesPasswordHash(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs(testUserID).
		WillReturnRows(userRows(mock, []byte("secret-hash")))

	rec := serve(http.MethodGet, "/api/user", "/api/user", "", GetUser(mock))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret-hash")
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestChangePassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Secr3t!pass"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
			WithArgs(testUserID).
			WillReturnRows(userRows(mock, hash))

		rec := serve(http.MethodPost, "/api/user/change-password", "/api/user/change-password",
			`{"current_password":"nope","new_password":"N3w!passw0rd"}`, ChangePassword(mock))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("changed", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
			WithArgs(testUserID).
			WillReturnRows(userRows(mock, hash))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
			WithArgs(pgxmock.AnyArg(), testUserID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		rec := serve(http.MethodPost, "/api/user/change-password", "/api/user/change-password",
			`{"current_password":"Secr3t!pass","new_password":"N3w!passw0rd"}`, ChangePassword(mock))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
