package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	db "spendwise-server/src/db/sql"
	"spendwise-server/src/logger"
	"spendwise-server/src/models"
	"spendwise-server/src/util"
)

// parseExpenseFilters reads search, categoryId, min_amount, max_amount, sort
// and order from the query string.
func parseExpenseFilters(q url.Values) ([]db.ExpenseFilter, error) {
	var filters []db.ExpenseFilter

	if search := strings.TrimSpace(q.Get("search")); search != "" {
		filters = append(filters, db.BySearch{Term: search})
	}

	if raw := q.Get("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: categoryId %q", db.ErrInvalidFilter, raw)
		}
		filters = append(filters, db.ByCategory{CategoryID: id})
	}

	var (
		amounts db.ByAmountRange
		err     error
	)
	if amounts.Min, err = amountParam(q, "min_amount"); err != nil {
		return nil, err
	}
	if amounts.Max, err = amountParam(q, "max_amount"); err != nil {
		return nil, err
	}
	if amounts.Min != nil || amounts.Max != nil {
		if err := amounts.Validate(); err != nil {
			return nil, err
		}
		filters = append(filters, amounts)
	}

	sortParam, orderParam := q.Get("sort"), q.Get("order")
	if sortParam != "" || orderParam != "" {
		sort := db.BySort{Field: db.SortByDate, Desc: true}
		if sortParam != "" {
			field, err := db.ParseSortField(sortParam)
			if err != nil {
				return nil, err
			}
			sort.Field = field
		}
		switch strings.ToLower(orderParam) {
		case "", "desc":
		case "asc":
			sort.Desc = false
		default:
			return nil, fmt.Errorf("%w: unknown order %q", db.ErrInvalidFilter, orderParam)
		}
		filters = append(filters, sort)
	}

	return filters, nil
}

func amountParam(q url.Values, param string) (*models.Money, error) {
	raw := q.Get(param)
	if raw == "" {
		return nil, nil
	}
	m, err := models.ParseMoney(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", db.ErrInvalidFilter, param, err)
	}
	return &m, nil
}

func validateExpense(e *models.Expense) error {
	if strings.TrimSpace(e.Description) == "" {
		return errors.New("description is required")
	}
	if !util.ValidateAmount(e.Amount) {
		return errors.New("amount must be a non-negative amount")
	}
	return nil
}

func CreateExpense(pool db.DBTX) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		var req struct {
			Description string        `json:"description"`
			Amount      *models.Money `json:"amount"`
			Date        *models.Date  `json:"date"`
			CategoryID  *int64        `json:"categoryId"`
			WalletID    *int64        `json:"walletId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			requestLog(r, logger.OpCreate).Warn().Err(err).Msg("failed to decode create expense request body")
			writeMessage(w, http.StatusBadRequest, "invalid request")
			return
		}
		if req.Amount == nil || req.CategoryID == nil || req.WalletID == nil {
			writeMessage(w, http.StatusBadRequest, "amount, categoryId and walletId are required")
			return
		}

		expense := &models.Expense{
			Description: strings.TrimSpace(req.Description),
			Amount:      *req.Amount,
			Date:        models.DateOf(time.Now()),
			UserID:      userID,
			CategoryID:  *req.CategoryID,
			WalletID:    *req.WalletID,
		}
		if req.Date != nil {
			expense.Date = *req.Date
		}
		if err := validateExpense(expense); err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}

		created, err := db.CreateExpense(r.Context(), pool, expense)
		if err != nil {
			writeStoreError(w, r, err, logger.OpCreate, "expense")
			return
		}
		requestLog(r, logger.OpCreate).Info().Int64("expense_id", created.ID).Msg("created expense")
		writeJSON(w, http.StatusCreated, created)
	}
}

func GetExpensesForUser(pool db.DBTX) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := parseExpenseFilters(r.URL.Query())
		if err != nil {
			requestLog(r, logger.OpList).Warn().Err(err).Msg("rejected expense filters")
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}

		expenses, err := db.GetExpensesForUser(r.Context(), pool, currentUserID(r), filters...)
		if err != nil {
			writeStoreError(w, r, err, logger.OpList, "expense")
			return
		}
		writeJSON(w, http.StatusOK, expenses)
	}
}

func UpdateExpense(pool db.DBTX) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		expenseID, err := pathID(r, "expense_id")
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid expense id")
			return
		}
		var req models.UpdateExpenseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			requestLog(r, logger.OpUpdate).Warn().Err(err).Msg("failed to decode update expense request body")
			writeMessage(w, http.StatusBadRequest, "invalid request")
			return
		}

		expense, err := db.GetExpenseByID(r.Context(), pool, userID, expenseID)
		if err != nil {
			writeStoreError(w, r, err, logger.OpUpdate, "expense")
			return
		}
		req.Apply(expense)
		expense.Description = strings.TrimSpace(expense.Description)
		if err := validateExpense(expense); err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}

		updated, err := db.UpdateExpense(r.Context(), pool, expense)
		if err != nil {
			writeStoreError(w, r, err, logger.OpUpdate, "expense")
			return
		}
		requestLog(r, logger.OpUpdate).Info().Int64("expense_id", updated.ID).Msg("updated expense")
		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteExpense(pool db.DBTX) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		expenseID, err := pathID(r, "expense_id")
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid expense id")
			return
		}
		if err := db.DeleteExpense(r.Context(), pool, currentUserID(r), expenseID); err != nil {
			writeStoreError(w, r, err, logger.OpDelete, "expense")
			return
		}
		requestLog(r, logger.OpDelete).Info().Int64("expense_id", expenseID).Msg("deleted expense")
		writeMessage(w, http.StatusOK, "expense deleted")
	}
}
