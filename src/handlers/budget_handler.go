package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	db "spendwise-server/src/db/sql"
	"spendwise-server/src/logger"
	"spendwise-server/src/models"
	"spendwise-server/src/util"
)

func CreateBudget(pool db.DBTX) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		var req struct {
			Name       string        `json:"name"`
			Limit      *models.Money `json:"limit"`
			CategoryID *int64        `json:"categoryId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			requestLog(r, logger.OpCreate).Warn().Err(err).Msg("failed to decode create budget request body")
			writeMessage(w, http.StatusBadRequest, "invalid request")
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if !util.ValidateName(req.Name) {
			writeMessage(w, http.StatusBadRequest, "name is required")
			return
		}
		if req.Limit == nil || !util.ValidateAmount(*req.Limit) {
			writeMessage(w, http.StatusBadRequest, "limit must be a non-negative amount")
			return
		}
		if req.CategoryID == nil {
			writeMessage(w, http.StatusBadRequest, "categoryId is required")
			return
		}

		budget := &models.Budget{
			Name:       req.Name,
			Limit:      *req.Limit,
			UserID:     userID,
			CategoryID: *req.CategoryID,
		}
		created, err := db.CreateBudget(r.Context(), pool, budget)
		if err != nil {
			writeStoreError(w, r, err, logger.OpCreate, "budget")
			return
		}
		requestLog(r, logger.OpCreate).Info().
			Int64("budget_id", created.ID).
			Int64("category_id", created.CategoryID).
			Msg("created budget")
		writeJSON(w, http.StatusCreated, created)
	}
}

func GetAllBudgetsForUser(pool db.DBTX) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		budgets, err := db.GetAllBudgetsForUser(r.Context(), pool, currentUserID(r), r.URL.Query().Get("search"))
		if err != nil {
			writeStoreError(w, r, err, logger.OpList, "budget")
			return
		}
		writeJSON(w, http.StatusOK, budgets)
	}
}

func UpdateBudget(pool db.DBTX) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		budgetID, err := pathID(r, "budget_id")
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid budget id")
			return
		}
		var req models.UpdateBudgetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			requestLog(r, logger.OpUpdate).Warn().Err(err).Msg("failed to decode update budget request body")
			writeMessage(w, http.StatusBadRequest, "invalid request")
			return
		}

		budget, err := db.GetBudgetByID(r.Context(), pool, userID, budgetID)
		if err != nil {
			writeStoreError(w, r, err, logger.OpUpdate, "budget")
			return
		}
		req.Apply(budget)
		budget.Name = strings.TrimSpace(budget.Name)
		if !util.ValidateName(budget.Name) {
			writeMessage(w, http.StatusBadRequest, "name must not be empty")
			return
		}
		if !util.ValidateAmount(budget.Limit) {
			writeMessage(w, http.StatusBadRequest, "limit must be a non-negative amount")
			return
		}

		updated, err := db.UpdateBudget(r.Context(), pool, budget)
		if err != nil {
			writeStoreError(w, r, err, logger.OpUpdate, "budget")
			return
		}
		requestLog(r, logger.OpUpdate).Info().Int64("budget_id", updated.ID).Msg("updated budget")
		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteBudget(pool db.DBTX) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		budgetID, err := pathID(r, "budget_id")
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid budget id")
			return
		}
		if err := db.DeleteBudget(r.Context(), pool, currentUserID(r), budgetID); err != nil {
			writeStoreError(w, r, err, logger.OpDelete, "budget")
			return
		}
		requestLog(r, logger.OpDelete).Info().Int64("budget_id", budgetID).Msg("deleted budget")
		writeMessage(w, http.StatusOK, "budget deleted")
	}
}
