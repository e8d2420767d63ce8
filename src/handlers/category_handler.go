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

func CreateCategory(pool db.DBTX) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			requestLog(r, logger.OpCreate).Warn().Err(err).Msg("failed to decode create category request body")
			writeMessage(w, http.StatusBadRequest, "invalid request")
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if !util.ValidateName(req.Name) {
			writeMessage(w, http.StatusBadRequest, "name is required")
			return
		}

		created, err := db.CreateCategory(r.Context(), pool, &models.Category{Name: req.Name, UserID: userID})
		if err != nil {
			writeStoreError(w, r, err, logger.OpCreate, "category")
			return
		}
		requestLog(r, logger.OpCreate).Info().Int64("category_id", created.ID).Msg("created category")
		writeJSON(w, http.StatusCreated, created)
	}
}

func GetAllCategoriesForUser(pool db.DBTX) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := db.GetAllCategoriesForUser(r.Context(), pool, currentUserID(r), r.URL.Query().Get("search"))
		if err != nil {
			writeStoreError(w, r, err, logger.OpList, "category")
			return
		}
		writeJSON(w, http.StatusOK, categories)
	}
}

func UpdateCategory(pool db.DBTX) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		categoryID, err := pathID(r, "category_id")
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid category id")
			return
		}
		var req models.UpdateCategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			requestLog(r, logger.OpUpdate).Warn().Err(err).Msg("failed to decode update category request body")
			writeMessage(w, http.StatusBadRequest, "invalid request")
			return
		}

		category, err := db.GetCategoryByID(r.Context(), pool, userID, categoryID)
		if err != nil {
			writeStoreError(w, r, err, logger.OpUpdate, "category")
			return
		}
		req.Apply(category)
		category.Name = strings.TrimSpace(category.Name)
		if !util.ValidateName(category.Name) {
			writeMessage(w, http.StatusBadRequest, "name must not be empty")
			return
		}

		updated, err := db.UpdateCategory(r.Context(), pool, category)
		if err != nil {
			writeStoreError(w, r, err, logger.OpUpdate, "category")
			return
		}
		requestLog(r, logger.OpUpdate).Info().Int64("category_id", updated.ID).Msg("updated category")
		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteCategory(pool db.DBTX) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := pathID(r, "category_id")
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid category id")
			return
		}
		if err := db.DeleteCategory(r.Context(), pool, currentUserID(r), categoryID); err != nil {
			writeStoreError(w, r, err, logger.OpDelete, "category")
			return
		}
		requestLog(r, logger.OpDelete).Info().Int64("category_id", categoryID).Msg("deleted category")
		writeMessage(w, http.StatusOK, "category deleted")
	}
}
