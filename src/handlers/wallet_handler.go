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

func CreateWallet(pool db.DBTX) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		var req struct {
			Name    string        `json:"name"`
			Balance *models.Money `json:"balance"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			requestLog(r, logger.OpCreate).Warn().Err(err).Msg("failed to decode create wallet request body")
			writeMessage(w, http.StatusBadRequest, "invalid request")
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if !util.ValidateName(req.Name) {
			writeMessage(w, http.StatusBadRequest, "name is required")
			return
		}
		if req.Balance == nil || !util.ValidateAmount(*req.Balance) {
			writeMessage(w, http.StatusBadRequest, "balance must be a non-negative amount")
			return
		}

		created, err := db.CreateWallet(r.Context(), pool, &models.Wallet{Name: req.Name, Balance: *req.Balance, UserID: userID})
		if err != nil {
			writeStoreError(w, r, err, logger.OpCreate, "wallet")
			return
		}
		requestLog(r, logger.OpCreate).Info().Int64("wallet_id", created.ID).Msg("created wallet")
		writeJSON(w, http.StatusCreated, created)
	}
}

func GetAllWalletsForUser(pool db.DBTX) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallets, err := db.GetAllWalletsForUser(r.Context(), pool, currentUserID(r), r.URL.Query().Get("search"))
		if err != nil {
			writeStoreError(w, r, err, logger.OpList, "wallet")
			return
		}
		writeJSON(w, http.StatusOK, wallets)
	}
}

func UpdateWallet(pool db.DBTX) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		walletID, err := pathID(r, "wallet_id")
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid wallet id")
			return
		}
		var req models.UpdateWalletRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			requestLog(r, logger.OpUpdate).Warn().Err(err).Msg("failed to decode update wallet request body")
			writeMessage(w, http.StatusBadRequest, "invalid request")
			return
		}

		wallet, err := db.GetWalletByID(r.Context(), pool, userID, walletID)
		if err != nil {
			writeStoreError(w, r, err, logger.OpUpdate, "wallet")
			return
		}
		req.Apply(wallet)
		wallet.Name = strings.TrimSpace(wallet.Name)
		if !util.ValidateName(wallet.Name) {
			writeMessage(w, http.StatusBadRequest, "name must not be empty")
			return
		}
		if !util.ValidateAmount(wallet.Balance) {
			writeMessage(w, http.StatusBadRequest, "balance must be a non-negative amount")
			return
		}

		updated, err := db.UpdateWallet(r.Context(), pool, wallet)
		if err != nil {
			writeStoreError(w, r, err, logger.OpUpdate, "wallet")
			return
		}
		requestLog(r, logger.OpUpdate).Info().Int64("wallet_id", updated.ID).Msg("updated wallet")
		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteWallet(pool db.DBTX) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		walletID, err := pathID(r, "wallet_id")
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid wallet id")
			return
		}
		if err := db.DeleteWallet(r.Context(), pool, currentUserID(r), walletID); err != nil {
			writeStoreError(w, r, err, logger.OpDelete, "wallet")
			return
		}
		requestLog(r, logger.OpDelete).Info().Int64("wallet_id", walletID).Msg("deleted wallet")
		writeMessage(w, http.StatusOK, "wallet deleted")
	}
}
