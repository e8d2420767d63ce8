package handlers

import (
	"encoding/json"
	"net/http"

	db "spendwise-server/src/db/sql"
	"spendwise-server/src/logger"
	"spendwise-server/src/util"

	"golang.org/x/crypto/bcrypt"
)

func GetUser(pool db.DBTX) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := db.GetUserByID(r.Context(), pool, currentUserID(r))
		if err != nil {
			writeStoreError(w, r, err, logger.OpRead, "user")
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func ChangePassword(pool db.DBTX) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		log := requestLog(r, logger.OpUpdate)

		var req struct {
			CurrentPassword string `json:"current_password"`
			NewPassword     string `json:"new_password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn().Err(err).Msg("failed to decode change password request body")
			writeMessage(w, http.StatusBadRequest, "invalid request")
			return
		}

		user, err := db.GetUserByID(r.Context(), pool, userID)
		if err != nil {
			writeStoreError(w, r, err, logger.OpUpdate, "user")
			return
		}

		if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.CurrentPassword)); err != nil {
			log.Warn().Msg("invalid current password attempt")
			writeMessage(w, http.StatusUnauthorized, "current password is incorrect")
			return
		}

		if !util.ValidatePassword(req.NewPassword) {
			writeMessage(w, http.StatusBadRequest, "password must be at least 8 characters with uppercase, lowercase, digit, and special character")
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Error().Err(err).Msg("failed to hash new password")
			writeMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := db.UpdateUserPassword(r.Context(), pool, userID, hashedPassword); err != nil {
			writeStoreError(w, r, err, logger.OpUpdate, "user")
			return
		}

		log.Info().Msg("password changed")
		writeMessage(w, http.StatusOK, "password changed successfully")
	}
}
