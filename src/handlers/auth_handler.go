package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	db "spendwise-server/src/db/sql"
	"spendwise-server/src/logger"
	"spendwise-server/src/middleware"
	"spendwise-server/src/models"
	"spendwise-server/src/util"

	"github.com/rs/zerolog/hlog"
	"golang.org/x/crypto/bcrypt"
)

func Register(pool db.DBTX, tokens middleware.Tokens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := hlog.FromRequest(r).With().Str(logger.FieldComponent, logger.ComponentAuth).Logger()

		var req models.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn().Err(err).Msg("failed to decode register request body")
			writeMessage(w, http.StatusBadRequest, "invalid request")
			return
		}

		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		req.Username = strings.TrimSpace(req.Username)

		if !util.ValidateEmail(req.Email) {
			writeMessage(w, http.StatusBadRequest, "invalid email format")
			return
		}
		if !util.ValidateUsername(req.Username) {
			writeMessage(w, http.StatusBadRequest, "username must be between 3 and 30 characters")
			return
		}
		if !util.ValidatePassword(req.Password) {
			writeMessage(w, http.StatusBadRequest, "password must be at least 8 characters with uppercase, lowercase, digit, and special character")
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Error().Err(err).Msg("failed to hash password")
			writeMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		user, err := db.CreateUser(r.Context(), pool, req, hashedPassword)
		if errors.Is(err, db.ErrConflict) {
			log.Warn().Str("username", req.Username).Msg("registration with taken email or username")
			writeMessage(w, http.StatusConflict, "email or username already exists")
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("failed to create user")
			writeMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		token, err := tokens.Issue(user)
		if err != nil {
			log.Error().Err(err).Int64(logger.FieldUserID, user.ID).Msg("failed to sign token")
			writeMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		log.Info().Int64(logger.FieldUserID, user.ID).Msg("registered user")
		writeJSON(w, http.StatusCreated, models.AuthResponse{ID: user.ID, Email: user.Email, Token: token})
	}
}

func Login(pool db.DBTX, tokens middleware.Tokens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := hlog.FromRequest(r).With().Str(logger.FieldComponent, logger.ComponentAuth).Logger()

		var credentials models.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
			log.Warn().Err(err).Msg("failed to decode login request body")
			writeMessage(w, http.StatusBadRequest, "invalid request")
			return
		}

		user, err := db.GetUserByEmail(r.Context(), pool, strings.ToLower(strings.TrimSpace(credentials.Email)))
		if errors.Is(err, db.ErrNotFound) {
			log.Warn().Msg("login for unknown email")
			writeMessage(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("failed to load user for login")
			writeMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(credentials.Password)); err != nil {
			log.Warn().Int64(logger.FieldUserID, user.ID).Str("ip", r.RemoteAddr).Msg("invalid password attempt")
			writeMessage(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		token, err := tokens.Issue(user)
		if err != nil {
			log.Error().Err(err).Int64(logger.FieldUserID, user.ID).Msg("failed to sign token")
			writeMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		log.Info().Int64(logger.FieldUserID, user.ID).Msg("successful login")
		writeJSON(w, http.StatusOK, models.AuthResponse{ID: user.ID, Email: user.Email, Token: token})
	}
}

// DeleteAccount removes the caller and everything they own, then drops them
// from the user cache so outstanding tokens stop working.
func DeleteAccount(pool db.DBTX, users middleware.UserCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		if err := db.DeleteUser(r.Context(), pool, userID); err != nil {
			writeStoreError(w, r, err, logger.OpDelete, "user")
			return
		}
		users.Del(userID)

		hlog.FromRequest(r).Info().Str(logger.FieldComponent, logger.ComponentAuth).Msg("deleted account")
		writeMessage(w, http.StatusOK, "account deleted")
	}
}
