package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	db "spendwise-server/src/db/sql"
	"spendwise-server/src/logger"
	"spendwise-server/src/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeStoreError answers with a generic message for the error kind. The
// cause only goes to the log.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, op, entity string) {
	log := requestLog(r, op)
	switch {
	case errors.Is(err, db.ErrNotFound):
		log.Warn().Err(err).Msgf("%s not found", entity)
		writeMessage(w, http.StatusNotFound, entity+" not found")
	case errors.Is(err, db.ErrNotOwned):
		log.Warn().Err(err).Msgf("%s references a row the user does not own", entity)
		writeMessage(w, http.StatusNotFound, "referenced category or wallet not found")
	case errors.Is(err, db.ErrConflict):
		log.Warn().Err(err).Msgf("%s conflicts with an existing row", entity)
		writeMessage(w, http.StatusConflict, entity+" already exists")
	default:
		log.Error().Err(err).Msgf("failed to %s %s", op, entity)
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func requestLog(r *http.Request, op string) *zerolog.Logger {
	l := hlog.FromRequest(r).With().
		Str(logger.FieldComponent, logger.ComponentStore).
		Str(logger.FieldOperation, op).
		Logger()
	return &l
}

// currentUserID reads the id the auth middleware stored. Handlers are only
// mounted behind that middleware.
func currentUserID(r *http.Request) int64 {
	id, _ := middleware.UserIDFromContext(r.Context())
	return id
}

func pathID(r *http.Request, param string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, param), 10, 64)
}
