package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrNotOwned     = errors.New("not owned by user")
	ErrConflict     = errors.New("already exists")
	ErrStoreFailure = errors.New("store failure")
)

const pgUniqueViolation = "23505"

// mapError folds driver errors into the store's error kinds. The driver
// error stays in the chain for logging.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
	}
	return fmt.Errorf("%w: %w", ErrStoreFailure, err)
}
