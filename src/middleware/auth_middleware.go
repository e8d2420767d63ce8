package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	db "spendwise-server/src/db/sql"
	"spendwise-server/src/logger"
	"spendwise-server/src/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

type contextKey string

const userIDKey contextKey = "user_id"

// UserIDFromContext returns the authenticated user's id.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserCache is the lookaside cache in front of the users table.
type UserCache interface {
	Get(userID int64) (*models.User, bool)
	Set(user *models.User)
	Del(userID int64)
}

type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 session tokens.
type Tokens struct {
	Secret []byte
	Expiry time.Duration
}

func (t Tokens) Issue(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(t.Expiry)),
		},
	})
	return token.SignedString(t.Secret)
}

// ParseTokenFromRequest extracts and validates JWT token from request, returning claims if valid
func (t Tokens) ParseTokenFromRequest(r *http.Request) (*Claims, error) {
	tokenString := r.Header.Get("Authorization")
	if tokenString == "" {
		return nil, fmt.Errorf("missing token")
	}

	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return t.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return &claims, nil
}

// JWTAuthMiddleware admits requests carrying a valid token whose user still
// exists, and puts the user id in the request context.
func JWTAuthMiddleware(tokens Tokens, pool db.DBTX, users UserCache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := hlog.FromRequest(r)

			claims, err := tokens.ParseTokenFromRequest(r)
			if err != nil {
				log.Warn().Err(err).Str(logger.FieldComponent, logger.ComponentAuth).Msg("rejected request")
				unauthorized(w, err.Error())
				return
			}

			if _, ok := users.Get(claims.UserID); !ok {
				user, err := db.GetUserByID(r.Context(), pool, claims.UserID)
				if errors.Is(err, db.ErrNotFound) {
					log.Warn().Int64(logger.FieldUserID, claims.UserID).Str(logger.FieldComponent, logger.ComponentAuth).Msg("token for deleted user")
					unauthorized(w, "user no longer exists")
					return
				}
				if err != nil {
					log.Error().Err(err).Int64(logger.FieldUserID, claims.UserID).Str(logger.FieldComponent, logger.ComponentAuth).Msg("failed to load user")
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"message":"internal error"}`))
					return
				}
				users.Set(user)
			}

			log.UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Int64(logger.FieldUserID, claims.UserID)
			})

			r = r.WithContext(WithUserID(r.Context(), claims.UserID))
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"message":%q}`, msg)
}
