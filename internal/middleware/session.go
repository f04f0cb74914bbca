package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/crucial707/pwasset/internal/models"
	"github.com/crucial707/pwasset/internal/repo"
)

type key string

const userKey key = "user"

// TokenParser resolves a bearer token to the user id it was issued for.
type TokenParser interface {
	Parse(token string) (string, error)
}

// UserLookup loads the account behind a token.
type UserLookup interface {
	GetByUserID(ctx context.Context, userID string) (*models.User, error)
}

// SessionGate rejects requests without a valid bearer token and makes the
// resolved user available through UserFromContext. A well-signed token
// naming a user that no longer exists is treated as invalid.
func SessionGate(tokens TokenParser, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r.Header.Get("Authorization"))
			if tokenStr == "" {
				writeMessage(w, http.StatusUnauthorized, "token is missing")
				return
			}

			userID, err := tokens.Parse(tokenStr)
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "token is invalid")
				return
			}

			user, err := users.GetByUserID(r.Context(), userID)
			if errors.Is(err, repo.ErrNotFound) {
				writeMessage(w, http.StatusUnauthorized, "token is invalid")
				return
			}
			if err != nil {
				slog.ErrorContext(r.Context(), "session lookup failed", "user_id", userID, "error", err)
				writeMessage(w, http.StatusInternalServerError, "internal server error")
				return
			}

			noteUser(r.Context(), user.UserID)
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser returns ctx carrying user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the user set by SessionGate, or nil.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

// bearerToken extracts the credential from an Authorization header. A
// header without the Bearer scheme is taken as a raw token.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) >= 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
