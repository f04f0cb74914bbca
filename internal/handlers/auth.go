package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/crucial707/pwasset/internal/metrics"
	"github.com/crucial707/pwasset/internal/middleware"
	"github.com/crucial707/pwasset/internal/models"
	"github.com/crucial707/pwasset/internal/repo"
)

// UserStore is the account lookup used by login.
type UserStore interface {
	GetByUserID(ctx context.Context, userID string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID, hash string) error
}

// PasswordHasher verifies and (re)hashes passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, stored string) (ok, rehash bool)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID string, remember bool) (string, time.Time, error)
}

// ParkResolver loads the parks named by a user's parkIds.
type ParkResolver interface {
	ListByIDs(ctx context.Context, ids []string) ([]models.Park, error)
}

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Users  UserStore
	Hasher PasswordHasher
	Tokens TokenIssuer
	Parks  ParkResolver
	ErrorResponder

	decoyOnce sync.Once
	decoyHash string
}

const msgInvalidCredentials = "invalid credentials"

// ==========================
// Login (userId and password required; unknown user and wrong password get the same answer)
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		UserID        string `json:"userId"`
		Password      string `json:"password"`
		Remember      bool   `json:"remember"`
		Remember7Days bool   `json:"remember7Days"`
	}

	if !decode(w, r, &input) {
		return
	}
	if input.UserID == "" || input.Password == "" {
		JSONError(w, "userId and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.Users.GetByUserID(r.Context(), input.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		h.verifyDecoy(input.Password)
		metrics.IncLogin("rejected")
		JSONError(w, msgInvalidCredentials, http.StatusUnauthorized)
		return
	}
	if err != nil {
		metrics.IncLogin("error")
		h.Respond(w, r, err)
		return
	}

	ok, rehash := h.Hasher.Verify(input.Password, user.Password)
	if !ok {
		metrics.IncLogin("rejected")
		JSONError(w, msgInvalidCredentials, http.StatusUnauthorized)
		return
	}
	if rehash {
		h.upgradeHash(r.Context(), user.UserID, input.Password)
	}

	token, expires, err := h.Tokens.Issue(user.UserID, input.Remember || input.Remember7Days)
	if err != nil {
		metrics.IncLogin("error")
		h.Respond(w, r, err)
		return
	}
	metrics.IncLogin("success")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Login successful",
		"token":     token,
		"expiresAt": expires.UTC().Format(time.RFC3339),
		"user":      user.Summary(),
	})
}

// verifyDecoy runs one password check against a throwaway hash so an unknown
// userId costs as much time as a wrong password.
func (h *AuthHandler) verifyDecoy(password string) {
	h.decoyOnce.Do(func() {
		hash, err := h.Hasher.Hash("decoy-password")
		if err != nil {
			slog.Warn("decoy hash unavailable", "error", err)
			return
		}
		h.decoyHash = hash
	})
	if h.decoyHash != "" {
		h.Hasher.Verify(password, h.decoyHash)
	}
}

// upgradeHash replaces a legacy or outdated hash after a successful login.
// Failure leaves the old hash in place for the next attempt.
func (h *AuthHandler) upgradeHash(ctx context.Context, userID, password string) {
	hash, err := h.Hasher.Hash(password)
	if err == nil {
		err = h.Users.UpdatePassword(context.WithoutCancel(ctx), userID, hash)
	}
	if err != nil {
		slog.WarnContext(ctx, "password rehash failed", "user_id", userID, "error", err)
		return
	}
	slog.InfoContext(ctx, "password hash upgraded", "user_id", userID)
}

// ==========================
// Profile (user summary plus the parks named by parkIds)
// ==========================
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		JSONError(w, "token is missing", http.StatusUnauthorized)
		return
	}

	parks, err := h.Parks.ListByIDs(r.Context(), user.ParkIDs)
	if err != nil {
		h.Respond(w, r, err)
		return
	}

	summary := user.Summary()
	summary.Parks = parks
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": summary})
}
