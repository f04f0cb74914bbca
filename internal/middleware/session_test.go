package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crucial707/pwasset/internal/auth"
	"github.com/crucial707/pwasset/internal/models"
	"github.com/crucial707/pwasset/internal/repo"
)

type stubUsers map[string]*models.User

func (s stubUsers) GetByUserID(_ context.Context, id string) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, repo.ErrNotFound
}

func TestSessionGate(t *testing.T) {
	tokens := &auth.Tokens{Secret: []byte("test-secret"), TTL: time.Hour, Remember: 24 * time.Hour}
	users := stubUsers{"alice": {UserID: "alice", UserName: "Alice"}}

	good, _, err := tokens.Issue("alice", false)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	ghost, _, _ := tokens.Issue("ghost", false)
	expired, _, _ := (&auth.Tokens{
		Secret: []byte("test-secret"), TTL: time.Hour,
		Now: func() time.Time { return time.Now().Add(-2 * time.Hour) },
	}).Issue("alice", false)
	forged, _, _ := (&auth.Tokens{Secret: []byte("other"), TTL: time.Hour}).Issue("alice", false)

	var seen *models.User
	h := SessionGate(tokens, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{"valid", "Bearer " + good, http.StatusOK, ""},
		{"missing", "", http.StatusUnauthorized, "token is missing"},
		{"raw token", good, http.StatusOK, ""},
		{"wrong scheme", "Basic YWxpY2U6cHc=", http.StatusUnauthorized, "token is invalid"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "token is invalid"},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized, "token is invalid"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "token is invalid"},
		{"wrong key", "Bearer " + forged, http.StatusUnauthorized, "token is invalid"},
		{"unknown user", "Bearer " + ghost, http.StatusUnauthorized, "token is invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest("GET", "/assets", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if seen == nil || seen.UserName != "Alice" {
					t.Errorf("user in context: %+v", seen)
				}
				return
			}
			var out map[string]string
			if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out["message"] != tt.wantMsg {
				t.Errorf("message: got %q, want %q", out["message"], tt.wantMsg)
			}
			if seen != nil {
				t.Error("handler must not run for rejected requests")
			}
		})
	}
}

type failingUsers struct{}

func (failingUsers) GetByUserID(context.Context, string) (*models.User, error) {
	return nil, errors.New("connection refused")
}

func TestSessionGate_StoreDown(t *testing.T) {
	tokens := &auth.Tokens{Secret: []byte("k"), TTL: time.Hour}
	tok, _, _ := tokens.Issue("alice", false)
	h := SessionGate(tokens, failingUsers{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	}))
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rr.Code)
	}
}

func TestIPRateLimiter(t *testing.T) {
	l := NewIPRateLimiter(0, 2)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes: got %v", codes)
	}

	req := httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("other client should have its own bucket, got %d", rr.Code)
	}
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d", rr.Code)
	}
	var out map[string]string
	json.NewDecoder(rr.Body).Decode(&out)
	if out["message"] != "internal server error" {
		t.Errorf("body: %v", out)
	}
}
