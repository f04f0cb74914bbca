package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/crucial707/pwasset/internal/authz"
	"github.com/crucial707/pwasset/internal/ledger"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// ErrMessageInternal is the generic message for 500 responses.
const ErrMessageInternal = "internal server error"

// JSONError sends a JSON error response with a single "message" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"message": message})
}

// JSONValidationError sends a JSON error response with "message" and optional "fields" for field-level details.
// status is typically http.StatusBadRequest (400).
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string, status int) {
	out := map[string]interface{}{"message": message}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	writeJSON(w, status, out)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponder maps errors from the ledger core onto HTTP responses.
type ErrorResponder struct {
	// Expose puts the underlying error text into 500 bodies.
	Expose bool
}

// Respond writes the response for err: validation 400, not found 404,
// forbidden 403 and anything else 500.
func (e ErrorResponder) Respond(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ledger.ValidationError
	switch {
	case errors.As(err, &verr):
		JSONValidationError(w, verr.Message, verr.Fields, http.StatusBadRequest)
	case errors.Is(err, ledger.ErrNotFound):
		JSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, authz.ErrForbidden):
		JSONError(w, "forbidden", http.StatusForbidden)
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"request_id", chimw.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		msg := ErrMessageInternal
		if e.Expose {
			msg = "Error: " + err.Error()
		}
		JSONError(w, msg, http.StatusInternalServerError)
	}
}
