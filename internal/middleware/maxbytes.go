package middleware

import (
	"errors"
	"net/http"
)

// DefaultMaxBodyBytes caps a ledger request body. Records are a handful of
// short strings, so 64 KiB is generous.
const DefaultMaxBodyBytes = 64 << 10

// BodyLimit caps POST bodies at limit bytes. Reading past the cap fails
// with an error that BodyTooLarge recognises, and handlers answer 413.
func BodyLimit(limit int64) func(http.Handler) http.Handler {
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BodyTooLarge reports whether err came from reading past a BodyLimit cap.
func BodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
