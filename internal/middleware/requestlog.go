package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

const requestInfoKey key = "request-info"

// requestInfo collects facts learned deeper in the chain that the request
// log needs once the handler returns.
type requestInfo struct {
	userID string
}

// noteUser records the authenticated user for the request log.
func noteUser(ctx context.Context, userID string) {
	if ri, ok := ctx.Value(requestInfoKey).(*requestInfo); ok {
		ri.userID = userID
	}
}

// RequestLog writes one line per request with the request id, route, status,
// duration and the user the session gate authenticated, if any. Server
// errors are logged at WARN. Mount it after RequestID.
func RequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ri := &requestInfo{}
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		r = r.WithContext(context.WithValue(r.Context(), requestInfoKey, ri))
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		slog.Log(r.Context(), level, "request",
			"request_id", chimw.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"route", routePattern(r),
			"status", status,
			"user_id", ri.userID,
			"duration_ms", time.Since(start).Milliseconds(),
			"size", ww.BytesWritten())
	})
}
