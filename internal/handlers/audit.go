package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/crucial707/pwasset/internal/models"
)

// AuditLister reads the audit log.
type AuditLister interface {
	ListAudit(ctx context.Context, limit, offset int) ([]models.AuditEntry, error)
}

// AuditHandler serves audit log endpoints.
type AuditHandler struct {
	Log AuditLister
	ErrorResponder
}

// ListAudit returns recent audit log entries. Query: limit (default 50), offset (default 0).
func (h *AuditHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 && val <= 200 {
			limit = val
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil && val >= 0 {
			offset = val
		}
	}

	entries, err := h.Log.ListAudit(r.Context(), limit, offset)
	if err != nil {
		h.Respond(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
