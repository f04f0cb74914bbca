package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/crucial707/pwasset/internal/ledger"
	"github.com/crucial707/pwasset/internal/middleware"
	"github.com/crucial707/pwasset/internal/models"
)

// Ledger is the mutation and query surface the ledger endpoints drive.
type Ledger interface {
	AddAsset(ctx context.Context, user *models.User, in ledger.AssetInput) (*models.Asset, error)
	UpdateAsset(ctx context.Context, user *models.User, id string, after map[string]any) (*models.Asset, error)
	DeleteAsset(ctx context.Context, user *models.User, id string) error
	ListAssets(ctx context.Context, user *models.User, locations []string) ([]models.Asset, error)

	AddTransfer(ctx context.Context, user *models.User, in ledger.TransferInput) (*models.Transfer, error)
	UpdateTransfer(ctx context.Context, user *models.User, id string, after map[string]any) (*models.Transfer, error)
	DeleteTransfer(ctx context.Context, user *models.User, id string) error
	ListTransfers(ctx context.Context, user *models.User, locations []string) ([]models.Transfer, error)

	AddDisposal(ctx context.Context, user *models.User, in ledger.DisposalInput) (*models.Disposal, error)
	UpdateDisposal(ctx context.Context, user *models.User, id string, after map[string]any) (*models.Disposal, error)
	DeleteDisposal(ctx context.Context, user *models.User, id string) error
	ListDisposals(ctx context.Context, user *models.User, locations []string) ([]models.Disposal, error)
}

// LedgerHandler serves the asset, transfer and disposal endpoints.
type LedgerHandler struct {
	Core Ledger
	ErrorResponder
}

// changeRequest is the update and delete body. After is also accepted
// under its legacy capitalised key.
type changeRequest struct {
	ID          string         `json:"id"`
	After       map[string]any `json:"after"`
	LegacyAfter map[string]any `json:"After"`
}

func (c changeRequest) after() map[string]any {
	if c.After != nil {
		return c.After
	}
	if c.LegacyAfter != nil {
		return c.LegacyAfter
	}
	return map[string]any{}
}

// decode reads a JSON request body into v, answering 413 for bodies past
// the size cap and 400 for anything unparsable.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	switch {
	case err == nil:
		return true
	case middleware.BodyTooLarge(err):
		JSONError(w, "request body too large", http.StatusRequestEntityTooLarge)
	default:
		JSONError(w, "invalid JSON", http.StatusBadRequest)
	}
	return false
}

func locations(r *http.Request) []string {
	return ledger.ParseLocations(r.URL.Query().Get("locations"))
}

func created(w http.ResponseWriter, message string, item models.Snapshot) {
	writeJSON(w, http.StatusCreated, map[string]any{"message": message, "item": item})
}

func updated(w http.ResponseWriter, message string, item models.Snapshot) {
	writeJSON(w, http.StatusOK, map[string]any{"message": message, "item": item})
}

func deleted(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

// ==========================
// Assets
// ==========================

func (h *LedgerHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.Core.ListAssets(r.Context(), middleware.UserFromContext(r.Context()), locations(r))
	if err != nil {
		h.Respond(w, r, err)
		return
	}
	out := make([]models.Snapshot, 0, len(assets))
	for i := range assets {
		out = append(out, assets[i].View())
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *LedgerHandler) AddAsset(w http.ResponseWriter, r *http.Request) {
	var in ledger.AssetInput
	if !decode(w, r, &in) {
		return
	}
	a, err := h.Core.AddAsset(r.Context(), middleware.UserFromContext(r.Context()), in)
	if err != nil {
		h.Respond(w, r, err)
		return
	}
	created(w, "Asset added successfully", a.View())
}

func (h *LedgerHandler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	var req changeRequest
	if !decode(w, r, &req) {
		return
	}
	a, err := h.Core.UpdateAsset(r.Context(), middleware.UserFromContext(r.Context()), req.ID, req.after())
	if err != nil {
		h.Respond(w, r, err)
		return
	}
	updated(w, "Asset updated successfully", a.View())
}

func (h *LedgerHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	var req changeRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.Core.DeleteAsset(r.Context(), middleware.UserFromContext(r.Context()), req.ID); err != nil {
		h.Respond(w, r, err)
		return
	}
	deleted(w, "Asset deleted successfully")
}

// ==========================
// Transfers
// ==========================

func (h *LedgerHandler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	transfers, err := h.Core.ListTransfers(r.Context(), middleware.UserFromContext(r.Context()), locations(r))
	if err != nil {
		h.Respond(w, r, err)
		return
	}
	out := make([]models.Snapshot, 0, len(transfers))
	for i := range transfers {
		out = append(out, transfers[i].View())
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *LedgerHandler) AddTransfer(w http.ResponseWriter, r *http.Request) {
	var in ledger.TransferInput
	if !decode(w, r, &in) {
		return
	}
	t, err := h.Core.AddTransfer(r.Context(), middleware.UserFromContext(r.Context()), in)
	if err != nil {
		h.Respond(w, r, err)
		return
	}
	created(w, "Transfer added successfully", t.View())
}

func (h *LedgerHandler) UpdateTransfer(w http.ResponseWriter, r *http.Request) {
	var req changeRequest
	if !decode(w, r, &req) {
		return
	}
	t, err := h.Core.UpdateTransfer(r.Context(), middleware.UserFromContext(r.Context()), req.ID, req.after())
	if err != nil {
		h.Respond(w, r, err)
		return
	}
	updated(w, "Transfer updated successfully", t.View())
}

func (h *LedgerHandler) DeleteTransfer(w http.ResponseWriter, r *http.Request) {
	var req changeRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.Core.DeleteTransfer(r.Context(), middleware.UserFromContext(r.Context()), req.ID); err != nil {
		h.Respond(w, r, err)
		return
	}
	deleted(w, "Transfer deleted successfully")
}

// ==========================
// Disposals
// ==========================

func (h *LedgerHandler) ListDisposals(w http.ResponseWriter, r *http.Request) {
	disposals, err := h.Core.ListDisposals(r.Context(), middleware.UserFromContext(r.Context()), locations(r))
	if err != nil {
		h.Respond(w, r, err)
		return
	}
	out := make([]models.Snapshot, 0, len(disposals))
	for i := range disposals {
		out = append(out, disposals[i].View())
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *LedgerHandler) AddDisposal(w http.ResponseWriter, r *http.Request) {
	var in ledger.DisposalInput
	if !decode(w, r, &in) {
		return
	}
	d, err := h.Core.AddDisposal(r.Context(), middleware.UserFromContext(r.Context()), in)
	if err != nil {
		h.Respond(w, r, err)
		return
	}
	created(w, "Disposal added successfully", d.View())
}

func (h *LedgerHandler) UpdateDisposal(w http.ResponseWriter, r *http.Request) {
	var req changeRequest
	if !decode(w, r, &req) {
		return
	}
	d, err := h.Core.UpdateDisposal(r.Context(), middleware.UserFromContext(r.Context()), req.ID, req.after())
	if err != nil {
		h.Respond(w, r, err)
		return
	}
	updated(w, "Disposal updated successfully", d.View())
}

func (h *LedgerHandler) DeleteDisposal(w http.ResponseWriter, r *http.Request) {
	var req changeRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.Core.DeleteDisposal(r.Context(), middleware.UserFromContext(r.Context()), req.ID); err != nil {
		h.Respond(w, r, err)
		return
	}
	deleted(w, "Disposal deleted successfully")
}
