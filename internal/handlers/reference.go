package handlers

import (
	"context"
	"net/http"

	"github.com/crucial707/pwasset/internal/models"
)

// AreaLister lists areas.
type AreaLister interface {
	List(ctx context.Context) ([]models.Area, error)
}

// ParkLister lists parks.
type ParkLister interface {
	List(ctx context.Context) ([]models.Park, error)
}

// ReferenceHandler serves the static area and park lists.
type ReferenceHandler struct {
	Areas AreaLister
	Parks ParkLister
	ErrorResponder
}

func (h *ReferenceHandler) ListAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := h.Areas.List(r.Context())
	if err != nil {
		h.Respond(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, areas)
}

func (h *ReferenceHandler) ListParks(w http.ResponseWriter, r *http.Request) {
	parks, err := h.Parks.List(r.Context())
	if err != nil {
		h.Respond(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, parks)
}
