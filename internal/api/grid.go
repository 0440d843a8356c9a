package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"kvadrat-crm/inventory/internal/logging"
	"kvadrat-crm/inventory/internal/providers"
)

// GetStatusGrid handles GET /api/v1/complexes/{slug}/grid and serves the
// cached live booking view.
func (h *Handlers) GetStatusGrid() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cx := h.complexFromRequest(w, r)
		if cx == nil {
			return
		}

		grid, err := h.deps.Services.LiveGrid.GetStatusGrid(r.Context(), cx)
		if err != nil {
			respondProviderError(w, cx.Slug, "failed to load booking grid", err)
			return
		}
		respondWithSuccess(w, http.StatusOK, grid)
	}
}

type statusUpdateRequest struct {
	BlockName  string `json:"blockName"`
	Floor      int    `json:"floor"`
	UnitNumber string `json:"unitNumber"`
	Status     string `json:"status"`
}

type statusUpdateResponse struct {
	Updated bool `json:"updated"`
}

// SetUnitStatus handles POST /api/v1/complexes/{slug}/grid/status. Writes a
// single status cell in the live sheet; 404 when the unit row is missing.
func (h *Handlers) SetUnitStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cx := h.complexFromRequest(w, r)
		if cx == nil {
			return
		}

		var req statusUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.UnitNumber == "" || req.Status == "" {
			respondWithError(w, http.StatusBadRequest, "unitNumber and status are required")
			return
		}

		found, err := h.deps.Services.LiveGrid.SetStatus(r.Context(), cx, req.BlockName, req.Floor, req.UnitNumber, req.Status)
		if err != nil {
			respondProviderError(w, cx.Slug, "failed to write status", err)
			return
		}
		if !found {
			respondWithError(w, http.StatusNotFound, "unit not found in booking grid")
			return
		}
		respondWithSuccess(w, http.StatusOK, &statusUpdateResponse{Updated: true})
	}
}

// InvalidateCache handles POST /api/v1/complexes/{slug}/cache/invalidate.
// Drops every cached spreadsheet view of the complex.
func (h *Handlers) InvalidateCache() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cx := h.complexFromRequest(w, r)
		if cx == nil {
			return
		}

		h.deps.Services.LiveGrid.InvalidateComplex(cx.Slug)
		resp := map[string]string{"invalidated": cx.Slug}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// respondProviderError maps spreadsheet backend failures onto 502 so callers
// can tell an upstream outage from a bug in this service.
func respondProviderError(w http.ResponseWriter, slug, message string, err error) {
	logging.Error(message, "complex", slug, "error", err.Error())

	var perr *providers.ProviderError
	if errors.As(err, &perr) {
		respondWithError(w, http.StatusBadGateway, message+": "+perr.Message)
		return
	}
	respondWithError(w, http.StatusInternalServerError, message)
}
