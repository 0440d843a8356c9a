package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"kvadrat-crm/inventory/internal/logging"
	"kvadrat-crm/inventory/internal/models/dtos"
	"kvadrat-crm/inventory/internal/normalize"
	"kvadrat-crm/inventory/internal/services"
)

// GetPlanImage handles GET /api/v1/complexes/{slug}/plan?block=...&area=...
// and serves the cached floor plan image, rendering it on first request.
func (h *Handlers) GetPlanImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cx := h.complexFromRequest(w, r)
		if cx == nil {
			return
		}

		block := r.URL.Query().Get("block")
		area := r.URL.Query().Get("area")
		if block == "" || area == "" {
			respondWithError(w, http.StatusBadRequest, "block and area query parameters are required")
			return
		}

		img, err := h.deps.Services.PlanCache.EnsurePlanImage(r.Context(), cx.Name, block, area)
		if err != nil {
			if errors.Is(err, services.ErrPlanNotFound) {
				respondWithError(w, http.StatusNotFound, "no floor plan for this block and area")
				return
			}
			logging.Error("plan lookup failed", "complex", cx.Slug, "block", block, "area", area, "error", err.Error())
			respondWithError(w, http.StatusInternalServerError, "failed to resolve floor plan")
			return
		}

		w.Header().Set("Content-Type", "image/png")
		http.ServeFile(w, r, img.Path)
	}
}

type warmupRequest struct {
	Pairs []dtos.WarmupPair `json:"pairs"`
}

type warmupResponse struct {
	Requested int `json:"requested"`
}

// WarmUpPlans handles POST /api/v1/complexes/{slug}/plans/warmup. With an
// empty body the pairs are derived from the imported unit set.
func (h *Handlers) WarmUpPlans() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cx := h.complexFromRequest(w, r)
		if cx == nil {
			return
		}

		var req warmupRequest
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondWithError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
		}

		pairs := req.Pairs
		if len(pairs) == 0 {
			blockAreas, err := h.deps.Repo.Unit.ListBlockAreas(r.Context(), cx.ID)
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "failed to list block areas")
				return
			}
			for _, ba := range blockAreas {
				if ba.AreaSqm == nil {
					continue
				}
				pairs = append(pairs, dtos.WarmupPair{
					BlockName: ba.BlockName,
					Area:      normalize.AreaFloat(*ba.AreaSqm),
				})
			}
		}

		// Warming renders PDFs; do it off the request. The request context
		// dies with the response, so the background pass gets its own.
		go h.deps.Services.PlanCache.WarmUp(context.Background(), cx.Name, pairs)

		respondWithSuccess(w, http.StatusAccepted, &warmupResponse{Requested: len(pairs)})
	}
}
