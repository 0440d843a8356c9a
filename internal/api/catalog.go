package api

import (
	"context"
	"net/http"
	"strconv"

	"kvadrat-crm/inventory/internal/constants"
	"kvadrat-crm/inventory/internal/db/repositories"
	"kvadrat-crm/inventory/internal/models/entities"
	"kvadrat-crm/inventory/internal/normalize"
	"kvadrat-crm/inventory/internal/services"
)

// ListComplexes handles GET /api/v1/complexes.
func (h *Handlers) ListComplexes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		complexes, err := h.deps.Repo.Complex.ListAll(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list complexes")
			return
		}
		respondWithSuccess(w, http.StatusOK, &complexes)
	}
}

// ListUnits handles GET /api/v1/complexes/{slug}/units and returns the
// imported catalog view (not the live grid).
func (h *Handlers) ListUnits() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cx := h.complexFromRequest(w, r)
		if cx == nil {
			return
		}

		units, err := h.deps.Repo.Unit.ListByComplex(r.Context(), cx.ID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list units")
			return
		}
		respondWithSuccess(w, http.StatusOK, &units)
	}
}

// GetUnit handles GET /api/v1/complexes/{slug}/units/lookup. The caller
// passes the raw block, floor and number query parameters; normalization
// happens here so lookups match however the unit was spelled at import time.
func (h *Handlers) GetUnit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cx := h.complexFromRequest(w, r)
		if cx == nil {
			return
		}

		block := r.URL.Query().Get("block")
		unitNumber := normalize.UnitNumber(r.URL.Query().Get("number"))
		floor, err := strconv.Atoi(r.URL.Query().Get("floor"))
		if block == "" || unitNumber == "" || err != nil {
			respondWithError(w, http.StatusBadRequest, "block, floor and number query parameters are required")
			return
		}

		unit, err := h.deps.Repo.Unit.FindByIdentity(r.Context(), cx.ID, normalize.BlockName(block), floor, unitNumber)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to look up unit")
			return
		}
		if unit == nil {
			respondWithError(w, http.StatusNotFound, "unit not found")
			return
		}
		respondWithSuccess(w, http.StatusOK, unit)
	}
}

type priceMatrixResponse struct {
	Categories []string     `json:"categories"`
	Floors     []int        `json:"floors"`
	Rows       [][]*float64 `json:"rows"`
}

// GetPriceMatrix handles GET /api/v1/complexes/{slug}/prices. Floors come
// back top-down, categories in their import column order; a nil cell means
// no price for this floor and category. The assembled matrix is cached under
// the complex namespace and dropped by the same invalidation as the grids.
func (h *Handlers) GetPriceMatrix() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cx := h.complexFromRequest(w, r)
		if cx == nil {
			return
		}

		key := constants.PriceGridCacheKey(cx.Slug)
		value, err := h.deps.Services.Cache.GetOrSet(key, services.DefaultGridTTL, func() (any, error) {
			return h.buildPriceMatrix(r.Context(), cx.ID)
		})
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list prices")
			return
		}

		matrix, ok := value.(*priceMatrixResponse)
		if !ok {
			h.deps.Services.Cache.Delete(key)
			matrix, err = h.buildPriceMatrix(r.Context(), cx.ID)
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "failed to list prices")
				return
			}
		}
		respondWithSuccess(w, http.StatusOK, matrix)
	}
}

func (h *Handlers) buildPriceMatrix(ctx context.Context, complexID string) (*priceMatrixResponse, error) {
	entries, err := h.deps.Repo.Price.ListByComplex(ctx, complexID)
	if err != nil {
		return nil, err
	}
	categories, floors, rows := repositories.PriceMatrix(entries)
	return &priceMatrixResponse{Categories: categories, Floors: floors, Rows: rows}, nil
}

// ListContracts handles GET /api/v1/complexes/{slug}/contracts.
func (h *Handlers) ListContracts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cx := h.complexFromRequest(w, r)
		if cx == nil {
			return
		}

		contracts, err := h.deps.Repo.Contract.ListByComplex(r.Context(), cx.ID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list contracts")
			return
		}
		if contracts == nil {
			contracts = []entities.ContractRegistryEntry{}
		}
		respondWithSuccess(w, http.StatusOK, &contracts)
	}
}
