package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kvadrat-crm/inventory/internal/db/repositories"
	"kvadrat-crm/inventory/internal/models/entities"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// complexFromRequest resolves the {slug} URL parameter. Writes the error
// response itself and returns nil when the complex does not exist.
func (h *Handlers) complexFromRequest(w http.ResponseWriter, r *http.Request) *entities.ResidentialComplex {
	slug := chi.URLParam(r, "slug")
	cx, err := h.deps.Repo.Complex.FindBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, repositories.ErrComplexNotFound) {
			respondWithError(w, http.StatusNotFound, "complex not found: "+slug)
		} else {
			respondWithError(w, http.StatusInternalServerError, "failed to load complex")
		}
		return nil
	}
	return cx
}
