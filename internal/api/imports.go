package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"kvadrat-crm/inventory/internal/importer"
	"kvadrat-crm/inventory/internal/logging"
	"kvadrat-crm/inventory/internal/models/dtos"
	"kvadrat-crm/inventory/internal/models/entities"
)

const maxImportUpload = 32 << 20 // 32 MB

// ImportSpreadsheet handles POST /api/v1/complexes/{slug}/import/{shape}
// with the .xlsx file in the "file" multipart field. Shape is one of
// unit_grid, price_grid, contract_registry.
func (h *Handlers) ImportSpreadsheet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cx := h.complexFromRequest(w, r)
		if cx == nil {
			return
		}
		shape := chi.URLParam(r, "shape")

		path, cleanup, err := saveUpload(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		defer cleanup()

		written, err := h.runImport(r.Context(), shape, cx, path)
		if err != nil {
			var verr *importer.ValidationError
			switch {
			case errors.As(err, &verr):
				respondWithError(w, http.StatusUnprocessableEntity, verr.Error())
			case errors.Is(err, errUnknownShape):
				respondWithError(w, http.StatusNotFound, err.Error())
			default:
				logging.Error("import failed", "complex", cx.Slug, "shape", shape, "error", err.Error())
				respondWithError(w, http.StatusInternalServerError, "import failed")
			}
			return
		}

		h.deps.Metrics.ImportRowsTotal.WithLabelValues(shape).Add(float64(written))
		// Imported data feeds the grid and plan lookups, start them fresh.
		h.deps.Services.LiveGrid.InvalidateComplex(cx.Slug)

		result := dtos.ImportResult{Shape: shape, ComplexSlug: cx.Slug, RowsWritten: written}
		respondWithSuccess(w, http.StatusOK, &result)
	}
}

var errUnknownShape = errors.New("unknown import shape")

func (h *Handlers) runImport(ctx context.Context, shape string, cx *entities.ResidentialComplex, path string) (int, error) {
	imp := h.deps.Services.Importer
	switch shape {
	case importer.ShapeUnitGrid:
		return imp.ImportChessGrid(ctx, cx.ID, path)
	case importer.ShapePriceGrid:
		return imp.ImportPriceGrid(ctx, cx.ID, path)
	case importer.ShapeContractRegistry:
		return imp.ImportContractRegistry(ctx, cx.ID, path)
	default:
		return 0, errUnknownShape
	}
}

// saveUpload spools the multipart file to a temp path the importer can open.
func saveUpload(r *http.Request) (string, func(), error) {
	if err := r.ParseMultipartForm(maxImportUpload); err != nil {
		return "", nil, errors.New("expected multipart form with a \"file\" field")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, errors.New("missing \"file\" field")
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "import-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", nil, errors.New("failed to store upload")
	}
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, errors.New("failed to store upload")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, errors.New("failed to store upload")
	}
	return tmp.Name(), func() { os.Remove(tmp.Name()) }, nil
}
