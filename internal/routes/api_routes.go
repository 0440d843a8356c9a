package routes

import (
	"github.com/go-chi/chi/v5"

	"kvadrat-crm/inventory/internal/api"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
// This keeps API route registration separate from the main router setup
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers) {

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Get("/complexes", handlers.ListComplexes())

		v1.Route("/complexes/{slug}", func(cx chi.Router) {
			// Catalog (imported data)
			cx.Get("/units", handlers.ListUnits())
			cx.Get("/units/lookup", handlers.GetUnit())
			cx.Get("/prices", handlers.GetPriceMatrix())
			cx.Get("/contracts", handlers.ListContracts())

			// Spreadsheet imports
			cx.Post("/import/{shape}", handlers.ImportSpreadsheet())

			// Live booking grid
			cx.Get("/grid", handlers.GetStatusGrid())
			cx.Post("/grid/status", handlers.SetUnitStatus())
			cx.Post("/cache/invalidate", handlers.InvalidateCache())

			// Floor plan artifacts
			cx.Get("/plan", handlers.GetPlanImage())
			cx.Post("/plans/warmup", handlers.WarmUpPlans())
		})
	})
}
